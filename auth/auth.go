package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourdesk/models"
	"tourdesk/utils"
)

type Service struct {
	store  AdminStore
	secret []byte
	ttl    time.Duration
	log    *slog.Logger
}

func NewService(store AdminStore, secret []byte, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{store: store, secret: secret, ttl: ttl, log: log}
}

type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Admin     *models.Admin `json:"admin"`
}

// Login checks the credentials and issues a bearer token. Unknown emails and
// wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrAdminNotFound) {
		return nil, err
	}
	if err := checkPassword(admin, password); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token, expiresAt, err := IssueToken(s.secret, admin, now, s.ttl)
	if err != nil {
		return nil, err
	}

	if err := s.store.TouchLogin(ctx, admin.ID, now); err != nil {
		s.log.WarnContext(ctx, "recording last login failed", "admin", admin.ID.Hex(), "error", err)
	}
	admin.LastLogin = now
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// EnsureAdmin creates the bootstrap admin if it is configured and missing.
func EnsureAdmin(ctx context.Context, store AdminStore, email, password string, log *slog.Logger) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		log.InfoContext(ctx, "no bootstrap admin configured")
		return nil
	}

	_, err := store.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrAdminNotFound) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.Admin{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.Insert(ctx, admin); err != nil && !errors.Is(err, ErrAdminExists) {
		return err
	}
	log.InfoContext(ctx, "bootstrap admin created", "email", email)
	return nil
}

// POST /api/auth/login
func (s *Service) LoginHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if normalizeEmail(input.Email) == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	res, err := s.Login(r.Context(), input.Email, input.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		s.log.InfoContext(r.Context(), "login rejected", "remote", r.RemoteAddr)
		utils.RespondWithError(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
		return
	case err != nil:
		s.log.ErrorContext(r.Context(), "login failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}
