package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"tourdesk/auth"
	"tourdesk/middleware"
	"tourdesk/models"
)

var secret = []byte("s3cret")

type memAdmins struct {
	byEmail map[string]*models.Admin
	touched int
}

func newMemAdmins() *memAdmins { return &memAdmins{byEmail: map[string]*models.Admin{}} }

func (m *memAdmins) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, auth.ErrAdminNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAdmins) Insert(_ context.Context, a *models.Admin) error {
	if _, ok := m.byEmail[a.Email]; ok {
		return auth.ErrAdminExists
	}
	cp := *a
	m.byEmail[a.Email] = &cp
	return nil
}

func (m *memAdmins) TouchLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	for _, a := range m.byEmail {
		if a.ID == id {
			a.LastLogin = at
			m.touched++
		}
	}
	return nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func seeded(t *testing.T) *memAdmins {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost
	store := newMemAdmins()
	require.NoError(t, auth.EnsureAdmin(context.Background(), store, " Admin@Example.com ", "correct horse", discard()))
	return store
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	store := seeded(t)
	first := store.byEmail["admin@example.com"]
	require.NotNil(t, first)
	assert.NotEqual(t, "correct horse", first.PasswordHash)

	require.NoError(t, auth.EnsureAdmin(context.Background(), store, "admin@example.com", "other", discard()))
	assert.Len(t, store.byEmail, 1)
	assert.Equal(t, first.PasswordHash, store.byEmail["admin@example.com"].PasswordHash)

	require.NoError(t, auth.EnsureAdmin(context.Background(), store, "", "", discard()))
	assert.Len(t, store.byEmail, 1)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	store := seeded(t)
	svc := auth.NewService(store, secret, 24*time.Hour, discard())

	res, err := svc.Login(context.Background(), "ADMIN@example.com", "correct horse")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), res.ExpiresAt, time.Minute)
	assert.Equal(t, 1, store.touched)

	claims, err := middleware.ValidateJWT(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, res.Admin.ID.Hex(), claims.AdminID)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	store := seeded(t)
	svc := auth.NewService(store, secret, time.Hour, discard())

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginHandler(t *testing.T) {
	store := seeded(t)
	svc := auth.NewService(store, secret, time.Hour, discard())

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		svc.LoginHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)), nil)
		return rec
	}

	rec := post(`{"email":"admin@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Token string         `json:"token"`
		Admin map[string]any `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)
	assert.NotContains(t, res.Admin, "password_hash")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	wrongPassword := post(`{"email":"admin@example.com","password":"nope"}`)
	unknownEmail := post(`{"email":"ghost@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	assert.Equal(t, http.StatusBadRequest, post(`{"email":"admin@example.com"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{`).Code)
}
