package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"tourdesk/utils"
)

// JWT claims
type Claims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// ValidateJWT checks signature, algorithm and expiry.
func ValidateJWT(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func verifyRequest(r *http.Request, secret []byte) error {
	raw, err := BearerToken(r)
	if err != nil {
		return err
	}
	_, err = ValidateJWT(secret, raw)
	return err
}

// unauthorized answers every credential failure identically.
func unauthorized(w http.ResponseWriter) {
	utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
}

// Authenticate guards a single route. Nothing about the caller is added to the
// request context.
func Authenticate(secret []byte, log *slog.Logger, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if err := verifyRequest(r, secret); err != nil {
			log.DebugContext(r.Context(), "bearer rejected", "path", r.URL.Path, "error", err)
			unauthorized(w)
			return
		}
		next(w, r, ps)
	}
}
