package routes_test

import (
	"context"
	"errors"
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

	"tourdesk/auth"
	"tourdesk/inquiries"
	"tourdesk/models"
	"tourdesk/mq"
	"tourdesk/packages"
	"tourdesk/pagecontent"
	"tourdesk/ratelim"
	"tourdesk/routes"
	"tourdesk/settings"
	"tourdesk/utils"
)

var secret = []byte("route-secret")

type nopPackages struct{}

func (nopPackages) List(context.Context, packages.Filter, utils.QueryOptions) ([]models.Package, error) {
	return []models.Package{}, nil
}
func (nopPackages) FindByID(context.Context, primitive.ObjectID) (*models.Package, error) {
	return nil, packages.ErrNotFound
}
func (nopPackages) FindBySlug(context.Context, string) (*models.Package, error) {
	return nil, packages.ErrNotFound
}
func (nopPackages) SlugsWithPrefix(context.Context, string, primitive.ObjectID) ([]string, error) {
	return nil, nil
}
func (nopPackages) Insert(context.Context, *models.Package) error  { return nil }
func (nopPackages) Replace(context.Context, *models.Package) error { return nil }
func (nopPackages) Delete(context.Context, primitive.ObjectID) error {
	return packages.ErrNotFound
}

type nopInquiries struct{}

func (nopInquiries) Insert(context.Context, *models.Inquiry) error { return nil }
func (nopInquiries) List(context.Context, *bool) ([]models.Inquiry, error) {
	return []models.Inquiry{}, nil
}
func (nopInquiries) SetHandled(context.Context, primitive.ObjectID, bool) (*models.Inquiry, error) {
	return nil, inquiries.ErrNotFound
}
func (nopInquiries) Delete(context.Context, primitive.ObjectID) error { return inquiries.ErrNotFound }

type nopPages struct{}

func (nopPages) List(context.Context, string) ([]models.PageContent, error) {
	return []models.PageContent{}, nil
}
func (nopPages) Version(context.Context, string, string) (int, bool, error) { return 0, false, nil }
func (nopPages) Upsert(_ context.Context, b *models.PageContent, _ []string) (*models.PageContent, error) {
	return b, nil
}
func (nopPages) ApplyMigration(context.Context, pagecontent.Migration) (int64, error) { return 0, nil }

type nopSettings struct{}

func (nopSettings) Find(context.Context) (*models.Settings, error) {
	return &models.Settings{ID: models.SettingsID, CompanyName: "Tourdesk Travel"}, nil
}
func (nopSettings) Insert(context.Context, *models.Settings) error { return nil }
func (nopSettings) Upsert(_ context.Context, s *models.Settings) (*models.Settings, error) {
	return s, nil
}

type nopAdmins struct{}

func (nopAdmins) FindByEmail(context.Context, string) (*models.Admin, error) {
	return nil, auth.ErrAdminNotFound
}
func (nopAdmins) Insert(context.Context, *models.Admin) error                     { return nil }
func (nopAdmins) TouchLogin(context.Context, primitive.ObjectID, time.Time) error { return nil }

func server(t *testing.T, mongoErr error) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub := mq.LogPublisher{Log: log}

	d := routes.Deps{
		Packages:    packages.NewHandler(packages.NewService(nopPackages{}, pub, log), log, "https://example.com"),
		Inquiries:   inquiries.NewHandler(nopInquiries{}, pub, log),
		PageContent: pagecontent.NewHandler(nopPages{}, log),
		Settings:    settings.NewHandler(nopSettings{}, log),
		Auth:        auth.NewService(nopAdmins{}, secret, time.Hour, log),
		Health: &routes.Health{
			Mongo: func(context.Context) error { return mongoErr },
		},
		Secret:      secret,
		RateLimiter: ratelim.NewRateLimiter(60, 10),
		Log:         log,
	}
	return routes.Chain(d, routes.New(d), []string{"*"})
}

func call(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, _, err := auth.IssueToken(secret, &models.Admin{ID: primitive.NewObjectID(), Email: "a@b.co"}, time.Now(), time.Hour)
	require.NoError(t, err)
	return tok
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	h := server(t, nil)
	token := adminToken(t)

	tests := []struct {
		name, method, path, body, token string
		want                            int
	}{
		{"list packages", http.MethodGet, "/api/packages", "", "", http.StatusOK},
		{"create package anonymously", http.MethodPost, "/api/packages", `{"title":"X"}`, "", http.StatusUnauthorized},
		{"create package as admin", http.MethodPost, "/api/packages", `{"title":"X"}`, token, http.StatusCreated},
		{"submit inquiry", http.MethodPost, "/api/inquiries", `{"name":"A","email":"a@b.co","message":"hi"}`, "", http.StatusCreated},
		{"list inquiries anonymously", http.MethodGet, "/api/inquiries", "", "", http.StatusUnauthorized},
		{"list inquiries as admin", http.MethodGet, "/api/inquiries", "", token, http.StatusOK},
		{"read page content", http.MethodGet, "/api/page-content", "", "", http.StatusOK},
		{"write page content anonymously", http.MethodPost, "/api/page-content", `{"pageKey":"home","sectionKey":"hero"}`, "", http.StatusUnauthorized},
		{"write page content as admin", http.MethodPost, "/api/page-content", `{"pageKey":"home","sectionKey":"hero"}`, token, http.StatusOK},
		{"read settings", http.MethodGet, "/api/settings", "", "", http.StatusOK},
		{"write settings anonymously", http.MethodPost, "/api/settings", `{"companyName":"X"}`, "", http.StatusUnauthorized},
		{"upload anonymously", http.MethodPost, "/api/upload", "", "", http.StatusUnauthorized},
		{"upload disabled", http.MethodPost, "/api/upload", "", token, http.StatusServiceUnavailable},
		{"login with unknown admin", http.MethodPost, "/api/auth/login", `{"email":"x@y.co","password":"p"}`, "", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/nothing", "", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(h, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestHealth(t *testing.T) {
	rec := call(server(t, nil), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mongo":"ok","redis":"disabled"}`, rec.Body.String())

	rec = call(server(t, errors.New("down")), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"mongo":"error","redis":"disabled"}`, rec.Body.String())
}
