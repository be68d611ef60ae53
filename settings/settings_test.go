package settings_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/models"
	"tourdesk/settings"
)

type memStore struct {
	doc     *models.Settings
	inserts int
	// raceOnInsert stores a competing document before reporting ErrExists.
	raceOnInsert *models.Settings
}

func (m *memStore) Find(context.Context) (*models.Settings, error) {
	if m.doc == nil {
		return nil, settings.ErrNotFound
	}
	s := *m.doc
	return &s, nil
}

func (m *memStore) Insert(_ context.Context, s *models.Settings) error {
	if m.raceOnInsert != nil {
		m.doc, m.raceOnInsert = m.raceOnInsert, nil
		return settings.ErrExists
	}
	if m.doc != nil {
		return settings.ErrExists
	}
	m.inserts++
	cp := *s
	m.doc = &cp
	return nil
}

func (m *memStore) Upsert(_ context.Context, s *models.Settings) (*models.Settings, error) {
	cp := *s
	if m.doc != nil {
		cp.CreatedAt = m.doc.CreatedAt
	} else {
		cp.CreatedAt = s.UpdatedAt
	}
	m.doc = &cp
	out := cp
	return &out, nil
}

func router(store settings.Store) *httprouter.Router {
	h := settings.NewHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := httprouter.New()
	r.GET("/api/settings", h.Get)
	r.POST("/api/settings", h.Save)
	return r
}

func TestGetCreatesDefaultOnce(t *testing.T) {
	store := &memStore{}
	r := router(store)

	for range 2 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var s models.Settings
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		assert.Equal(t, "Tourdesk Travel", s.CompanyName)
		assert.Equal(t, "Mon-Fri 9:00-18:00", s.BusinessHours)
	}
	assert.Equal(t, 1, store.inserts)
	assert.Equal(t, models.SettingsID, store.doc.ID)
}

func TestLoadRereadsAfterLosingInsertRace(t *testing.T) {
	store := &memStore{raceOnInsert: &models.Settings{ID: models.SettingsID, CompanyName: "Winner"}}

	s, err := settings.Load(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "Winner", s.CompanyName)
	assert.Zero(t, store.inserts)
}

func TestSaveUpsertsSingleton(t *testing.T) {
	store := &memStore{}
	r := router(store)

	body := `{"companyName":"Safari <b>Co</b>","email":"hello@safari.co","socialLinks":{"instagram":"https://instagram.com/safari"},"mapEmbedUrl":"https://maps.example.com/embed?q=1"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settings", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var s models.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "Safari Co", s.CompanyName)
	assert.Equal(t, "https://instagram.com/safari", s.SocialLinks.Instagram)
	assert.Equal(t, models.SettingsID, store.doc.ID)
}

func TestSaveValidation(t *testing.T) {
	r := router(&memStore{})
	for name, body := range map[string]string{
		"no company": `{"email":"a@b.co"}`,
		"bad email":  `{"companyName":"X","email":"nope"}`,
		"http map":   `{"companyName":"X","mapEmbedUrl":"http://maps.example.com"}`,
		"unknown":    `{"companyName":"X","theme":"dark"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settings", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
