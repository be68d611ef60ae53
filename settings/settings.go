package settings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"tourdesk/models"
	"tourdesk/sanitizer"
	"tourdesk/utils"
)

// Default settings if the document doesn't exist yet
func defaultSettings(now time.Time) *models.Settings {
	return &models.Settings{
		ID:            models.SettingsID,
		CompanyName:   "Tourdesk Travel",
		BusinessHours: "Mon-Fri 9:00-18:00",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

type Handler struct {
	store Store
	log   *slog.Logger
}

func NewHandler(store Store, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// Load returns the settings, creating the default document on first read.
// A concurrent first read that loses the insert race re-reads the winner.
func Load(ctx context.Context, store Store) (*models.Settings, error) {
	s, err := store.Find(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	s = defaultSettings(time.Now().UTC())
	switch err := store.Insert(ctx, s); {
	case err == nil:
		return s, nil
	case errors.Is(err, ErrExists):
		return store.Find(ctx)
	default:
		return nil, err
	}
}

// GET /api/settings
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, err := Load(r.Context(), h.store)
	if err != nil {
		h.log.ErrorContext(r.Context(), "loading settings failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, s)
}

type settingsInput struct {
	CompanyName   string             `json:"companyName"`
	Address       string             `json:"address"`
	Phone         string             `json:"phone"`
	Email         string             `json:"email"`
	SocialLinks   models.SocialLinks `json:"socialLinks"`
	BusinessHours string             `json:"businessHours"`
	MapEmbedURL   string             `json:"mapEmbedUrl"`
}

// POST /api/settings
func (h *Handler) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in settingsInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s := &models.Settings{
		ID:            models.SettingsID,
		CompanyName:   sanitizer.StripTags(in.CompanyName),
		Address:       sanitizer.StripTags(in.Address),
		Phone:         sanitizer.StripTags(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		BusinessHours: sanitizer.StripTags(in.BusinessHours),
		MapEmbedURL:   strings.TrimSpace(in.MapEmbedURL),
		SocialLinks: models.SocialLinks{
			Facebook:  strings.TrimSpace(in.SocialLinks.Facebook),
			Instagram: strings.TrimSpace(in.SocialLinks.Instagram),
			Twitter:   strings.TrimSpace(in.SocialLinks.Twitter),
			YouTube:   strings.TrimSpace(in.SocialLinks.YouTube),
			TikTok:    strings.TrimSpace(in.SocialLinks.TikTok),
			WhatsApp:  strings.TrimSpace(in.SocialLinks.WhatsApp),
		},
		UpdatedAt: time.Now().UTC(),
	}

	if s.CompanyName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "companyName is required")
		return
	}
	if s.Email != "" {
		if _, err := mail.ParseAddress(s.Email); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "email is not valid")
			return
		}
	}
	if s.MapEmbedURL != "" {
		if u, err := url.Parse(s.MapEmbedURL); err != nil || u.Scheme != "https" || u.Host == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "mapEmbedUrl must be an https URL")
			return
		}
	}

	saved, err := h.store.Upsert(r.Context(), s)
	if err != nil {
		h.log.ErrorContext(r.Context(), "saving settings failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}
