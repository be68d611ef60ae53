package pagecontent

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"tourdesk/models"
	"tourdesk/sanitizer"
	"tourdesk/utils"
)

type Handler struct {
	store Store
	log   *slog.Logger
}

func NewHandler(store Store, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// GET /api/page-content?pageKey=home
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pageKey := strings.TrimSpace(r.URL.Query().Get("pageKey"))
	blocks, err := h.store.List(r.Context(), pageKey)
	if err != nil {
		h.log.ErrorContext(r.Context(), "listing page content failed", "pageKey", pageKey, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch page content")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, blocks)
}

type blockInput struct {
	PageKey    string `json:"pageKey"`
	SectionKey string `json:"sectionKey"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	BodyText   string `json:"bodyText"`
	MediaURL   string `json:"mediaUrl"`
}

// POST /api/page-content
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in blockInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	block := &models.PageContent{
		PageKey:    strings.TrimSpace(in.PageKey),
		SectionKey: strings.TrimSpace(in.SectionKey),
		Title:      sanitizer.StripTags(in.Title),
		Subtitle:   sanitizer.StripTags(in.Subtitle),
		BodyText:   sanitizer.StripTags(in.BodyText),
		MediaURL:   strings.TrimSpace(in.MediaURL),
		UpdatedAt:  time.Now().UTC(),
	}
	if block.PageKey == "" || block.SectionKey == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "pageKey and sectionKey are required")
		return
	}

	saved, err := h.save(r.Context(), block)
	if err != nil {
		h.log.ErrorContext(r.Context(), "saving page content failed",
			"pageKey", block.PageKey, "sectionKey", block.SectionKey, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save page content")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// save upserts the block. A stored block from an older schema has the
// pending migrations' fields stripped in the same write.
func (h *Handler) save(ctx context.Context, block *models.PageContent) (*models.PageContent, error) {
	version, found, err := h.store.Version(ctx, block.PageKey, block.SectionKey)
	if err != nil {
		return nil, err
	}
	var unset []string
	if found && version < CurrentSchemaVersion {
		unset = PendingUnsets(version)
		h.log.InfoContext(ctx, "migrating legacy page content on write",
			"pageKey", block.PageKey, "sectionKey", block.SectionKey, "from", version)
	}
	return h.store.Upsert(ctx, block, unset)
}
