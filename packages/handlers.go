package packages

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tourdesk/utils"
)

type Handler struct {
	svc     *Service
	log     *slog.Logger
	siteURL string
}

// NewHandler wires the HTTP surface. siteURL is the public site root used
// for brochure QR codes.
func NewHandler(svc *Service, log *slog.Logger, siteURL string) *Handler {
	return &Handler{svc: svc, log: log, siteURL: siteURL}
}

// GET /api/packages
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := Filter{Active: utils.ParseBoolQuery(r, "active")}
	pkgs, err := h.svc.List(r.Context(), filter, utils.ParseQueryOptions(r))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pkgs)
}

// POST /api/packages
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in Input
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// GET /api/packages/:id
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	param := ps.ByName("id")
	p, err := h.svc.Resolve(r.Context(), param)
	if err != nil {
		h.fail(w, r, err, param)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// PUT /api/packages/:id
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in Input
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	param := ps.ByName("id")
	p, err := h.svc.Update(r.Context(), param, in)
	if err != nil {
		h.fail(w, r, err, param)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// DELETE /api/packages/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	param := ps.ByName("id")
	if err := h.svc.Delete(r.Context(), param); err != nil {
		h.fail(w, r, err, param)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Package deleted"})
}

// fail maps service errors onto responses. Only unexpected errors are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, param string) {
	switch {
	case errors.Is(err, ErrInvalid):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Package not found")
	case errors.Is(err, ErrSlugConflict):
		utils.RespondWithError(w, http.StatusConflict, "A package with this title already exists")
	default:
		h.log.ErrorContext(r.Context(), "package request failed",
			"method", r.Method, "param", param, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}
