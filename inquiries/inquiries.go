package inquiries

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourdesk/models"
	"tourdesk/mq"
	"tourdesk/sanitizer"
	"tourdesk/utils"
)

var errInvalid = errors.New("invalid inquiry")

var now = func() time.Time { return time.Now().UTC() }

type Handler struct {
	store Store
	pub   mq.Publisher
	log   *slog.Logger
}

func NewHandler(store Store, pub mq.Publisher, log *slog.Logger) *Handler {
	return &Handler{store: store, pub: pub, log: log}
}

type submission struct {
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	TravelDates    *models.TravelDates `json:"travelDates"`
	NumberOfPeople int                 `json:"numberOfPeople"`
	Message        string              `json:"message"`
}

// validate normalises the submission into a new inquiry.
func (s submission) validate() (*models.Inquiry, error) {
	inq := &models.Inquiry{
		Name:           sanitizer.StripTags(s.Name),
		Phone:          sanitizer.StripTags(s.Phone),
		Message:        sanitizer.StripTags(s.Message),
		NumberOfPeople: s.NumberOfPeople,
		TravelDates:    s.TravelDates,
	}

	switch {
	case inq.Name == "":
		return nil, fmt.Errorf("%w: name is required", errInvalid)
	case strings.TrimSpace(s.Email) == "":
		return nil, fmt.Errorf("%w: email is required", errInvalid)
	case inq.Message == "":
		return nil, fmt.Errorf("%w: message is required", errInvalid)
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(s.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: email is not valid", errInvalid)
	}
	inq.Email = strings.ToLower(addr.Address)

	if inq.NumberOfPeople < 0 {
		return nil, fmt.Errorf("%w: numberOfPeople must be positive", errInvalid)
	}
	if inq.NumberOfPeople == 0 {
		inq.NumberOfPeople = 1
	}

	if d := inq.TravelDates; d != nil {
		if d.Start == nil && d.End == nil {
			inq.TravelDates = nil
		} else if d.Start != nil && d.End != nil && d.End.Before(*d.Start) {
			return nil, fmt.Errorf("%w: travel end date is before start date", errInvalid)
		}
	}
	return inq, nil
}

// POST /api/inquiries
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body submission
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inq, err := body.validate()
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	inq.ID = primitive.NewObjectID()
	inq.CreatedAt = now()
	inq.UpdatedAt = inq.CreatedAt

	if err := h.store.Insert(r.Context(), inq); err != nil {
		h.log.ErrorContext(r.Context(), "saving inquiry failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not send your inquiry, please try again")
		return
	}

	mq.Notify(r.Context(), h.pub, h.log, "inquiry.created", models.Index{
		EntityType: "inquiry",
		Method:     "POST",
		EntityId:   inq.ID.Hex(),
	})
	utils.RespondWithJSON(w, http.StatusCreated, inq)
}

// GET /api/inquiries
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list, err := h.store.List(r.Context(), utils.ParseBoolQuery(r, "handled"))
	if err != nil {
		h.log.ErrorContext(r.Context(), "listing inquiries failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch inquiries")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// PUT /api/inquiries/:id
// Only the handled flag is mutable; an empty body marks the inquiry handled.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid inquiry ID")
		return
	}

	var body struct {
		Handled *bool `json:"handled"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	handled := true
	if body.Handled != nil {
		handled = *body.Handled
	}

	inq, err := h.store.SetHandled(r.Context(), id, handled)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Inquiry not found")
			return
		}
		h.log.ErrorContext(r.Context(), "updating inquiry failed", "id", id.Hex(), "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update inquiry")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, inq)
}

// DELETE /api/inquiries/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid inquiry ID")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Inquiry not found")
			return
		}
		h.log.ErrorContext(r.Context(), "deleting inquiry failed", "id", id.Hex(), "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete inquiry")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Inquiry deleted"})
}
