package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"tourdesk/utils"
)

// Health reports dependency status. A nil Redis check means events are
// disabled.
type Health struct {
	Mongo func(context.Context) error
	Redis func(context.Context) error
}

// GET /health
func (h *Health) Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"mongo": "ok", "redis": "disabled"}
	code := http.StatusOK

	if err := h.Mongo(ctx); err != nil {
		status["mongo"] = "error"
		code = http.StatusServiceUnavailable
	}
	if h.Redis != nil {
		status["redis"] = "ok"
		if err := h.Redis(ctx); err != nil {
			status["redis"] = "error"
		}
	}
	utils.RespondWithJSON(w, code, status)
}
