package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func ok(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusNoContent)
}

func hit(h httprouter.Handle, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/inquiries", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	return rec.Code
}

func TestLimitPerIP(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, 2)
	rl.now = func() time.Time { return clock }
	h := rl.Limit(ok)

	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.1:1111"))
	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:3333"))

	// another client is unaffected
	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.2:1111"))

	// one token refills every 12s at 5/min
	clock = clock.Add(12 * time.Second)
	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.1:4444"))
}

func TestRejectionCarriesRetryAfter(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	h := rl.Limit(ok)
	hit(h, "10.0.0.9:1")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.9:2"
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "61", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests"}`, rec.Body.String())
}

func TestIdleVisitorsAreSwept(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, 1)
	rl.now = func() time.Time { return clock }

	rl.getLimiter("a")
	clock = clock.Add(idleTTL + time.Second)
	rl.getLimiter("b")

	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}
