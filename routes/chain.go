package routes

import (
	"net/http"

	"github.com/rs/cors"

	"tourdesk/middleware"
)

// Chain applies, outermost first: CORS, security headers, request id,
// logging, panic recovery, then the authorization filter.
func Chain(d Deps, router http.Handler, allowedOrigins []string) http.Handler {
	var h http.Handler = router
	h = middleware.Authorize(middleware.DefaultPolicy, d.Secret, d.Log)(h)
	h = middleware.Recover(d.Log)(h)
	h = middleware.Logging(d.Log)(h)
	h = middleware.RequestID(h)
	h = middleware.SecurityHeaders(h)

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(h)
}
