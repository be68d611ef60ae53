package routes

import (
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tourdesk/auth"
	"tourdesk/inquiries"
	"tourdesk/middleware"
	"tourdesk/packages"
	"tourdesk/pagecontent"
	"tourdesk/ratelim"
	"tourdesk/settings"
	"tourdesk/upload"
	"tourdesk/utils"
)

// Deps carries everything the routes need. A nil Upload disables uploads.
type Deps struct {
	Packages    *packages.Handler
	Inquiries   *inquiries.Handler
	PageContent *pagecontent.Handler
	Settings    *settings.Handler
	Upload      *upload.Handler
	Auth        *auth.Service
	Health      *Health

	Secret      []byte
	RateLimiter *ratelim.RateLimiter
	Log         *slog.Logger
}

// New builds the router. Package and inquiry routes are guarded by
// middleware.Authorize in front of the router; the remaining admin writes
// are wrapped here.
func New(d Deps) *httprouter.Router {
	router := httprouter.New()
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		d.Log.ErrorContext(r.Context(), "handler panic", "path", r.URL.Path, "value", v)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
	})

	RoutesWrapper(router, d)
	return router
}

func RoutesWrapper(router *httprouter.Router, d Deps) {
	AddHealthRoutes(router, d)
	AddAuthRoutes(router, d)
	AddPackageRoutes(router, d)
	AddInquiryRoutes(router, d)
	AddPageContentRoutes(router, d)
	AddSettingsRoutes(router, d)
	AddUploadRoutes(router, d)
}

func AddHealthRoutes(router *httprouter.Router, d Deps) {
	router.GET("/health", d.Health.Check)
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/login", d.RateLimiter.Limit(d.Auth.LoginHandler))
}

func AddPackageRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/packages", d.Packages.List)
	router.POST("/api/packages", d.Packages.Create)
	router.GET("/api/packages/:id", d.Packages.Get)
	router.PUT("/api/packages/:id", d.Packages.Update)
	router.DELETE("/api/packages/:id", d.Packages.Delete)
	router.GET("/api/packages/:id/brochure", d.Packages.Brochure)
}

func AddInquiryRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/inquiries", d.RateLimiter.Limit(d.Inquiries.Create))
	router.GET("/api/inquiries", d.Inquiries.List)
	router.PUT("/api/inquiries/:id", d.Inquiries.Update)
	router.DELETE("/api/inquiries/:id", d.Inquiries.Delete)
}

func AddPageContentRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/page-content", d.PageContent.List)
	router.POST("/api/page-content", middleware.Authenticate(d.Secret, d.Log, d.PageContent.Upsert))
}

func AddSettingsRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/settings", d.Settings.Get)
	router.POST("/api/settings", middleware.Authenticate(d.Secret, d.Log, d.Settings.Save))
}

func AddUploadRoutes(router *httprouter.Router, d Deps) {
	handle := uploadsDisabled
	if d.Upload != nil {
		handle = d.Upload.Upload
	}
	router.POST("/api/upload", middleware.Authenticate(d.Secret, d.Log, handle))
}

func uploadsDisabled(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithError(w, http.StatusServiceUnavailable, "Uploads are not configured")
}
