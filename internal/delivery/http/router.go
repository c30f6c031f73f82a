package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventcheckin/internal/delivery/http/controllers"
	"eventcheckin/internal/delivery/http/middleware"
	"eventcheckin/internal/domain"
)

// RouterConfig carries the controllers and cross-cutting dependencies the
// router wires together.
type RouterConfig struct {
	Logger           *slog.Logger
	TokenVerifier    domain.TokenVerifier
	AuthController   *controllers.AuthController
	EventController  *controllers.EventController
	PersonController *controllers.PersonController
	StatsController  *controllers.StatsController
	// UploadsDir, when non-empty, is served at /uploads/ for locally stored
	// banner images.
	UploadsDir string
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(cfg.TokenVerifier, cfg.Logger)
	adminOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(middleware.RequireRole(domain.RoleAdmin)(next))
	}
	anyStaff := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(middleware.RequireRole(domain.RoleAdmin, domain.RoleAuthenticator)(next))
	}

	// Auth
	mux.HandleFunc("POST /api/auth/login", cfg.AuthController.Login)
	mux.HandleFunc("GET /api/auth/me", requireAuth(cfg.AuthController.Me))
	mux.HandleFunc("PUT /api/auth/updatepassword", requireAuth(cfg.AuthController.UpdatePassword))
	mux.HandleFunc("POST /api/auth/register", adminOnly(cfg.AuthController.RegisterStaff))
	mux.HandleFunc("GET /api/auth/staff", adminOnly(cfg.AuthController.ListStaff))

	// Events
	mux.HandleFunc("GET /api/events/active", cfg.EventController.GetActive)
	mux.HandleFunc("POST /api/events", adminOnly(cfg.EventController.Create))
	mux.HandleFunc("GET /api/events", adminOnly(cfg.EventController.List))
	mux.HandleFunc("GET /api/events/{eventID}", adminOnly(cfg.EventController.GetByID))
	mux.HandleFunc("PUT /api/events/{eventID}", adminOnly(cfg.EventController.Update))
	mux.HandleFunc("DELETE /api/events/{eventID}", adminOnly(cfg.EventController.Delete))
	mux.HandleFunc("POST /api/events/{eventID}/banner", adminOnly(cfg.EventController.UploadBanner))
	mux.HandleFunc("PUT /api/events/{eventID}/activate", adminOnly(cfg.EventController.Activate))
	mux.HandleFunc("PUT /api/events/{eventID}/deactivate", adminOnly(cfg.EventController.Deactivate))

	// Users (attendees)
	mux.HandleFunc("POST /api/users/register", cfg.PersonController.Register)
	mux.HandleFunc("POST /api/users/onspot", requireAuth(cfg.PersonController.RegisterOnSpot))
	mux.HandleFunc("POST /api/users/checkin", requireAuth(cfg.PersonController.CheckIn))
	mux.HandleFunc("GET /api/users/phone/{phone}", cfg.PersonController.LookupByPhone)
	mux.HandleFunc("GET /api/users", requireAuth(cfg.PersonController.List))

	// Stats
	mux.HandleFunc("GET /api/stats/gender", adminOnly(cfg.StatsController.Gender))
	mux.HandleFunc("GET /api/stats/city", adminOnly(cfg.StatsController.City))
	mux.HandleFunc("GET /api/stats/checkin", adminOnly(cfg.StatsController.CheckIn))
	mux.HandleFunc("GET /api/stats/registration", adminOnly(cfg.StatsController.RegistrationMethod))
	// The dashboard is read by both staff consoles.
	mux.HandleFunc("GET /api/stats/dashboard", anyStaff(cfg.StatsController.Dashboard))

	// Locally stored banner images
	if cfg.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	// Operational endpoints
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
