package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/stockroom/internal/auth"
	"github.com/crucial707/stockroom/internal/config"
	"github.com/crucial707/stockroom/internal/handlers"
	"github.com/crucial707/stockroom/internal/middleware"
	"github.com/crucial707/stockroom/internal/models"
	"github.com/crucial707/stockroom/internal/repo"
	"github.com/crucial707/stockroom/internal/service"
)

// app holds the services shared by the router and the background watcher.
type app struct {
	auth      *service.AuthService
	logs      *service.LogService
	inventory *service.InventoryService
}

func newApp(db *sql.DB, cfg config.Config, summaries service.SummaryCache) *app {
	return &app{
		auth:      service.NewAuthService(repo.NewUserRepo(db), auth.NewTokenService(cfg.JWTSecret), summaries, 0),
		logs:      service.NewLogService(repo.NewLogRepo(db), summaries),
		inventory: service.NewInventoryService(db, summaries, cfg.LowStockThreshold),
	}
}

// newRouter builds the full HTTP handler. summaries may be nil.
func newRouter(db *sql.DB, cfg config.Config, summaries service.SummaryCache) http.Handler {
	return newApp(db, cfg, summaries).routes(db, cfg)
}

func (a *app) routes(db *sql.DB, cfg config.Config) http.Handler {
	authH := &handlers.AuthHandler{Auth: a.auth}
	userH := &handlers.UserHandler{Auth: a.auth}
	logH := &handlers.LogHandler{Logs: a.logs}
	invH := &handlers.InventoryHandler{Inventory: a.inventory}

	authLimiter := middleware.AuthRateLimiter()
	requireToken := middleware.Authenticate(a.auth)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.LimitBody(middleware.MaxBodyBytes))

	// ==========================
	// Probes
	// ==========================
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// ==========================
		// Auth
		// ==========================
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/signup", authH.Signup)
				r.Post("/signin", authH.Signin)
				r.Post("/changepassword", authH.ChangePassword)
			})
			r.Post("/logout", authH.Logout)

			r.Group(func(r chi.Router) {
				r.Use(requireToken)
				r.Get("/me", authH.Me)
				r.Get("/users", userH.ListUsers)
				r.With(adminOnly).Delete("/users/{id}", userH.DeleteUser)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireToken)

			r.Get("/employees", userH.ListUsers)

			// ==========================
			// Activity log
			// ==========================
			r.Post("/logs/create", logH.CreateLog)
			r.Get("/logs", logH.ListLogs)

			// ==========================
			// Sections
			// ==========================
			r.Get("/sections", invH.ListSections)
			r.With(adminOnly).Post("/sections", invH.CreateSection)
			r.With(adminOnly).Delete("/sections/{id}", invH.DeleteSection)

			// ==========================
			// Items
			// ==========================
			r.Get("/items", invH.ListItems)
			r.Get("/items/lowstock", invH.LowStock)
			r.Route("/items/section/{sectionId}", func(r chi.Router) {
				r.Get("/", invH.ListSectionItems)
				r.Post("/", invH.CreateItem)
				r.Put("/{itemId}", invH.UpdateItem)
				r.Post("/{itemId}/adjust", invH.AdjustItem)
				r.With(adminOnly).Delete("/{itemId}", invH.DeleteItem)
			})

			r.Get("/dashboard/summary", invH.Summary)
		})
	})

	return r
}
