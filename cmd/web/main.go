package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

const (
	defaultPort = "3000"
	defaultAPI  = "http://localhost:8080"
	envWebPort  = "STOCKROOM_WEB_PORT"
	envAPIURL   = "STOCKROOM_API_URL"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, defaultAPI)

	views, err := newRenderer(templatesFS)
	if err != nil {
		slog.Error("load templates", "error", err)
		os.Exit(1)
	}
	app := &web{api: newAPIClient(apiBase), views: views}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("web UI running", "addr", "http://localhost:"+port, "api", apiBase)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("web server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func (a *web) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(forwardClientIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Public
	r.Get("/login", a.loginForm)
	r.Post("/login", a.loginSubmit)
	r.Get("/logout", a.logout)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(a.requireSession)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
		})
		r.Get("/dashboard", a.dashboard)

		r.Get("/sections", a.sections)
		r.Post("/sections", a.createSection)
		r.Get("/sections/{id}", a.sectionDetail)
		r.Post("/sections/{id}/delete", a.deleteSection)
		r.Post("/sections/{id}/items", a.addItem)
		r.Post("/sections/{id}/items/{itemId}/adjust", a.adjustItem)
		r.Post("/sections/{id}/items/{itemId}/delete", a.deleteItem)

		r.Get("/employees", a.employees)
		r.Post("/employees", a.addEmployee)
		r.Post("/employees/{id}/delete", a.deleteEmployee)

		r.Get("/logs", a.logs)
	})
	return r
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
