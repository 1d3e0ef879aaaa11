// Package server exposes the expense and budget API over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/socialbudget/backend/internal/middleware"
	"github.com/socialbudget/backend/internal/service"
)

// Config holds the server settings.
type Config struct {
	Addr            string
	UploadsDir      string
	ShutdownTimeout time.Duration
}

// Dependencies are the services the handlers delegate to.
type Dependencies struct {
	Expenses *service.ExpenseService
	Budgets  *service.BudgetService
}

// WebAPI is the HTTP front of the social budget backend.
type WebAPI struct {
	router *chi.Mux
	server *http.Server
	config Config
}

// New assembles the router and handlers.
func New(config Config, deps Dependencies) *WebAPI {
	api := &WebAPI{config: config}
	h := &handlers{deps: deps}

	router := chi.NewRouter()
	router.Use(middleware.Logging)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Metrics)
	router.Use(middleware.CORS)

	router.Route("/api", func(r chi.Router) {
		r.Get("/employees", h.listEmployees)
		r.Get("/expenses", h.listExpenses)
		r.Post("/expenses", h.createExpense)
		r.Get("/budgets", h.getBudgets)
	})

	// Uploaded receipts are served back from the uploads dir.
	router.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(config.UploadsDir))))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	api.router = router
	api.server = &http.Server{
		Addr: config.Addr,
		// h2c allows HTTP/2 without TLS for clients behind the proxy.
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}
	return api
}

// Router exposes the handler tree, mainly for tests.
func (a *WebAPI) Router() http.Handler {
	return a.router
}

// Start runs the server until it fails or a shutdown signal arrives, then
// drains in-flight requests within the configured timeout.
func (a *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		slog.Info("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			return a.server.Close()
		}
	}

	return nil
}
