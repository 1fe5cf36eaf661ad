// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goline/ams/internal/apiclient"
	"github.com/goline/ams/internal/handler"
	"github.com/goline/ams/internal/live"
	"github.com/goline/ams/internal/obs"
	"github.com/goline/ams/internal/pagedef"
	"github.com/goline/ams/internal/store"
)

// Config holds server configuration.
type Config struct {
	Addr string
	// ManagementURL points the page handlers at an external backend.
	// Empty serves and consumes the local management endpoint.
	ManagementURL   string
	PageDef         *pagedef.Definition
	Store           store.Store
	ShutdownTimeout time.Duration
}

// NewRouter builds the chi router with all routes registered.
func NewRouter(cfg Config) http.Handler {
	mgmt := handler.NewManagementHandler(cfg.PageDef)

	var source handler.EnvelopeSource
	if cfg.ManagementURL != "" {
		source = apiclient.New(cfg.ManagementURL)
	} else {
		source = handler.NewLocalSource(mgmt)
	}

	hub := live.NewHub()
	pages := handler.NewPageHandler(source, cfg.Store, hub)

	r := chi.NewRouter()
	r.Use(handler.RequestID, handler.Logging, handler.Recovery)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/products/management", mgmt.GetManagement)

	r.Get("/", pages.Home)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", pages.GetProducts)
		r.Get("/new", pages.NewForm)
		r.Post("/", pages.CreateProduct)
		r.Get("/ws", live.NewHandler(hub).ServeHTTP)
		r.Get("/{id}/edit", pages.EditForm)
		r.Post("/{id}", pages.UpdateProduct)
	})

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: NewRouter(cfg),
	}

	errCh := make(chan error, 1)
	go func() {
		obs.Logger.Info("server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
