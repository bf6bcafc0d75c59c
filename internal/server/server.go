// Package server exposes the account ledger over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/elmledger/internal/model"
)

// Ledger is the engine behaviour the handlers need.
type Ledger interface {
	Load(ctx context.Context) (model.Store, error)
	Save(slot model.Slot, acct model.Account) (model.Account, error)
	Snapshot() (model.Store, bool, error)
	Rename(slot model.Slot, name, subtitle string) (model.Account, error)
	SetTerms(slot model.Slot, terms model.FinancingTerms) (model.Account, error)
}

// NewRouter builds the HTTP routes.
func NewRouter(ledger Ledger, logger zerolog.Logger) http.Handler {
	h := &handler{ledger: ledger, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/accounts", func(r chi.Router) {
		r.Get("/", h.load)
		r.Get("/cached", h.cached)
		r.Get("/{slot}", h.get)
		r.Put("/{slot}", h.save)
		r.Patch("/{slot}", h.rename)
		r.Put("/{slot}/terms", h.setTerms)
	})
	return r
}

// Serve runs the HTTP server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		// Load waits on the provider, so writes get more room than reads.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
