package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"useraccounts/shared/go/config"
)

// serveHTTP runs handler until ctx is done, then drains in-flight requests.
func serveHTTP(ctx context.Context, cfg config.ServerConfig, handler http.Handler, logger zerolog.Logger) error {
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	log := logger.With().Str("server.addr", server.Addr).Logger()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting HTTP server")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil {
		return err
	}
	log.Info().Msg("Server closed")
	return nil
}
