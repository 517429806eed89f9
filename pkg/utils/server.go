package utils

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// ShutdownGrace bounds how long in-flight requests get once ctx is done.
const ShutdownGrace = 15 * time.Second

// ServeHTTP runs srv until ctx is cancelled, then shuts it down gracefully.
// It is meant to be launched from an errgroup.
func ServeHTTP(ctx context.Context, srv *http.Server, name string, log logger.Logger) error {
	log = log.WithFields(logger.StringField("listener", name), logger.StringField("addr", srv.Addr))

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP listener starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()

	log.Info("HTTP listener shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
