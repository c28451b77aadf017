package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hv-analyzer/internal/shared/server"
	"hv-analyzer/internal/shared/telemetry"
)

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for up to the configured shutdown timeout.
func Serve(ctx context.Context, app *App) error {
	addr := server.Addr(app.Config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("server.start", map[string]any{"addr": addr, "env": app.Config.Env})
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

	timeout := app.Config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	telemetry.Info("server.shutdown", map[string]any{"timeout_ms": timeout.Milliseconds()})
	return srv.Shutdown(shutdownCtx)
}
