package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// NewMux - HTTP API plus the websocket endpoint on /ws.
func NewMux(logger *slog.Logger, deps Deps, ws http.Handler) *http.ServeMux {
	h := &handlers{
		logger: logger.With("component", "rest"),
		deps:   deps,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", ping)
	mux.HandleFunc("GET /rooms/{room}/game", h.game)
	mux.HandleFunc("POST /rooms/{room}/commands", h.command)
	mux.HandleFunc("GET /snapshots/{kind}/{room}", h.mirror)
	mux.HandleFunc("GET /players/{player}/record", h.record)
	mux.HandleFunc("GET /players/{player}/results", h.results)

	if ws != nil {
		mux.Handle("/ws", ws)
	}

	return mux
}

// Start - serves handler until ctx is done.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
