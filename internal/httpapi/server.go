// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

// Package httpapi serves the chart datasets as a read-only JSON API. The
// dataset is parsed once when the server is created; every request
// aggregates that immutable record slice with its own query options.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/davetashner/tvcharts/internal/dataset"
	"github.com/davetashner/tvcharts/internal/tv"
)

// shutdownTimeout bounds how long Serve waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server holds the parsed dataset and the base build configuration that
// query parameters are applied to.
type Server struct {
	records []tv.Record
	parse   tv.ParseSummary
	base    tv.BuildConfig
}

// New parses rows with the column names in base and returns a Server.
func New(rows []dataset.Row, base tv.BuildConfig) *Server {
	parsed := dataset.Parse(rows, dataset.DefaultColumns().Override(base.Columns))
	slog.Info("dataset loaded", "source", base.Source, "records", parsed.Summary.Parsed, "dropped", parsed.Summary.Dropped)
	return &Server{
		records: parsed.Records,
		parse:   parsed.Summary,
		base:    base,
	}
}

// NewRouter registers the API routes on a new router.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/datasets", s.listDatasets).Methods(http.MethodGet)
	api.HandleFunc("/datasets/{kind}", s.getDataset).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Handler returns the router wrapped with CORS and an access log written to
// accessLog in Apache common log format.
func (s *Server) Handler(accessLog io.Writer) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)
	return handlers.LoggingHandler(accessLog, cors(s.NewRouter()))
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
