// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/orchestrator"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/store"
)

const defaultMaxBodyBytes = 10 << 20

var tracer = otel.Tracer("reposense.handlers")

// API holds what the analysis handlers share. Engine instances are built per
// request and never shared between requests.
type API struct {
	store        store.Store
	orchestrator *orchestrator.Orchestrator
	logger       *slog.Logger
	maxBodyBytes int64
}

func NewAPI(st store.Store, logger *slog.Logger, maxBodyBytes int64) *API {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &API{
		store:        st,
		orchestrator: orchestrator.New(logger),
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Register mounts every analysis route on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", HealthHandler)
	mux.HandleFunc("/graph", a.GraphHandler)
	mux.HandleFunc("/org", a.OrgHandler)
	mux.HandleFunc("/impact", a.ImpactHandler)
	mux.HandleFunc("/compat", a.CompatHandler)
	mux.HandleFunc("/runs", a.RunsHandler)
	mux.HandleFunc("/runs/{id}", a.RunHandler)
}

// readBody reads at most maxBodyBytes. It reports false after writing the
// error response itself.
func (a *API) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func (a *API) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		a.logger.Error("failed to encode response",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}
