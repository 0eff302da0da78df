// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/orchestrator"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/parser"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/store"
)

type RunListResponse struct {
	RunIDs []string `json:"run_ids"`
}

// OrgHandler analyzes a fleet manifest (JSON or YAML body) and stores the run.
func (a *API) OrgHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, ok := a.readBody(w, r)
	if !ok {
		return
	}

	manifest, err := parser.ParseManifest(body)
	if err != nil {
		http.Error(w, "Invalid manifest: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := a.orchestrator.Run(r.Context(), *manifest, orchestrator.Options{})
	if err != nil {
		a.logger.Error("org run failed", slog.String("error", err.Error()))
		http.Error(w, "Failed to analyze manifest", http.StatusInternalServerError)
		return
	}

	if err := a.store.Save(r.Context(), res.Run); err != nil {
		a.logger.Error("failed to store run",
			slog.String("run_id", res.Run.RunID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Failed to store run", http.StatusInternalServerError)
		return
	}

	a.writeJSON(w, r, http.StatusOK, res.Run)
}

func (a *API) RunHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	run, err := a.store.Load(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		a.logger.Error("failed to load run", slog.String("run_id", id), slog.String("error", err.Error()))
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	a.writeJSON(w, r, http.StatusOK, run)
}

func (a *API) RunsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ids, err := a.store.RunIDs(r.Context())
	if err != nil {
		a.logger.Error("failed to list runs", slog.String("error", err.Error()))
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	a.writeJSON(w, r, http.StatusOK, RunListResponse{RunIDs: ids})
}
