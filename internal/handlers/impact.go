// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/contracts"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/impact"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/metrics"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/orchestrator"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/parser"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/store"
)

// ImpactRequest names the contract graph to analyze either by a stored run id
// or by an inline manifest. RunID wins when both are set. The manifest is
// either a JSON object or a string holding a JSON or YAML document.
type ImpactRequest struct {
	RunID    string             `json:"run_id,omitempty"`
	Manifest json.RawMessage    `json:"manifest,omitempty"`
	Change   models.ChangePoint `json:"change"`
}

type CompatRequest struct {
	ProducerVersion string `json:"producer_version" validate:"required"`
	ConsumerVersion string `json:"consumer_version" validate:"required"`
}

// inlineManifest unwraps a manifest sent as a JSON string. A null manifest
// counts as absent.
func inlineManifest(raw json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '"' {
		return trimmed, nil
	}

	var doc string
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func (a *API) ImpactHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, span := tracer.Start(r.Context(), "handlers.Impact")
	defer span.End()

	body, ok := a.readBody(w, r)
	if !ok {
		return
	}

	var req ImpactRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid impact request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := parser.Validate(&req.Change); err != nil {
		http.Error(w, "Invalid change: "+err.Error(), http.StatusBadRequest)
		return
	}

	var manifestDoc []byte
	if req.RunID == "" {
		doc, err := inlineManifest(req.Manifest)
		if err != nil {
			http.Error(w, "Invalid manifest: "+err.Error(), http.StatusBadRequest)
			return
		}
		manifestDoc = doc
	}

	var cg *contracts.ContractGraph
	switch {
	case req.RunID != "":
		run, err := a.store.Load(ctx, req.RunID)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return
		}
		if err != nil {
			a.logger.Error("failed to load run", slog.String("run_id", req.RunID), slog.String("error", err.Error()))
			http.Error(w, "Failed to load run", http.StatusInternalServerError)
			return
		}
		cg = contracts.FromExport(run.ContractGraph)

	case len(manifestDoc) > 0:
		manifest, err := parser.ParseManifest(manifestDoc)
		if err != nil {
			http.Error(w, "Invalid manifest: "+err.Error(), http.StatusBadRequest)
			return
		}
		res, err := a.orchestrator.Run(ctx, *manifest, orchestrator.Options{})
		if err != nil {
			a.logger.Error("org run failed", slog.String("error", err.Error()))
			http.Error(w, "Failed to analyze manifest", http.StatusInternalServerError)
			return
		}
		cg = res.Contracts

	default:
		http.Error(w, "Either run_id or manifest is required", http.StatusBadRequest)
		return
	}

	analysis := impact.NewAnalyzer(cg).AnalyzeChange(req.Change)
	metrics.ImpactRiskScore.Observe(float64(analysis.RiskScore))

	span.SetAttributes(
		attribute.String("reposense.repo", req.Change.RepoID),
		attribute.Int("reposense.affected_repos", len(analysis.AffectedRepos)),
		attribute.Int("reposense.risk_score", analysis.RiskScore),
	)

	a.logger.Info("impact analyzed",
		slog.String("repo", req.Change.RepoID),
		slog.String("service", req.Change.Service),
		slog.Int("affected_repos", len(analysis.AffectedRepos)),
		slog.Int("risk_score", analysis.RiskScore),
	)

	a.writeJSON(w, r, http.StatusOK, analysis)
}

func (a *API) CompatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, ok := a.readBody(w, r)
	if !ok {
		return
	}

	var req CompatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid compat request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := parser.Validate(&req); err != nil {
		http.Error(w, "Invalid compat request: "+err.Error(), http.StatusBadRequest)
		return
	}

	a.writeJSON(w, r, http.StatusOK, contracts.New().CheckCompatibility(req.ProducerVersion, req.ConsumerVersion))
}
