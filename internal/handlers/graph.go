// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/graph"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/metrics"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/parser"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/rungraph"
)

const defaultCriticalLimit = 10

// GraphResponse is a single-repository run snapshot plus its most critical nodes.
type GraphResponse struct {
	models.RunGraph
	CriticalNodes []models.Node `json:"critical_nodes"`
}

func (a *API) GraphHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultCriticalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit: must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	body, ok := a.readBody(w, r)
	if !ok {
		return
	}

	input, err := parser.ParseAnalysis(body)
	if err != nil {
		http.Error(w, "Invalid analysis: "+err.Error(), http.StatusBadRequest)
		return
	}

	g := graph.Build(input.Endpoints, input.APICalls)
	metrics.GraphNodes.Observe(float64(g.NodeCount()))

	run := rungraph.NewAssembler().Assemble("", r.URL.Query().Get("repo"), g, *input)

	a.logger.Info("graph built",
		slog.String("run_id", run.RunID),
		slog.Int("nodes", g.NodeCount()),
		slog.Int("edges", g.EdgeCount()),
	)

	a.writeJSON(w, r, http.StatusOK, GraphResponse{
		RunGraph:      run,
		CriticalNodes: g.CriticalNodes(limit),
	})
}
