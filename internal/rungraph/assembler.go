// Package rungraph merges a scored component graph with endpoint, test and
// evidence records into one serializable snapshot per repository run.
package rungraph

import (
	"sort"
	"strings"
	"time"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/graph"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"github.com/google/uuid"
)

// TopCriticalLimit bounds the summary's list of most critical node ids.
const TopCriticalLimit = 5

type Assembler struct {
	now   func() time.Time
	newID func() string
}

func NewAssembler() *Assembler {
	return &Assembler{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Assemble copies everything it returns; later changes to g or input do not
// reach the snapshot. An empty runID gets a fresh one.
func (a *Assembler) Assemble(runID, repoID string, g *graph.ComponentGraph, input models.AnalysisInput) models.RunGraph {
	if runID == "" {
		runID = a.newID()
	}

	testsByEndpoint := indexTests(input.Tests)

	endpoints := make([]models.EndpointRecord, 0, len(input.Endpoints))
	seen := make(map[string]bool, len(input.Endpoints))
	tested := 0
	for _, ep := range input.Endpoints {
		id := graph.EndpointNodeID(ep.Path, ep.Method)
		if seen[id] {
			continue
		}
		seen[id] = true

		rec := models.EndpointRecord{
			NodeID:       id,
			Method:       ep.Method,
			Path:         ep.Path,
			File:         ep.File,
			Line:         ep.Line,
			InboundCalls: g.InDegree(id),
			Callers:      callers(g, id),
			Tests:        testsByEndpoint[id],
		}
		if n, ok := g.Node(id); ok {
			rec.CriticalityScore = n.CriticalityScore
		}
		if len(rec.Tests) > 0 {
			tested++
		}
		endpoints = append(endpoints, rec)
	}

	sort.SliceStable(endpoints, func(i, j int) bool {
		if endpoints[i].CriticalityScore != endpoints[j].CriticalityScore {
			return endpoints[i].CriticalityScore > endpoints[j].CriticalityScore
		}
		return endpoints[i].NodeID < endpoints[j].NodeID
	})

	linked := 0
	for _, call := range input.APICalls {
		if seen[graph.EndpointNodeID(call.Endpoint, call.Method)] {
			linked++
		}
	}

	top := make([]string, 0, TopCriticalLimit)
	for _, n := range g.CriticalNodes(TopCriticalLimit) {
		top = append(top, n.ID)
	}

	tests := make([]models.TestRecord, len(input.Tests))
	for i, t := range input.Tests {
		t.Endpoints = append([]string(nil), t.Endpoints...)
		tests[i] = t
	}
	evidence := make([]models.EvidenceRecord, len(input.Evidence))
	copy(evidence, input.Evidence)

	return models.RunGraph{
		RunID:       runID,
		RepoID:      repoID,
		GeneratedAt: a.now().UTC(),
		Graph:       *g.Export(),
		Endpoints:   endpoints,
		Tests:       tests,
		Evidence:    evidence,
		Summary: models.RunSummary{
			TotalEndpoints:    len(endpoints),
			TestedEndpoints:   tested,
			UntestedEndpoints: len(endpoints) - tested,
			TotalCalls:        len(input.APICalls),
			LinkedCalls:       linked,
			OrphanCalls:       len(input.APICalls) - linked,
			EvidenceCount:     len(evidence),
			TopCritical:       top,
		},
	}
}

// callers lists every node that transitively reaches the endpoint, sorted.
func callers(g *graph.ComponentGraph, id string) []string {
	var out []string
	for _, n := range g.Dependents(id) {
		if n.ID != id {
			out = append(out, n.ID)
		}
	}
	sort.Strings(out)
	return out
}

// indexTests maps endpoint node ids to test names. Tests reference endpoints
// either by node id or as "METHOD /path".
func indexTests(tests []models.TestRecord) map[string][]string {
	index := make(map[string][]string)
	for _, t := range tests {
		for _, ref := range t.Endpoints {
			id := normalizeEndpointRef(ref)
			if id == "" {
				continue
			}
			index[id] = append(index[id], t.Name)
		}
	}
	return index
}

func normalizeEndpointRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "endpoint:") {
		return ref
	}

	method, path, ok := strings.Cut(ref, " ")
	if !ok {
		return ""
	}
	return graph.EndpointNodeID(strings.TrimSpace(path), strings.ToUpper(method))
}
