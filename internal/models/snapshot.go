// Package models defines the core data structures shared by the analysis engine.
// It includes graph, contract, impact and snapshot records and their JSON shape.
package models

import "time"

type EndpointRecord struct {
	NodeID           string   `json:"node_id"`
	Method           string   `json:"method"`
	Path             string   `json:"path"`
	File             string   `json:"file,omitempty"`
	Line             int      `json:"line,omitempty"`
	CriticalityScore float64  `json:"criticality_score"`
	InboundCalls     int      `json:"inbound_calls"`
	Callers          []string `json:"callers,omitempty"`
	Tests            []string `json:"tests,omitempty"`
}

type RunSummary struct {
	TotalEndpoints    int      `json:"total_endpoints"`
	TestedEndpoints   int      `json:"tested_endpoints"`
	UntestedEndpoints int      `json:"untested_endpoints"`
	TotalCalls        int      `json:"total_calls"`
	LinkedCalls       int      `json:"linked_calls"`
	OrphanCalls       int      `json:"orphan_calls"`
	EvidenceCount     int      `json:"evidence_count"`
	TopCritical       []string `json:"top_critical"`
}

// RunGraph is the normalized per-repository snapshot handed to reporting.
type RunGraph struct {
	RunID       string           `json:"run_id"`
	RepoID      string           `json:"repo_id,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
	Graph       Graph            `json:"graph"`
	Endpoints   []EndpointRecord `json:"endpoints"`
	Tests       []TestRecord     `json:"tests"`
	Evidence    []EvidenceRecord `json:"evidence"`
	Summary     RunSummary       `json:"summary"`
}

// OrgRun is the stored result of a multi-repository analysis.
type OrgRun struct {
	RunID         string              `json:"run_id"`
	CreatedAt     time.Time           `json:"created_at"`
	Repos         []RunGraph          `json:"repos"`
	ContractGraph ContractGraphExport `json:"contract_graph"`
	OrgGraph      OrgGraph            `json:"org_graph"`
}
