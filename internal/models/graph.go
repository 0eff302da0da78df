// Package models defines the core data structures shared by the analysis engine.
// It includes graph, contract, impact and snapshot records and their JSON shape.
package models

import "time"

type NodeKind string

const (
	NodeKindFile      NodeKind = "File"
	NodeKindFunction  NodeKind = "Function"
	NodeKindClass     NodeKind = "Class"
	NodeKindEndpoint  NodeKind = "Endpoint"
	NodeKindComponent NodeKind = "Component"
)

const EdgeKindCalls = "calls"

type Graph struct {
	Nodes    []Node        `json:"nodes"`
	Edges    []Edge        `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
}

type Node struct {
	ID               string         `json:"id"`
	Kind             NodeKind       `json:"kind"`
	Name             string         `json:"name"`
	FilePath         string         `json:"file_path,omitempty"`
	CriticalityScore float64        `json:"criticality_score"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Kind   string  `json:"kind"`
	Weight float64 `json:"weight"`
}

type GraphMetadata struct {
	TotalNodes  int       `json:"total_nodes"`
	TotalEdges  int       `json:"total_edges"`
	MaxDepth    int       `json:"max_depth"`
	GeneratedAt time.Time `json:"generated_at"`
}
