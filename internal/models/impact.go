// Package models defines the core data structures shared by the analysis engine.
// It includes graph, contract, impact and snapshot records and their JSON shape.
package models

import "time"

// ChangePoint names the service a proposed change touches.
type ChangePoint struct {
	RepoID      string `json:"repo_id" yaml:"repo_id" validate:"required"`
	Service     string `json:"service,omitempty" yaml:"service,omitempty"`
	ChangeType  string `json:"change_type,omitempty" yaml:"change_type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type ImpactLink struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	Depth       int       `json:"depth"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Description string    `json:"description"`
	Mitigations []string  `json:"mitigations"`
}

type ImpactAnalysis struct {
	ChangePoint         ChangePoint  `json:"change_point"`
	AffectedRepos       []string     `json:"affected_repos"`
	ImpactChain         []ImpactLink `json:"impact_chain"`
	DownstreamEndpoints int          `json:"downstream_endpoints"`
	BreakingRisks       int          `json:"breaking_risks"`
	CriticalLinks       int          `json:"critical_links"`
	RiskScore           int          `json:"risk_score"`
	RiskLevel           RiskLevel    `json:"risk_level"`
	Recommendations     []string     `json:"recommendations"`
	AnalyzedAt          time.Time    `json:"analyzed_at"`
}
