// Package models defines the core data structures shared by the analysis engine.
// It includes graph, contract, impact and snapshot records and their JSON shape.
package models

import "time"

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type DriftClassification string

const (
	DriftHealthy  DriftClassification = "HEALTHY"
	DriftDrift    DriftClassification = "DRIFT"
	DriftBreaking DriftClassification = "BREAKING"
)

// ServiceRef is one logical end of a contract.
type ServiceRef struct {
	RepoID  string `json:"repo_id" yaml:"repo_id" validate:"required"`
	Service string `json:"service" yaml:"service" validate:"required"`
	Version string `json:"version" yaml:"version"`
}

type Contract struct {
	ID          string     `json:"id" yaml:"id,omitempty"`
	Producer    ServiceRef `json:"producer" yaml:"producer"`
	Consumer    ServiceRef `json:"consumer" yaml:"consumer"`
	Version     string     `json:"version" yaml:"version"`
	Breaking    bool       `json:"breaking" yaml:"breaking"`
	LastUpdated time.Time  `json:"last_updated" yaml:"last_updated,omitempty"`
}

type VersionCompatibility struct {
	ProducerVersion string    `json:"producer_version"`
	ConsumerVersion string    `json:"consumer_version"`
	Compatible      bool      `json:"compatible"`
	Reason          string    `json:"reason"`
	RiskLevel       RiskLevel `json:"risk_level"`
}

type BreakingChange struct {
	ContractID        string     `json:"contract_id"`
	Producer          ServiceRef `json:"producer"`
	Consumer          ServiceRef `json:"consumer"`
	AffectedRepos     []string   `json:"affected_repos"`
	Severity          RiskLevel  `json:"severity"`
	VersionDifference string     `json:"version_difference,omitempty"`
}

type ContractSummary struct {
	TotalContracts  int `json:"total_contracts"`
	BreakingChanges int `json:"breaking_changes"`
	DriftedRepos    int `json:"drifted_repos"`
}

// ContractGraphExport is the serializable view of a contract graph.
type ContractGraphExport struct {
	Version              string                         `json:"version"`
	Timestamp            time.Time                      `json:"timestamp"`
	Contracts            []Contract                     `json:"contracts"`
	BreakingChanges      []BreakingChange               `json:"breaking_changes"`
	DriftClassifications map[string]DriftClassification `json:"drift_classifications"`
	Summary              ContractSummary                `json:"summary"`
}

type RepoMetadata struct {
	ID         string              `json:"id"`
	Path       string              `json:"path,omitempty"`
	Owner      string              `json:"owner,omitempty"`
	Version    string              `json:"version,omitempty"`
	Endpoints  int                 `json:"endpoints"`
	APICalls   int                 `json:"api_calls"`
	Drift      DriftClassification `json:"drift"`
	Consumers  int                 `json:"consumers"`
	Downstream int                 `json:"downstream"`
}

type ContractLink struct {
	ContractID string              `json:"contract_id"`
	From       string              `json:"from"`
	To         string              `json:"to"`
	Service    string              `json:"service"`
	Breaking   bool                `json:"breaking"`
	Status     DriftClassification `json:"status"`
}

type OrgGraph struct {
	Repos     map[string]RepoMetadata        `json:"repos"`
	Contracts []ContractLink                 `json:"contracts"`
	DriftMap  map[string]DriftClassification `json:"drift_map"`
}
