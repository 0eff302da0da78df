// Package models defines the core data structures shared by the analysis engine.
// It includes graph, contract, impact and snapshot records and their JSON shape.
package models

// Endpoint is a route declared by the analyzed source.
type Endpoint struct {
	Method string `json:"method" yaml:"method" validate:"required"`
	Path   string `json:"path" yaml:"path" validate:"required"`
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line" validate:"gte=0"`
}

// APICall is a call site that targets an endpoint by method and path.
type APICall struct {
	Method   string `json:"method" yaml:"method" validate:"required"`
	Endpoint string `json:"endpoint" yaml:"endpoint" validate:"required"`
	File     string `json:"file" yaml:"file" validate:"required"`
	Line     int    `json:"line" yaml:"line" validate:"gte=0"`
}

type TestRecord struct {
	Name      string   `json:"name" yaml:"name" validate:"required"`
	File      string   `json:"file" yaml:"file"`
	Endpoints []string `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}

type EvidenceRecord struct {
	ID     string `json:"id" yaml:"id" validate:"required"`
	Kind   string `json:"kind" yaml:"kind"`
	NodeID string `json:"node_id,omitempty" yaml:"node_id,omitempty"`
	Ref    string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// AnalysisInput is the per-repository output of the source analysis stage.
type AnalysisInput struct {
	Endpoints []Endpoint       `json:"endpoints" yaml:"endpoints" validate:"dive"`
	APICalls  []APICall        `json:"api_calls" yaml:"api_calls" validate:"dive"`
	Tests     []TestRecord     `json:"tests,omitempty" yaml:"tests,omitempty" validate:"dive"`
	Evidence  []EvidenceRecord `json:"evidence,omitempty" yaml:"evidence,omitempty" validate:"dive"`
}

type RepoConfig struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	Path    string `json:"path" yaml:"path"`
	Owner   string `json:"owner" yaml:"owner"`
	Version string `json:"version" yaml:"version"`
}

type RepoInput struct {
	RepoConfig `yaml:",inline"`
	Analysis   AnalysisInput `json:"analysis" yaml:"analysis"`
}

// OrgManifest describes a fleet of repositories analyzed together.
type OrgManifest struct {
	Repos     []RepoInput `json:"repos" yaml:"repos" validate:"required,min=1,dive"`
	Contracts []Contract  `json:"contracts,omitempty" yaml:"contracts,omitempty" validate:"dive"`
}
