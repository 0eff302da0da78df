// Package parser provides utilities for parsing and transforming input data.
// It handles data normalization, validation, and conversion between formats.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"gopkg.in/yaml.v3"
)

// ParseManifest accepts a fleet manifest as JSON or YAML. Input starting with
// '{' is treated as JSON.
func ParseManifest(data []byte) (*models.OrgManifest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyInput
	}

	var manifest models.OrgManifest
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &manifest); err != nil {
			return nil, fmt.Errorf("failed to unmarshal manifest json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &manifest); err != nil {
			return nil, fmt.Errorf("failed to unmarshal manifest yaml: %w", err)
		}
	}

	for i := range manifest.Repos {
		NormalizeAnalysis(&manifest.Repos[i].Analysis)
	}

	if err := Validate(&manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	seen := make(map[string]bool, len(manifest.Repos))
	for _, repo := range manifest.Repos {
		if seen[repo.ID] {
			return nil, fmt.Errorf("invalid manifest: duplicate repo id %q", repo.ID)
		}
		seen[repo.ID] = true
	}

	return &manifest, nil
}

func ParseChange(data []byte) (*models.ChangePoint, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	var change models.ChangePoint
	if err := json.Unmarshal(data, &change); err != nil {
		return nil, fmt.Errorf("failed to unmarshal change: %w", err)
	}

	if err := Validate(&change); err != nil {
		return nil, fmt.Errorf("invalid change: %w", err)
	}

	return &change, nil
}
