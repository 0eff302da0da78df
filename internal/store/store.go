// Package store keeps assembled organization runs so later requests can query
// them by run id.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
)

var ErrNotFound = errors.New("run not found")

// Store persists runs as JSON. Loaded runs never alias saved ones.
type Store interface {
	Save(ctx context.Context, run models.OrgRun) error
	Load(ctx context.Context, runID string) (models.OrgRun, error)
	RunIDs(ctx context.Context) ([]string, error)
	Close() error
}

// Open returns a badger store under dir, or an LRU memory store when dir is empty.
func Open(dir string, cacheSize int, logger *slog.Logger) (Store, error) {
	if dir == "" {
		s, err := NewMemoryStore(cacheSize)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := OpenBadger(BadgerConfig{Path: dir, Logger: logger})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func encodeRun(run models.OrgRun) ([]byte, error) {
	if run.RunID == "" {
		return nil, errors.New("run id is required")
	}
	data, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run %s: %w", run.RunID, err)
	}
	return data, nil
}

func decodeRun(runID string, data []byte) (models.OrgRun, error) {
	var run models.OrgRun
	if err := json.Unmarshal(data, &run); err != nil {
		return models.OrgRun{}, fmt.Errorf("failed to unmarshal run %s: %w", runID, err)
	}
	return run, nil
}
