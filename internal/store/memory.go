package store

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
)

const DefaultCacheSize = 256

// MemoryStore keeps the most recently saved runs and evicts the oldest once
// size is reached.
type MemoryStore struct {
	cache *lru.Cache[string, []byte]
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create run cache: %w", err)
	}
	return &MemoryStore{cache: cache}, nil
}

func (s *MemoryStore) Save(ctx context.Context, run models.OrgRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeRun(run)
	if err != nil {
		return err
	}
	s.cache.Add(run.RunID, data)
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, runID string) (models.OrgRun, error) {
	if err := ctx.Err(); err != nil {
		return models.OrgRun{}, err
	}
	data, ok := s.cache.Get(runID)
	if !ok {
		return models.OrgRun{}, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return decodeRun(runID, data)
}

// RunIDs lists cached run ids from oldest to newest.
func (s *MemoryStore) RunIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.cache.Keys(), nil
}

func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

func (s *MemoryStore) Close() error {
	s.cache.Purge()
	return nil
}
