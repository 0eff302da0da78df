package orchestrator

import (
	"context"
	"fmt"
	"testing"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/logging"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fleet() models.OrgManifest {
	return models.OrgManifest{
		Repos: []models.RepoInput{
			{
				RepoConfig: models.RepoConfig{ID: "users", Version: "2.0"},
				Analysis: models.AnalysisInput{
					Endpoints: []models.Endpoint{
						{Method: "GET", Path: "/users", File: "api.go", Line: 1},
						{Method: "POST", Path: "/users", File: "api.go", Line: 9},
					},
				},
			},
			{
				RepoConfig: models.RepoConfig{ID: "web", Version: "1.3"},
				Analysis: models.AnalysisInput{
					APICalls: []models.APICall{
						{Method: "GET", Endpoint: "/users", File: "list.ts", Line: 4},
					},
				},
			},
			{
				RepoConfig: models.RepoConfig{ID: "billing", Version: "2.0"},
				Analysis: models.AnalysisInput{
					APICalls: []models.APICall{
						{Method: "POST", Endpoint: "/users", File: "sync.go", Line: 7},
					},
				},
			},
		},
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	o := New(logging.Discard())

	t.Run("graphs every repo under one run id", func(t *testing.T) {
		res, err := o.Run(ctx, fleet(), Options{RunID: "run-42"})

		require.NoError(t, err)
		assert.Equal(t, "run-42", res.Run.RunID)
		require.Len(t, res.Run.Repos, 3)
		for i, id := range []string{"users", "web", "billing"} {
			assert.Equal(t, id, res.Run.Repos[i].RepoID)
			assert.Equal(t, "run-42", res.Run.Repos[i].RunID)
		}
		assert.Equal(t, 2, res.Run.Repos[0].Summary.TotalEndpoints)
		assert.Equal(t, 1, res.Run.Repos[1].Summary.OrphanCalls)
	})

	t.Run("infers contracts from cross repo calls", func(t *testing.T) {
		res, err := o.Run(ctx, fleet(), Options{})

		require.NoError(t, err)
		assert.NotEmpty(t, res.Run.RunID)
		assert.Equal(t, 2, res.Run.ContractGraph.Summary.TotalContracts)
		assert.ElementsMatch(t, []string{"web", "billing"}, res.Contracts.FindDependents("users", ""))

		// web is on 1.3 against a 2.0 producer.
		assert.Equal(t, models.DriftDrift, res.Run.OrgGraph.DriftMap["web"])
		assert.Equal(t, models.DriftHealthy, res.Run.OrgGraph.DriftMap["billing"])
		assert.Equal(t, models.DriftDrift, res.Run.OrgGraph.DriftMap["users"])
		assert.Equal(t, 2, res.Run.OrgGraph.Repos["users"].Consumers)
		assert.Equal(t, 2, res.Run.OrgGraph.Repos["users"].Endpoints)
	})

	t.Run("declared contracts override inferred ones", func(t *testing.T) {
		m := fleet()
		m.Contracts = []models.Contract{{
			Producer: models.ServiceRef{RepoID: "users", Service: "POST /users", Version: "2.0"},
			Consumer: models.ServiceRef{RepoID: "billing", Service: "sync.go", Version: "2.0"},
			Breaking: true,
		}}

		res, err := o.Run(ctx, m, Options{})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Run.ContractGraph.Summary.TotalContracts)
		assert.Equal(t, models.DriftBreaking, res.Run.OrgGraph.DriftMap["billing"])
		assert.Equal(t, models.DriftBreaking, res.Run.OrgGraph.DriftMap["users"])
		assert.Equal(t, 1, res.Run.ContractGraph.Summary.BreakingChanges)
		assert.Equal(t, 1, res.Overridden)

		stored, ok := res.Contracts.Contract("users::POST /users->billing::sync.go")
		require.True(t, ok)
		assert.True(t, stored.Breaking)
	})

	t.Run("declared contracts without an inferred match add new edges", func(t *testing.T) {
		m := fleet()
		m.Contracts = []models.Contract{{
			Producer: models.ServiceRef{RepoID: "billing", Service: "invoices", Version: "2.0"},
			Consumer: models.ServiceRef{RepoID: "web", Service: "checkout.ts", Version: "1.3"},
		}}

		res, err := o.Run(ctx, m, Options{})

		require.NoError(t, err)
		assert.Equal(t, 0, res.Overridden)
		assert.Equal(t, 3, res.Run.ContractGraph.Summary.TotalContracts)
	})

	t.Run("repos without contracts are still listed", func(t *testing.T) {
		m := models.OrgManifest{Repos: []models.RepoInput{{RepoConfig: models.RepoConfig{ID: "solo"}}}}

		res, err := o.Run(ctx, m, Options{})

		require.NoError(t, err)
		assert.Contains(t, res.Run.OrgGraph.Repos, "solo")
		assert.Equal(t, models.DriftHealthy, res.Run.OrgGraph.DriftMap["solo"])
	})

	t.Run("bounded concurrency keeps order", func(t *testing.T) {
		m := models.OrgManifest{}
		for i := range 20 {
			m.Repos = append(m.Repos, models.RepoInput{RepoConfig: models.RepoConfig{ID: fmt.Sprintf("r%02d", i)}})
		}

		res, err := o.Run(ctx, m, Options{Concurrency: 3})

		require.NoError(t, err)
		require.Len(t, res.Run.Repos, 20)
		for i, r := range res.Run.Repos {
			assert.Equal(t, fmt.Sprintf("r%02d", i), r.RepoID)
		}
	})

	t.Run("cancelled context stops the run", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res, err := o.Run(cancelled, fleet(), Options{})

		assert.Nil(t, res)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
