// Package orchestrator runs the per-repository graph phase for a fleet of
// repositories and merges the results into one contract graph.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/contracts"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/graph"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/metrics"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/rungraph"
)

const DefaultConcurrency = 4

var tracer = otel.Tracer("reposense.orchestrator")

type Options struct {
	// Concurrency bounds how many repositories are graphed at once.
	// Zero or less means DefaultConcurrency.
	Concurrency int
	// RunID is used as is when set.
	RunID string
}

// Result carries the stored run and the live contract graph it was exported
// from, so callers can keep querying it.
type Result struct {
	Run       models.OrgRun
	Contracts *contracts.ContractGraph

	// Overridden counts declared contracts that replaced an inferred one.
	Overridden int
}

type Orchestrator struct {
	logger    *slog.Logger
	assembler *rungraph.Assembler
	now       func() time.Time
}

func New(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		logger:    logger,
		assembler: rungraph.NewAssembler(),
		now:       time.Now,
	}
}

// Run graphs every repository in isolation, then merges on the calling
// goroutine: repositories are registered, inferred contracts are added, and
// declared contracts are added last so they override inferred ones.
func (o *Orchestrator) Run(ctx context.Context, manifest models.OrgManifest, opts Options) (*Result, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	ctx, span := tracer.Start(ctx, "orchestrator.Run",
		trace.WithAttributes(
			attribute.String("reposense.run_id", runID),
			attribute.Int("reposense.repos", len(manifest.Repos)),
		),
	)
	defer span.End()

	log := o.logger.With(slog.String("run_id", runID))
	log.Info("starting org run", slog.Int("repos", len(manifest.Repos)))

	repos, err := o.graphRepos(ctx, runID, manifest.Repos, opts.Concurrency)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RunsTotal.WithLabelValues("error").Inc()
		log.Error("org run failed", slog.String("error", err.Error()))
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "context canceled")
		metrics.RunsTotal.WithLabelValues("canceled").Inc()
		return nil, fmt.Errorf("org run %s canceled before merge: %w", runID, err)
	}

	cg := contracts.New()
	for _, repo := range manifest.Repos {
		cg.RegisterRepo(models.RepoMetadata{
			ID:        repo.ID,
			Path:      repo.Path,
			Owner:     repo.Owner,
			Version:   repo.Version,
			Endpoints: len(repo.Analysis.Endpoints),
			APICalls:  len(repo.Analysis.APICalls),
		})
	}

	inferred := contracts.InferContracts(manifest.Repos)
	for _, c := range inferred {
		cg.AddContract(c)
	}
	overridden := 0
	for _, c := range manifest.Contracts {
		if _, ok := cg.Contract(contracts.ContractID(c.Producer, c.Consumer)); ok {
			overridden++
		}
		cg.AddContract(c)
	}

	export := cg.Export()
	metrics.BreakingChanges.Set(float64(len(export.BreakingChanges)))
	metrics.RunsTotal.WithLabelValues("ok").Inc()

	span.SetAttributes(
		attribute.Int("reposense.contracts", export.Summary.TotalContracts),
		attribute.Int("reposense.breaking_changes", export.Summary.BreakingChanges),
	)
	span.SetStatus(codes.Ok, "")

	log.Info("org run complete",
		slog.Int("inferred_contracts", len(inferred)),
		slog.Int("declared_contracts", len(manifest.Contracts)),
		slog.Int("overridden_contracts", overridden),
		slog.Int("breaking_changes", export.Summary.BreakingChanges),
		slog.Int("drifted_repos", export.Summary.DriftedRepos),
	)

	return &Result{
		Run: models.OrgRun{
			RunID:         runID,
			CreatedAt:     o.now().UTC(),
			Repos:         repos,
			ContractGraph: export,
			OrgGraph:      cg.OrgGraph(),
		},
		Contracts:  cg,
		Overridden: overridden,
	}, nil
}

// graphRepos gives each repository its own ComponentGraph. Workers write only
// to their own slot of the result slice.
func (o *Orchestrator) graphRepos(ctx context.Context, runID string, repos []models.RepoInput, concurrency int) ([]models.RunGraph, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]models.RunGraph, len(repos))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, repo := range repos {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return fmt.Errorf("repo %s: %w", repo.ID, err)
			}
			results[i] = o.graphRepo(gCtx, runID, repo)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *Orchestrator) graphRepo(ctx context.Context, runID string, repo models.RepoInput) models.RunGraph {
	_, span := tracer.Start(ctx, "orchestrator.graphRepo")
	defer span.End()

	cg := graph.Build(repo.Analysis.Endpoints, repo.Analysis.APICalls)
	metrics.GraphNodes.Observe(float64(cg.NodeCount()))

	span.SetAttributes(
		attribute.String("reposense.repo", repo.ID),
		attribute.Int("reposense.nodes", cg.NodeCount()),
		attribute.Int("reposense.edges", cg.EdgeCount()),
	)

	o.logger.Debug("repo graphed",
		slog.String("run_id", runID),
		slog.String("repo", repo.ID),
		slog.Int("nodes", cg.NodeCount()),
		slog.Int("edges", cg.EdgeCount()),
	)

	return o.assembler.Assemble(runID, repo.ID, cg, repo.Analysis)
}
