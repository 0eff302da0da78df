// Package impact answers "what breaks downstream if this service changes" over
// a contract graph, producing an impact chain, a 0-100 risk score and recommendations.
package impact

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/contracts"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
)

// Heuristic constants. Changing any of them changes observable output.
const (
	MaxChainDepth = 5

	// EndpointsPerRepo is the midpoint of an assumed 5-20 endpoints per repository.
	EndpointsPerRepo = 12.5

	// BreakingRiskRatio is the assumed share of affected repos that hit a breaking path.
	BreakingRiskRatio = 0.15

	// CriticalPathConsumers is the consumer count above which a repo is on a critical path.
	CriticalPathConsumers = 10

	HighRiskDownstream   = 10
	MediumRiskDownstream = 5

	repoScoreCap     = 30
	endpointScoreCap = 30
	breakingScoreCap = 20
	criticalScoreCap = 20
	maxRiskScore     = 100
)

// Analyzer reads a contract graph and never mutates it. A nil graph is
// treated as empty.
type Analyzer struct {
	graph *contracts.ContractGraph
	now   func() time.Time
}

func NewAnalyzer(g *contracts.ContractGraph) *Analyzer {
	return &Analyzer{graph: g, now: time.Now}
}

func (a *Analyzer) AnalyzeChange(change models.ChangePoint) models.ImpactAnalysis {
	affected := a.affectedRepos(change)
	chain := a.impactChain(change)

	endpoints := CountDownstreamEndpoints(len(affected))
	breakingRisks := DetectBreakingRisks(len(affected))

	critical := 0
	for _, link := range chain {
		if link.RiskLevel == models.RiskCritical {
			critical++
		}
	}

	score := RiskScore(len(affected), endpoints, breakingRisks, critical)

	return models.ImpactAnalysis{
		ChangePoint:         change,
		AffectedRepos:       affected,
		ImpactChain:         chain,
		DownstreamEndpoints: endpoints,
		BreakingRisks:       breakingRisks,
		CriticalLinks:       critical,
		RiskScore:           score,
		RiskLevel:           LevelForScore(score),
		Recommendations:     Recommendations(score, breakingRisks, len(affected)),
		AnalyzedAt:          a.now().UTC(),
	}
}

// affectedRepos is an unbounded BFS; only the first hop is filtered by the
// changed service.
func (a *Analyzer) affectedRepos(change models.ChangePoint) []string {
	out := []string{}
	if a.graph == nil {
		return out
	}

	visited := map[string]bool{change.RepoID: true}
	queue := []string{change.RepoID}
	service := change.Service

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dep := range a.graph.FindDependents(current, service) {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			out = append(out, dep)
			queue = append(queue, dep)
		}
		service = ""
	}

	sort.Strings(out)
	return out
}

type chainWalker struct {
	graph *contracts.ContractGraph
	links []models.ImpactLink
}

// impactChain emits one link per dependency edge whose source lies within
// MaxChainDepth-1 hops of the change. Repos are expanded level by level, so
// each edge carries its source's shortest distance plus one.
func (a *Analyzer) impactChain(change models.ChangePoint) []models.ImpactLink {
	if a.graph == nil {
		return []models.ImpactLink{}
	}

	w := &chainWalker{graph: a.graph, links: []models.ImpactLink{}}
	w.walk(change.RepoID, change.Service)
	return w.links
}

func (w *chainWalker) walk(origin, service string) {
	reached := map[string]bool{origin: true}
	frontier := []string{origin}

	for depth := 1; depth <= MaxChainDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, repoID := range frontier {
			for _, dep := range w.graph.FindDependents(repoID, service) {
				risk := w.linkRisk(dep)
				w.links = append(w.links, models.ImpactLink{
					From:        repoID,
					To:          dep,
					Depth:       depth,
					RiskLevel:   risk,
					Description: describeLink(repoID, dep, service, depth),
					Mitigations: Mitigations(risk),
				})

				if !reached[dep] {
					reached[dep] = true
					next = append(next, dep)
				}
			}
		}
		frontier = next
		service = ""
	}
}

func (w *chainWalker) linkRisk(target string) models.RiskLevel {
	if w.graph.Consumers(target) > CriticalPathConsumers {
		return models.RiskCritical
	}

	downstream := len(w.graph.Downstream(target))
	switch {
	case downstream > HighRiskDownstream:
		return models.RiskHigh
	case downstream > MediumRiskDownstream:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func describeLink(from, to, service string, depth int) string {
	if service != "" {
		return fmt.Sprintf("changes to %s/%s reach %s (hop %d)", from, service, to, depth)
	}
	return fmt.Sprintf("changes in %s propagate to %s (hop %d)", from, to, depth)
}

// CountDownstreamEndpoints estimates exposed endpoints; it is not a measured count.
func CountDownstreamEndpoints(affectedRepos int) int {
	return int(math.Floor(float64(affectedRepos) * EndpointsPerRepo))
}

// DetectBreakingRisks estimates breaking paths as a fixed share of affected repos.
func DetectBreakingRisks(affectedRepos int) int {
	if affectedRepos <= 0 {
		return 0
	}
	return max(1, int(math.Floor(float64(affectedRepos)*BreakingRiskRatio)))
}

// RiskScore sums four independently capped terms and clamps the total to 100.
func RiskScore(repoCount, endpointCount, breakingRisks, criticalLinks int) int {
	score := min(repoCount*2, repoScoreCap) +
		min(endpointCount/10, endpointScoreCap) +
		min(breakingRisks*5, breakingScoreCap) +
		min(criticalLinks*10, criticalScoreCap)

	return max(0, min(score, maxRiskScore))
}

func LevelForScore(score int) models.RiskLevel {
	switch {
	case score >= 80:
		return models.RiskCritical
	case score >= 50:
		return models.RiskHigh
	case score >= 25:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
