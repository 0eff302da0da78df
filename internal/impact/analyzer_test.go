package impact

import (
	"fmt"
	"testing"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/contracts"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func link(g *contracts.ContractGraph, producer, service, consumer string) {
	g.AddContract(models.Contract{
		Producer: models.ServiceRef{RepoID: producer, Service: service, Version: "1.0"},
		Consumer: models.ServiceRef{RepoID: consumer, Service: "client", Version: "1.0"},
	})
}

func fanOut(g *contracts.ContractGraph, producer string, n int) {
	for i := range n {
		link(g, producer, "api", fmt.Sprintf("%s-consumer-%02d", producer, i))
	}
}

func TestAnalyzeChange(t *testing.T) {
	t.Run("nil graph yields empty low risk analysis", func(t *testing.T) {
		result := NewAnalyzer(nil).AnalyzeChange(models.ChangePoint{RepoID: "a"})

		assert.Empty(t, result.AffectedRepos)
		assert.Empty(t, result.ImpactChain)
		assert.Equal(t, 0, result.RiskScore)
		assert.Equal(t, models.RiskLow, result.RiskLevel)
		require.Len(t, result.Recommendations, 1)
		assert.Contains(t, result.Recommendations[0], "LOW RISK")
	})

	t.Run("empty graph behaves like nil graph", func(t *testing.T) {
		result := NewAnalyzer(contracts.New()).AnalyzeChange(models.ChangePoint{RepoID: "a", Service: "api"})

		assert.Empty(t, result.AffectedRepos)
		assert.Equal(t, 0, result.DownstreamEndpoints)
		assert.Equal(t, 0, result.BreakingRisks)
		assert.Equal(t, 0, result.RiskScore)
	})

	t.Run("affected repos are transitive, sorted and exclude the origin", func(t *testing.T) {
		g := contracts.New()
		link(g, "a", "api", "d")
		link(g, "a", "api", "b")
		link(g, "b", "api", "c")
		link(g, "c", "api", "a")

		result := NewAnalyzer(g).AnalyzeChange(models.ChangePoint{RepoID: "a", Service: "api"})

		assert.Equal(t, []string{"b", "c", "d"}, result.AffectedRepos)
	})

	t.Run("first hop is limited to the changed service", func(t *testing.T) {
		g := contracts.New()
		link(g, "a", "orders", "b")
		link(g, "a", "billing", "c")
		link(g, "b", "other", "d")

		result := NewAnalyzer(g).AnalyzeChange(models.ChangePoint{RepoID: "a", Service: "orders"})

		assert.Equal(t, []string{"b", "d"}, result.AffectedRepos)
	})

	t.Run("heuristic estimates scale with affected repos", func(t *testing.T) {
		g := contracts.New()
		fanOut(g, "a", 7)

		result := NewAnalyzer(g).AnalyzeChange(models.ChangePoint{RepoID: "a"})

		assert.Len(t, result.AffectedRepos, 7)
		assert.Equal(t, 87, result.DownstreamEndpoints)
		assert.Equal(t, 1, result.BreakingRisks)
		// 14 + 8 + 5 + 0
		assert.Equal(t, 27, result.RiskScore)
		assert.Equal(t, models.RiskMedium, result.RiskLevel)
	})

	t.Run("is deterministic for an unchanged graph", func(t *testing.T) {
		g := contracts.New()
		fanOut(g, "a", 4)
		link(g, "a-consumer-01", "api", "z")
		analyzer := NewAnalyzer(g)
		change := models.ChangePoint{RepoID: "a", Service: "api"}

		first := analyzer.AnalyzeChange(change)
		second := analyzer.AnalyzeChange(change)

		assert.Equal(t, first.AffectedRepos, second.AffectedRepos)
		assert.Equal(t, first.RiskScore, second.RiskScore)
		assert.Equal(t, first.ImpactChain, second.ImpactChain)
	})
}

func TestImpactChain(t *testing.T) {
	t.Run("links carry depth and description", func(t *testing.T) {
		g := contracts.New()
		link(g, "a", "api", "b")
		link(g, "b", "api", "c")

		chain := NewAnalyzer(g).AnalyzeChange(models.ChangePoint{RepoID: "a", Service: "api"}).ImpactChain

		require.Len(t, chain, 2)
		assert.Equal(t, "a", chain[0].From)
		assert.Equal(t, "b", chain[0].To)
		assert.Equal(t, 1, chain[0].Depth)
		assert.Equal(t, "b", chain[1].From)
		assert.Equal(t, "c", chain[1].To)
		assert.Equal(t, 2, chain[1].Depth)
		assert.Contains(t, chain[0].Description, "a/api")
		assert.NotEmpty(t, chain[0].Mitigations)
	})

	t.Run("long chains are cut at max depth", func(t *testing.T) {
		g := contracts.New()
		for i := range 10 {
			link(g, fmt.Sprintf("r%d", i), "api", fmt.Sprintf("r%d", i+1))
		}

		result := NewAnalyzer(g).AnalyzeChange(models.ChangePoint{RepoID: "r0"})

		assert.Len(t, result.ImpactChain, MaxChainDepth)
		assert.Len(t, result.AffectedRepos, 10)
		for _, l := range result.ImpactChain {
			assert.LessOrEqual(t, l.Depth, MaxChainDepth)
		}
	})

	t.Run("shortcut edges are expanded at their shortest depth", func(t *testing.T) {
		g := contracts.New()
		for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"}, {"e", "f"}, {"f", "g"}, {"a", "e"}} {
			link(g, pair[0], "api", pair[1])
		}

		chain := NewAnalyzer(g).AnalyzeChange(models.ChangePoint{RepoID: "a"}).ImpactChain

		depths := make(map[string]int, len(chain))
		for _, l := range chain {
			key := l.From + "->" + l.To
			assert.NotContains(t, depths, key, "edge emitted twice")
			depths[key] = l.Depth
		}
		assert.Len(t, chain, 7)
		assert.Equal(t, 1, depths["a->e"])
		assert.Equal(t, 2, depths["e->f"])
		assert.Equal(t, 3, depths["f->g"])
		assert.Equal(t, 4, depths["d->e"])
	})

	t.Run("cycles terminate", func(t *testing.T) {
		g := contracts.New()
		link(g, "a", "api", "b")
		link(g, "b", "api", "a")

		result := NewAnalyzer(g).AnalyzeChange(models.ChangePoint{RepoID: "a"})

		assert.Len(t, result.ImpactChain, 2)
		assert.Equal(t, []string{"b"}, result.AffectedRepos)
	})

	t.Run("target with many consumers is critical", func(t *testing.T) {
		g := contracts.New()
		link(g, "origin", "api", "hub")
		fanOut(g, "hub", 11)

		chain := NewAnalyzer(g).AnalyzeChange(models.ChangePoint{RepoID: "origin"}).ImpactChain

		require.NotEmpty(t, chain)
		assert.Equal(t, "hub", chain[0].To)
		assert.Equal(t, models.RiskCritical, chain[0].RiskLevel)
	})

	t.Run("target with wide downstream is high or medium", func(t *testing.T) {
		g := contracts.New()
		link(g, "origin", "api", "mid")
		link(g, "mid", "api", "fan")
		fanOut(g, "fan", 10)

		chain := NewAnalyzer(g).AnalyzeChange(models.ChangePoint{RepoID: "origin"}).ImpactChain

		require.GreaterOrEqual(t, len(chain), 2)
		// mid reaches fan plus its 10 consumers
		assert.Equal(t, models.RiskHigh, chain[0].RiskLevel)
		// fan reaches exactly 10 repos
		assert.Equal(t, models.RiskMedium, chain[1].RiskLevel)
		assert.Equal(t, models.RiskLow, chain[2].RiskLevel)
	})
}

func TestRiskScore(t *testing.T) {
	testCases := []struct {
		name     string
		repos    int
		eps      int
		breaking int
		critical int
		want     int
	}{
		{"zero", 0, 0, 0, 0, 0},
		{"repo term caps at 30", 100, 0, 0, 0, 30},
		{"endpoint term caps at 30", 0, 10000, 0, 0, 30},
		{"breaking term caps at 20", 0, 0, 50, 0, 20},
		{"critical term caps at 20", 0, 0, 0, 9, 20},
		{"all terms capped total 100", 100, 10000, 50, 9, 100},
		{"partial sums", 3, 37, 1, 1, 6 + 3 + 5 + 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := RiskScore(tc.repos, tc.eps, tc.breaking, tc.critical)

			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestHeuristics(t *testing.T) {
	t.Run("endpoint estimate floors", func(t *testing.T) {
		assert.Equal(t, 0, CountDownstreamEndpoints(0))
		assert.Equal(t, 12, CountDownstreamEndpoints(1))
		assert.Equal(t, 25, CountDownstreamEndpoints(2))
		assert.Equal(t, 37, CountDownstreamEndpoints(3))
	})

	t.Run("breaking risk has a floor of one", func(t *testing.T) {
		assert.Equal(t, 0, DetectBreakingRisks(0))
		assert.Equal(t, 1, DetectBreakingRisks(1))
		assert.Equal(t, 1, DetectBreakingRisks(13))
		assert.Equal(t, 3, DetectBreakingRisks(20))
	})
}

func TestRecommendations(t *testing.T) {
	t.Run("high score requires approvals and rollback plan", func(t *testing.T) {
		recs := Recommendations(80, 0, 0)

		require.Len(t, recs, 3)
		assert.Contains(t, recs[0], "HIGH RISK")
		assert.Contains(t, recs[2], "rollback")
	})

	t.Run("medium score asks for staged rollout", func(t *testing.T) {
		recs := Recommendations(50, 0, 0)

		require.Len(t, recs, 2)
		assert.Contains(t, recs[0], "MEDIUM RISK")
	})

	t.Run("breaking risks and wide impact add advisories", func(t *testing.T) {
		recs := Recommendations(10, 2, 11)

		require.Len(t, recs, 4)
		assert.Contains(t, recs[0], "LOW RISK")
		assert.Contains(t, recs[1], "Coordinate")
		assert.Contains(t, recs[2], "parallel support")
		assert.Contains(t, recs[3], "feature flag")
	})
}
