package impact

import "github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"

const (
	highRiskThreshold   = 80
	mediumRiskThreshold = 50
	wideRolloutRepos    = 10
)

func Recommendations(score, breakingRisks, affectedRepos int) []string {
	var recs []string

	switch {
	case score >= highRiskThreshold:
		recs = append(recs,
			"HIGH RISK: require approval from every affected team before merging",
			"Run the full regression suite across all downstream repositories",
			"Prepare and rehearse a rollback plan before deployment",
		)
	case score >= mediumRiskThreshold:
		recs = append(recs,
			"MEDIUM RISK: add impact tests covering the affected consumers",
			"Roll out in stages and watch downstream error rates between stages",
		)
	default:
		recs = append(recs, "LOW RISK: standard testing and review are sufficient")
	}

	if breakingRisks > 0 {
		recs = append(recs,
			"Coordinate the change with the owning teams of affected repositories",
			"Plan a period of parallel support for the old and new contract versions",
		)
	}

	if affectedRepos > wideRolloutRepos {
		recs = append(recs, "Ship behind a feature flag and roll out gradually")
	}

	return recs
}

func Mitigations(risk models.RiskLevel) []string {
	switch risk {
	case models.RiskCritical:
		return []string{
			"notify consumer owners before release",
			"keep the previous contract version available",
			"add contract tests on the consumer side",
		}
	case models.RiskHigh:
		return []string{
			"add contract tests on the consumer side",
			"stage the rollout",
		}
	case models.RiskMedium:
		return []string{"run consumer integration tests"}
	default:
		return []string{"standard review"}
	}
}
