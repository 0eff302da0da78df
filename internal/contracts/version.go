package contracts

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"golang.org/x/mod/semver"
)

var majorMinorPattern = regexp.MustCompile(`^(\d+)\.(\d+)`)

type majorMinor struct {
	major int
	minor int
}

func (v majorMinor) canonical() string {
	return fmt.Sprintf("v%d.%d", v.major, v.minor)
}

func parseMajorMinor(version string) (majorMinor, bool) {
	m := majorMinorPattern.FindStringSubmatch(version)
	if m == nil {
		return majorMinor{}, false
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return majorMinor{}, false
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return majorMinor{}, false
	}
	return majorMinor{major: major, minor: minor}, true
}

func compatibilityKey(producer, consumer string) string {
	return producer + "->" + consumer
}

func compareVersions(producer, consumer string) models.VersionCompatibility {
	result := models.VersionCompatibility{
		ProducerVersion: producer,
		ConsumerVersion: consumer,
		Compatible:      true,
		RiskLevel:       models.RiskLow,
	}

	p, okP := parseMajorMinor(producer)
	c, okC := parseMajorMinor(consumer)
	if !okP || !okC {
		result.Reason = "non-semantic version, assuming compatible"
		return result
	}

	switch {
	case p.major != c.major:
		result.Compatible = false
		result.RiskLevel = models.RiskCritical
		result.Reason = fmt.Sprintf("major version mismatch: %s", direction(p, c))
	case p.minor != c.minor:
		result.RiskLevel = models.RiskMedium
		result.Reason = fmt.Sprintf("minor version drift: %s", direction(p, c))
	default:
		result.Reason = "versions aligned"
	}
	return result
}

func direction(p, c majorMinor) string {
	if semver.Compare(p.canonical(), c.canonical()) > 0 {
		return fmt.Sprintf("producer %s ahead of consumer %s", p.canonical(), c.canonical())
	}
	return fmt.Sprintf("consumer %s ahead of producer %s", c.canonical(), p.canonical())
}
