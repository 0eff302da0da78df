// Package contracts tracks producer/consumer relationships between repositories.
// It classifies version drift per repository and sizes the blast radius of breaking changes.
package contracts

import (
	"sort"
	"time"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
)

const (
	ExportVersion = "1.0"

	// BreakingSeverityThreshold is the downstream repo count above which a
	// breaking change is critical rather than high.
	BreakingSeverityThreshold = 5
)

// ContractGraph keeps every repository's drift classification consistent with
// the current contract set. It is not safe for concurrent mutation.
type ContractGraph struct {
	contracts map[string]*models.Contract
	order     []string
	byRepo    map[string][]string
	drift     map[string]models.DriftClassification
	compat    map[string]models.VersionCompatibility
	breaking  []models.BreakingChange
	repos     map[string]models.RepoMetadata
	repoOrder []string
	now       func() time.Time
}

func New() *ContractGraph {
	return &ContractGraph{
		contracts: make(map[string]*models.Contract),
		byRepo:    make(map[string][]string),
		drift:     make(map[string]models.DriftClassification),
		compat:    make(map[string]models.VersionCompatibility),
		repos:     make(map[string]models.RepoMetadata),
		now:       time.Now,
	}
}

// FromExport rebuilds a graph from a previously exported contract set.
func FromExport(export models.ContractGraphExport) *ContractGraph {
	g := New()
	for _, c := range export.Contracts {
		g.AddContract(c)
	}
	return g
}

func ContractID(producer, consumer models.ServiceRef) string {
	return producer.RepoID + "::" + producer.Service + "->" + consumer.RepoID + "::" + consumer.Service
}

// AddContract upserts by derived id and reclassifies both repositories before
// returning the stored contract.
func (g *ContractGraph) AddContract(contract models.Contract) models.Contract {
	c := contract
	c.ID = ContractID(c.Producer, c.Consumer)
	if c.LastUpdated.IsZero() {
		c.LastUpdated = g.now().UTC()
	}

	if _, exists := g.contracts[c.ID]; !exists {
		g.order = append(g.order, c.ID)
		g.index(c.Producer.RepoID, c.ID)
		if c.Consumer.RepoID != c.Producer.RepoID {
			g.index(c.Consumer.RepoID, c.ID)
		}
	}
	g.contracts[c.ID] = &c

	g.classify(c.Producer.RepoID)
	g.classify(c.Consumer.RepoID)
	return c
}

func (g *ContractGraph) index(repoID, contractID string) {
	g.byRepo[repoID] = append(g.byRepo[repoID], contractID)
}

func (g *ContractGraph) classify(repoID string) {
	drifted := false
	for _, id := range g.byRepo[repoID] {
		c := g.contracts[id]
		if c.Breaking {
			g.drift[repoID] = models.DriftBreaking
			return
		}
		if !g.CheckCompatibility(c.Producer.Version, c.Consumer.Version).Compatible {
			drifted = true
		}
	}

	if drifted {
		g.drift[repoID] = models.DriftDrift
		return
	}
	g.drift[repoID] = models.DriftHealthy
}

// CheckCompatibility compares the major.minor prefix of two versions. Results
// are cached by the literal version pair for the life of the graph.
func (g *ContractGraph) CheckCompatibility(producerVersion, consumerVersion string) models.VersionCompatibility {
	key := compatibilityKey(producerVersion, consumerVersion)
	if cached, ok := g.compat[key]; ok {
		return cached
	}

	result := compareVersions(producerVersion, consumerVersion)
	g.compat[key] = result
	return result
}

// DriftClassification defaults to HEALTHY for repositories without contracts.
func (g *ContractGraph) DriftClassification(repoID string) models.DriftClassification {
	if d, ok := g.drift[repoID]; ok {
		return d
	}
	return models.DriftHealthy
}

// Contract returns a copy of the stored contract with the given id.
func (g *ContractGraph) Contract(id string) (models.Contract, bool) {
	c, ok := g.contracts[id]
	if !ok {
		return models.Contract{}, false
	}
	return *c, true
}

// Contracts returns copies in first-insertion order.
func (g *ContractGraph) Contracts() []models.Contract {
	out := make([]models.Contract, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.contracts[id])
	}
	return out
}

func (g *ContractGraph) ContractCount() int {
	return len(g.order)
}

// FindDependents lists the distinct consumer repositories of repoID. An empty
// service matches every service the repository produces.
func (g *ContractGraph) FindDependents(repoID, service string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range g.byRepo[repoID] {
		c := g.contracts[id]
		if c.Producer.RepoID != repoID {
			continue
		}
		if service != "" && c.Producer.Service != service {
			continue
		}
		if seen[c.Consumer.RepoID] {
			continue
		}
		seen[c.Consumer.RepoID] = true
		out = append(out, c.Consumer.RepoID)
	}
	return out
}

// Consumers counts the distinct other repositories consuming anything repoID produces.
func (g *ContractGraph) Consumers(repoID string) int {
	n := 0
	for _, dep := range g.FindDependents(repoID, "") {
		if dep != repoID {
			n++
		}
	}
	return n
}

// Downstream returns every repository transitively consuming from repoID,
// excluding repoID itself, sorted.
func (g *ContractGraph) Downstream(repoID string) []string {
	visited := map[string]bool{repoID: true}
	queue := []string{repoID}
	out := []string{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.FindDependents(current, "") {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			out = append(out, dep)
			queue = append(queue, dep)
		}
	}

	sort.Strings(out)
	return out
}

// DetectBreakingChanges recomputes the breaking-change list from scratch.
func (g *ContractGraph) DetectBreakingChanges() []models.BreakingChange {
	changes := []models.BreakingChange{}
	for _, id := range g.order {
		c := g.contracts[id]
		if !c.Breaking {
			continue
		}

		affected := g.Downstream(c.Consumer.RepoID)
		severity := models.RiskHigh
		if len(affected) > BreakingSeverityThreshold {
			severity = models.RiskCritical
		}

		changes = append(changes, models.BreakingChange{
			ContractID:        c.ID,
			Producer:          c.Producer,
			Consumer:          c.Consumer,
			AffectedRepos:     affected,
			Severity:          severity,
			VersionDifference: g.CheckCompatibility(c.Producer.Version, c.Consumer.Version).Reason,
		})
	}

	g.breaking = changes
	return copyBreaking(changes)
}

// BreakingChanges returns the list from the last DetectBreakingChanges call.
func (g *ContractGraph) BreakingChanges() []models.BreakingChange {
	return copyBreaking(g.breaking)
}

// RegisterRepo records metadata for a repository that may not have contracts yet.
func (g *ContractGraph) RegisterRepo(meta models.RepoMetadata) {
	if _, ok := g.repos[meta.ID]; !ok {
		g.repoOrder = append(g.repoOrder, meta.ID)
	}
	g.repos[meta.ID] = meta
}

// RepoIDs lists registered repositories followed by any repository known only
// through contracts.
func (g *ContractGraph) RepoIDs() []string {
	seen := make(map[string]bool, len(g.repoOrder))
	ids := make([]string, 0, len(g.repoOrder))
	for _, id := range g.repoOrder {
		seen[id] = true
		ids = append(ids, id)
	}

	var extra []string
	for id := range g.byRepo {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}

func (g *ContractGraph) Export() models.ContractGraphExport {
	breaking := g.DetectBreakingChanges()

	drift := make(map[string]models.DriftClassification, len(g.drift))
	drifted := 0
	for repo, d := range g.drift {
		drift[repo] = d
		if d != models.DriftHealthy {
			drifted++
		}
	}

	return models.ContractGraphExport{
		Version:              ExportVersion,
		Timestamp:            g.now().UTC(),
		Contracts:            g.Contracts(),
		BreakingChanges:      breaking,
		DriftClassifications: drift,
		Summary: models.ContractSummary{
			TotalContracts:  len(g.order),
			BreakingChanges: len(breaking),
			DriftedRepos:    drifted,
		},
	}
}

func (g *ContractGraph) OrgGraph() models.OrgGraph {
	org := models.OrgGraph{
		Repos:     make(map[string]models.RepoMetadata),
		Contracts: make([]models.ContractLink, 0, len(g.order)),
		DriftMap:  make(map[string]models.DriftClassification),
	}

	for _, id := range g.RepoIDs() {
		meta, ok := g.repos[id]
		if !ok {
			meta = models.RepoMetadata{ID: id}
		}
		meta.Drift = g.DriftClassification(id)
		meta.Consumers = g.Consumers(id)
		meta.Downstream = len(g.Downstream(id))

		org.Repos[id] = meta
		org.DriftMap[id] = meta.Drift
	}

	for _, id := range g.order {
		c := g.contracts[id]
		status := models.DriftHealthy
		switch {
		case c.Breaking:
			status = models.DriftBreaking
		case !g.CheckCompatibility(c.Producer.Version, c.Consumer.Version).Compatible:
			status = models.DriftDrift
		}

		org.Contracts = append(org.Contracts, models.ContractLink{
			ContractID: c.ID,
			From:       c.Producer.RepoID,
			To:         c.Consumer.RepoID,
			Service:    c.Producer.Service,
			Breaking:   c.Breaking,
			Status:     status,
		})
	}

	return org
}

func copyBreaking(src []models.BreakingChange) []models.BreakingChange {
	out := make([]models.BreakingChange, len(src))
	for i, b := range src {
		affected := make([]string, len(b.AffectedRepos))
		copy(affected, b.AffectedRepos)
		b.AffectedRepos = affected
		out[i] = b
	}
	return out
}
