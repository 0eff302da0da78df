// Package graph holds the in-memory component dependency graph of one repository.
// It builds nodes and call edges from analysis input and ranks nodes by criticality.
package graph

import (
	"fmt"
	"sort"
	"time"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"gonum.org/v1/gonum/floats"
)

const (
	// DampingFactor is the share of a node's rank that flows along its call edges.
	DampingFactor = 0.85

	// ScoringIterations is fixed; the scoring pass never checks for convergence.
	ScoringIterations = 10

	// CallEdgeWeight is the signal strength of a single call site.
	CallEdgeWeight = 5.0
)

// ComponentGraph is owned by a single analysis run and is not safe for
// concurrent mutation.
type ComponentGraph struct {
	nodes    map[string]*models.Node
	order    []string
	edges    []models.Edge
	outgoing map[string][]int
	incoming map[string][]string
	now      func() time.Time
}

func New() *ComponentGraph {
	return &ComponentGraph{
		nodes:    make(map[string]*models.Node),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]string),
		now:      time.Now,
	}
}

func EndpointNodeID(path, method string) string {
	return fmt.Sprintf("endpoint:%s:%s", path, method)
}

func CallNodeID(file string, line int) string {
	return fmt.Sprintf("call:%s:%d", file, line)
}

// Build inserts endpoint and call-site nodes, links each call to the endpoint
// it targets when that endpoint is already present, and scores the graph.
func Build(endpoints []models.Endpoint, calls []models.APICall) *ComponentGraph {
	g := New()
	g.Build(endpoints, calls)
	return g
}

func (g *ComponentGraph) Build(endpoints []models.Endpoint, calls []models.APICall) {
	for _, ep := range endpoints {
		g.AddNode(models.Node{
			ID:       EndpointNodeID(ep.Path, ep.Method),
			Kind:     models.NodeKindEndpoint,
			Name:     ep.Method + " " + ep.Path,
			FilePath: ep.File,
			Metadata: map[string]any{
				"method": ep.Method,
				"path":   ep.Path,
				"line":   ep.Line,
			},
		})
	}

	for _, call := range calls {
		callID := CallNodeID(call.File, call.Line)
		g.AddNode(models.Node{
			ID:       callID,
			Kind:     models.NodeKindComponent,
			Name:     call.Method + " " + call.Endpoint,
			FilePath: call.File,
			Metadata: map[string]any{
				"method":   call.Method,
				"endpoint": call.Endpoint,
				"line":     call.Line,
			},
		})

		target := EndpointNodeID(call.Endpoint, call.Method)
		if _, ok := g.nodes[target]; ok {
			g.AddEdge(models.Edge{
				From:   callID,
				To:     target,
				Kind:   models.EdgeKindCalls,
				Weight: CallEdgeWeight,
			})
		}
	}

	g.ScoreCriticality()
}

// AddNode reports whether the node was inserted. An existing id is left untouched.
func (g *ComponentGraph) AddNode(node models.Node) bool {
	if _, exists := g.nodes[node.ID]; exists {
		return false
	}

	n := node
	n.Metadata = copyMetadata(node.Metadata)
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return true
}

// AddEdge appends the edge even when the same pair is already linked.
func (g *ComponentGraph) AddEdge(edge models.Edge) {
	if edge.Kind == "" {
		edge.Kind = models.EdgeKindCalls
	}
	g.edges = append(g.edges, edge)
	g.outgoing[edge.From] = append(g.outgoing[edge.From], len(g.edges)-1)
	g.incoming[edge.To] = append(g.incoming[edge.To], edge.From)
}

// ScoreCriticality runs the fixed-iteration rank propagation and rewrites every
// node's CriticalityScore on a 0..100 scale.
func (g *ComponentGraph) ScoreCriticality() {
	n := len(g.order)
	if n == 0 {
		return
	}

	index := make(map[string]int, n)
	for i, id := range g.order {
		index[id] = i
	}

	outDegree := make([]float64, n)
	for i, id := range g.order {
		outDegree[i] = float64(len(g.outgoing[id]))
	}

	size := float64(n)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1 / size
	}

	for range ScoringIterations {
		next := make([]float64, n)
		for i, id := range g.order {
			var sum float64
			for _, src := range g.incoming[id] {
				j, ok := index[src]
				if !ok || outDegree[j] == 0 {
					continue
				}
				sum += scores[j] / outDegree[j]
			}
			next[i] = (1-DampingFactor)/size + DampingFactor*sum
		}
		scores = next
	}

	maxScore := floats.Max(scores)
	if maxScore == 0 {
		for _, id := range g.order {
			g.nodes[id].CriticalityScore = 0
		}
		return
	}

	floats.Scale(100/maxScore, scores)
	for i, id := range g.order {
		g.nodes[id].CriticalityScore = scores[i]
	}
}

// CriticalNodes returns up to limit nodes ordered by score, highest first.
// Equal scores keep insertion order.
func (g *ComponentGraph) CriticalNodes(limit int) []models.Node {
	nodes := g.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].CriticalityScore > nodes[j].CriticalityScore
	})

	if limit < 0 {
		limit = 0
	}
	if limit < len(nodes) {
		nodes = nodes[:limit]
	}
	return nodes
}

// ImpactZone returns every node reachable from nodeID along outgoing edges,
// starting with nodeID itself.
func (g *ComponentGraph) ImpactZone(nodeID string) []models.Node {
	return g.walk(nodeID, func(id string) []string {
		next := make([]string, 0, len(g.outgoing[id]))
		for _, idx := range g.outgoing[id] {
			next = append(next, g.edges[idx].To)
		}
		return next
	})
}

// Dependents returns every node that can reach nodeID, starting with nodeID itself.
func (g *ComponentGraph) Dependents(nodeID string) []models.Node {
	return g.walk(nodeID, func(id string) []string {
		return g.incoming[id]
	})
}

func (g *ComponentGraph) walk(start string, next func(string) []string) []models.Node {
	result := []models.Node{}
	if _, ok := g.nodes[start]; !ok {
		return result
	}

	visited := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, cloneNode(g.nodes[id]))

		for _, to := range next(id) {
			if visited[to] {
				continue
			}
			if _, ok := g.nodes[to]; !ok {
				continue
			}
			visited[to] = true
			queue = append(queue, to)
		}
	}

	return result
}

func (g *ComponentGraph) Node(id string) (models.Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return models.Node{}, false
	}
	return cloneNode(n), true
}

// Nodes returns copies of all nodes in insertion order.
func (g *ComponentGraph) Nodes() []models.Node {
	nodes := make([]models.Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, cloneNode(g.nodes[id]))
	}
	return nodes
}

func (g *ComponentGraph) Edges() []models.Edge {
	edges := make([]models.Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

func (g *ComponentGraph) InDegree(id string) int {
	return len(g.incoming[id])
}

func (g *ComponentGraph) NodeCount() int {
	return len(g.order)
}

func (g *ComponentGraph) EdgeCount() int {
	return len(g.edges)
}

// MaxDepth is the deepest BFS level reached from any node without incoming edges.
func (g *ComponentGraph) MaxDepth() int {
	maxDepth := 0
	for _, root := range g.order {
		if len(g.incoming[root]) > 0 {
			continue
		}

		depth := map[string]int{root: 0}
		queue := []string{root}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, idx := range g.outgoing[id] {
				to := g.edges[idx].To
				if _, seen := depth[to]; seen {
					continue
				}
				if _, ok := g.nodes[to]; !ok {
					continue
				}
				depth[to] = depth[id] + 1
				if depth[to] > maxDepth {
					maxDepth = depth[to]
				}
				queue = append(queue, to)
			}
		}
	}
	return maxDepth
}

// Export returns an independent copy of the graph.
func (g *ComponentGraph) Export() *models.Graph {
	return &models.Graph{
		Nodes: g.Nodes(),
		Edges: g.Edges(),
		Metadata: models.GraphMetadata{
			TotalNodes:  g.NodeCount(),
			TotalEdges:  g.EdgeCount(),
			MaxDepth:    g.MaxDepth(),
			GeneratedAt: g.now().UTC(),
		},
	}
}

func cloneNode(n *models.Node) models.Node {
	c := *n
	c.Metadata = copyMetadata(n.Metadata)
	return c
}

func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
