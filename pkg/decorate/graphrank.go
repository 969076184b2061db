package decorate

import (
	"fmt"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/vanderheijden86/taskgrove/pkg/model"
)

// PageRank parameters. Standard damping with a tight tolerance; hierarchy
// graphs are small so convergence cost is negligible.
const (
	pageRankDamping = 0.85
	pageRankTol     = 1e-6
)

// GraphRankAnalyzer scores entities by their structural importance in the
// domain hierarchy. Edges point from each child to its parent, so PageRank
// mass accumulates on entities with large subtrees beneath them.
//
// The analyzer precomputes scores for one graph snapshot at construction
// time; Parse then looks up the entity's score. Parsing an entity that was
// not part of the snapshot fails, which makes the resolver fall back to the
// built-in extraction.
type GraphRankAnalyzer struct {
	scores map[string]float64
}

// NewGraphRankAnalyzer computes importance scores for every entity in the
// given domain graph snapshot.
func NewGraphRankAnalyzer(g *model.Graph) *GraphRankAnalyzer {
	a := &GraphRankAnalyzer{scores: make(map[string]float64)}
	if g == nil {
		return a
	}

	dg := simple.NewDirectedGraph()
	idOf := make(map[string]int64)
	next := int64(0)

	nodeFor := func(id string) int64 {
		if n, ok := idOf[id]; ok {
			return n
		}
		n := next
		next++
		idOf[id] = n
		dg.AddNode(simple.Node(n))
		return n
	}

	addEdge := func(childID, parentID string) {
		from, to := nodeFor(childID), nodeFor(parentID)
		if from == to {
			return
		}
		dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
	}

	for _, c := range g.Containers {
		if c == nil {
			continue
		}
		nodeFor(c.ID)
		for _, sub := range c.Containers {
			if sub != nil {
				addEdge(sub.ID, c.ID)
			}
		}
		for _, w := range c.Workstreams {
			if w != nil {
				addEdge(w.ID, c.ID)
			}
		}
	}
	for _, w := range g.Workstreams {
		if w == nil {
			continue
		}
		nodeFor(w.ID)
		for _, t := range w.Tasks {
			if t != nil {
				addEdge(t.ID, w.ID)
			}
		}
	}
	for _, t := range g.Tasks {
		if t == nil {
			continue
		}
		nodeFor(t.ID)
		for _, sub := range t.Subtasks {
			if sub != nil {
				addEdge(sub.ID, t.ID)
			}
		}
	}

	if len(idOf) == 0 {
		return a
	}

	ranks := network.PageRank(dg, pageRankDamping, pageRankTol)
	for id, n := range idOf {
		a.scores[id] = ranks[n]
	}
	return a
}

// Parse implements Analyzer. The result merges the importance score into
// the built-in extraction so callers keep the count metrics.
func (a *GraphRankAnalyzer) Parse(entity any) (Data, error) {
	id, ok := model.EntityID(entity)
	if !ok {
		return Data{}, fmt.Errorf("graphrank: not a domain entity: %T", entity)
	}
	score, ok := a.scores[id]
	if !ok {
		return Data{}, fmt.Errorf("graphrank: entity %s not in analyzed snapshot", id)
	}

	kind, _ := model.KindOf(entity)
	d := Extract(entity, kind)
	if d.Metrics == nil {
		d.Metrics = make(map[string]any)
	}
	d.Metrics["importance"] = score
	return d, nil
}

// RegisterGraphRank installs one shared GraphRankAnalyzer for all three
// entity kinds on the registry.
func RegisterGraphRank(r *Registry, g *model.Graph) *GraphRankAnalyzer {
	a := NewGraphRankAnalyzer(g)
	r.Register(model.KindContainer, a)
	r.Register(model.KindWorkstream, a)
	r.Register(model.KindTask, a)
	return a
}
