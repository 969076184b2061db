package decorate

import (
	"testing"

	"github.com/vanderheijden86/taskgrove/pkg/model"
)

func rankFixture() *model.Graph {
	w := &model.Workstream{
		ID: "w-1", Name: "Platform", Status: model.StreamActive,
		Tasks: []*model.Task{
			{ID: "t-1", Name: "Migrate", Subtasks: []*model.Task{
				{ID: "t-1a", Name: "Inventory"},
				{ID: "t-1b", Name: "Port"},
			}},
			{ID: "t-2", Name: "Document"},
		},
	}
	c := &model.Container{ID: "c-1", Name: "Work", Workstreams: []*model.Workstream{w}}
	return model.NewGraph([]*model.Container{c})
}

func TestGraphRankScoresEveryEntity(t *testing.T) {
	g := rankFixture()
	a := NewGraphRankAnalyzer(g)

	for _, id := range []string{"c-1", "w-1", "t-1", "t-1a", "t-1b", "t-2"} {
		if _, ok := a.scores[id]; !ok {
			t.Errorf("no score for %s", id)
		}
	}
}

func TestGraphRankParentOutranksLeaf(t *testing.T) {
	g := rankFixture()
	a := NewGraphRankAnalyzer(g)

	// Mass flows child -> parent, so the container ends up above leaves.
	if a.scores["c-1"] <= a.scores["t-1a"] {
		t.Errorf("container score %v not above leaf score %v", a.scores["c-1"], a.scores["t-1a"])
	}
	if a.scores["w-1"] <= a.scores["t-2"] {
		t.Errorf("workstream score %v not above leaf score %v", a.scores["w-1"], a.scores["t-2"])
	}
}

func TestGraphRankParseMergesImportance(t *testing.T) {
	g := rankFixture()
	a := NewGraphRankAnalyzer(g)

	d, err := a.Parse(g.Workstreams[0])
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := d.Metrics["importance"]; !ok {
		t.Error("importance metric missing")
	}
	// Built-in counts survive the merge.
	if got := d.Metrics["task_count"]; got != 4 {
		t.Errorf("task_count = %v, want 4", got)
	}
}

func TestGraphRankParseUnknownEntityFails(t *testing.T) {
	a := NewGraphRankAnalyzer(rankFixture())

	if _, err := a.Parse(&model.Task{ID: "t-ghost", Name: "Ghost"}); err == nil {
		t.Error("expected error for entity outside the analyzed snapshot")
	}
	if _, err := a.Parse("nonsense"); err == nil {
		t.Error("expected error for non-entity")
	}
}

func TestRegisterGraphRankFallsBackForForeignEntities(t *testing.T) {
	g := rankFixture()
	r := NewRegistry()
	RegisterGraphRank(r, g)

	// An entity from a different snapshot resolves through the fallback.
	d := r.Resolve(&model.Task{ID: "other", Name: "Other", Flagged: true}, model.KindTask)
	if _, ok := d.Metrics["importance"]; ok {
		t.Error("foreign entity should not carry an importance score")
	}
	if got := d.Health["level"]; got != "flagged" {
		t.Errorf("fallback health = %v, want flagged", got)
	}
}

func TestGraphRankEmptyGraph(t *testing.T) {
	a := NewGraphRankAnalyzer(nil)
	if len(a.scores) != 0 {
		t.Errorf("expected no scores for nil graph, got %d", len(a.scores))
	}
}
