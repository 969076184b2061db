// Package testutil provides deterministic domain-graph fixtures and tree
// assertions shared by the package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/vanderheijden86/taskgrove/pkg/model"
	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

// Date builds a *time.Time at midnight UTC, for fixture due dates.
func Date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// SampleGraph builds the standard two-container fixture used across the
// package tests:
//
//	Work
//	  Platform
//	    Migrate CI         [task]
//	      Inventory jobs   [subtask]
//	      Port pipelines   [subtask]
//	Home
//	  Garden
//	    Plant bulbs        [task, completed]
//	    Water schedule     [task, flagged]
//
// Two containers, two workstreams, five tasks total, max depth 3.
func SampleGraph() *model.Graph {
	migrate := &model.Task{ID: "t-migrate", Name: "Migrate CI"}
	migrate.Subtasks = []*model.Task{
		{ID: "t-inventory", Name: "Inventory jobs"},
		{ID: "t-port", Name: "Port pipelines"},
	}

	platform := &model.Workstream{
		ID:     "w-platform",
		Name:   "Platform",
		Status: model.StreamActive,
		Tasks:  []*model.Task{migrate},
	}

	garden := &model.Workstream{
		ID:     "w-garden",
		Name:   "Garden",
		Status: model.StreamActive,
		Tasks: []*model.Task{
			{ID: "t-bulbs", Name: "Plant bulbs", Completed: true, CompletedAt: Date(2026, time.March, 14)},
			{ID: "t-water", Name: "Water schedule", Flagged: true, DueDate: Date(2026, time.June, 1)},
		},
	}

	work := &model.Container{ID: "c-work", Name: "Work", Workstreams: []*model.Workstream{platform}}
	home := &model.Container{ID: "c-home", Name: "Home", Workstreams: []*model.Workstream{garden}}

	return model.NewGraph([]*model.Container{work, home})
}

// NestedGraph builds a fixture with sub-containers and deeper subtask
// chains, for depth-limit and path tests:
//
//	Org
//	  Team A
//	    Ship v2
//	      Design
//	        Draft    [sub-subtask]
//	  Archive (sub-container, dropped)
//	    Old stream  [dropped]
func NestedGraph() *model.Graph {
	design := &model.Task{ID: "t-design", Name: "Design"}
	design.Subtasks = []*model.Task{{ID: "t-draft", Name: "Draft"}}

	ship := &model.Task{ID: "t-ship", Name: "Ship v2", Subtasks: []*model.Task{design}}

	teamA := &model.Workstream{
		ID:     "w-team-a",
		Name:   "Team A",
		Status: model.StreamActive,
		Tasks:  []*model.Task{ship},
	}

	archive := &model.Container{
		ID:      "c-archive",
		Name:    "Archive",
		Dropped: true,
		Workstreams: []*model.Workstream{
			{ID: "w-old", Name: "Old stream", Status: model.StreamDropped},
		},
	}

	org := &model.Container{
		ID:          "c-org",
		Name:        "Org",
		Containers:  []*model.Container{archive},
		Workstreams: []*model.Workstream{teamA},
	}

	return model.NewGraph([]*model.Container{org})
}

// AssertNodeCount verifies the flattened size of a built tree.
func AssertNodeCount(t *testing.T, root *tree.Node, expected int) {
	t.Helper()
	got := len(tree.Flatten(root))
	if got != expected {
		t.Errorf("expected %d nodes, got %d", expected, got)
	}
}

// AssertDepths verifies that every node's recorded depth matches its actual
// distance from the root and that path length tracks depth.
func AssertDepths(t *testing.T, root *tree.Node) {
	t.Helper()
	if root != nil && root.Depth != -1 {
		t.Errorf("root depth = %d, want -1", root.Depth)
	}
	var walk func(n *tree.Node, depth int)
	walk = func(n *tree.Node, depth int) {
		if n.Depth != depth {
			t.Errorf("node %s: recorded depth %d, actual depth %d", n.ID, n.Depth, depth)
		}
		if len(n.Path) != depth+1 {
			t.Errorf("node %s: path length %d, want depth+1 = %d", n.ID, len(n.Path), depth+1)
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if root != nil {
		for _, c := range root.Children {
			walk(c, 0)
		}
	}
}

// AssertParentIDs verifies every child records its parent's ID.
func AssertParentIDs(t *testing.T, root *tree.Node) {
	t.Helper()
	tree.Traverse(root, func(n *tree.Node, depth int, parent *tree.Node) {
		if parent == nil {
			return
		}
		if n.ParentID != parent.ID {
			t.Errorf("node %s: parentId %q, want %q", n.ID, n.ParentID, parent.ID)
		}
	})
}

// AssertNoDuplicateIDs verifies all node IDs in a tree are unique.
func AssertNoDuplicateIDs(t *testing.T, root *tree.Node) {
	t.Helper()
	seen := make(map[string]bool)
	for _, n := range tree.Flatten(root) {
		if seen[n.ID] {
			t.Errorf("duplicate node ID: %s", n.ID)
		}
		seen[n.ID] = true
	}
}

// FindOrFail returns the node with the given ID or fails the test.
func FindOrFail(t *testing.T, root *tree.Node, id string) *tree.Node {
	t.Helper()
	n := tree.FindByID(root, id)
	if n == nil {
		t.Fatalf("node %s not found in tree", id)
	}
	return n
}

// WideGraph builds a single container with n active workstreams, each
// holding one task. Useful for scale-shaped tests without randomness.
func WideGraph(n int) *model.Graph {
	c := &model.Container{ID: "c-wide", Name: "Wide"}
	for i := 0; i < n; i++ {
		w := &model.Workstream{
			ID:     fmt.Sprintf("w-%03d", i),
			Name:   fmt.Sprintf("Stream %d", i),
			Status: model.StreamActive,
			Tasks: []*model.Task{
				{ID: fmt.Sprintf("t-%03d", i), Name: fmt.Sprintf("Task %d", i)},
			},
		}
		c.Workstreams = append(c.Workstreams, w)
	}
	return model.NewGraph([]*model.Container{c})
}
