// Package ui implements the tg terminal UI: a live, stateful tree view of
// the domain hierarchy.
//
// The tree view is the in-process host for the window adapter: LiveTree
// implements window.Tree and Model implements window.Window, so the sync
// layer addresses the on-screen trees exactly as it would address an
// external host application.
package ui

import (
	"github.com/vanderheijden86/taskgrove/pkg/model"
	"github.com/vanderheijden86/taskgrove/pkg/window"
)

// LiveNode is one live row of the tree view. Expansion, selection, and
// reveal state live here, owned by the UI, and change as the user
// interacts with the screen.
type LiveNode struct {
	id     string
	entity any
	kind   model.Kind
	name   string

	children []*LiveNode
	parent   *LiveNode

	expanded bool
	selected bool
	revealed bool
}

// ID implements window.Node.
func (n *LiveNode) ID() string { return n.id }

// Entity implements window.Node.
func (n *LiveNode) Entity() any { return n.entity }

// Children implements window.Node.
func (n *LiveNode) Children() []window.Node {
	out := make([]window.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Expanded implements window.Node.
func (n *LiveNode) Expanded() bool { return n.expanded }

// Selected implements window.Node.
func (n *LiveNode) Selected() bool { return n.selected }

// Revealed implements window.Node.
func (n *LiveNode) Revealed() bool { return n.revealed }

// Kind returns the domain kind of the underlying entity.
func (n *LiveNode) Kind() model.Kind { return n.kind }

// Name returns the display name.
func (n *LiveNode) Name() string { return n.name }

// LiveTree is one host-owned tree: either the full content hierarchy or
// the sidebar (containers and workstreams only).
type LiveTree struct {
	root  *LiveNode
	index map[string]*LiveNode
}

// NewContentTree builds the live content tree for a domain graph: the full
// container/workstream/task hierarchy in insertion order. Top-level nodes
// start expanded, everything deeper starts collapsed.
func NewContentTree(g *model.Graph) *LiveTree {
	t := &LiveTree{
		root:  &LiveNode{id: "", name: "root"},
		index: make(map[string]*LiveNode),
	}
	if g == nil {
		return t
	}
	for _, c := range g.Roots {
		if node := t.buildContainer(c, t.root, true); node != nil {
			t.root.children = append(t.root.children, node)
		}
	}
	return t
}

// NewSidebarTree builds the navigation sidebar tree: containers and
// workstreams, without tasks.
func NewSidebarTree(g *model.Graph) *LiveTree {
	t := &LiveTree{
		root:  &LiveNode{id: "", name: "root"},
		index: make(map[string]*LiveNode),
	}
	if g == nil {
		return t
	}
	for _, c := range g.Roots {
		if node := t.buildContainer(c, t.root, false); node != nil {
			t.root.children = append(t.root.children, node)
		}
	}
	return t
}

func (t *LiveTree) register(n *LiveNode) {
	t.index[n.id] = n
	// Default: expanded for top level only, matching the initial render.
	n.expanded = n.parent == t.root
	n.revealed = n.parent == t.root
}

func (t *LiveTree) buildContainer(c *model.Container, parent *LiveNode, withTasks bool) *LiveNode {
	if c == nil {
		return nil
	}
	n := &LiveNode{id: c.ID, entity: c, kind: model.KindContainer, name: c.Name, parent: parent}
	t.register(n)
	for _, sub := range c.Containers {
		if child := t.buildContainer(sub, n, withTasks); child != nil {
			n.children = append(n.children, child)
		}
	}
	for _, w := range c.Workstreams {
		if child := t.buildWorkstream(w, n, withTasks); child != nil {
			n.children = append(n.children, child)
		}
	}
	return n
}

func (t *LiveTree) buildWorkstream(w *model.Workstream, parent *LiveNode, withTasks bool) *LiveNode {
	if w == nil {
		return nil
	}
	n := &LiveNode{id: w.ID, entity: w, kind: model.KindWorkstream, name: w.Name, parent: parent}
	t.register(n)
	if withTasks {
		for _, task := range w.Tasks {
			if child := t.buildTask(task, n); child != nil {
				n.children = append(n.children, child)
			}
		}
	}
	return n
}

func (t *LiveTree) buildTask(task *model.Task, parent *LiveNode) *LiveNode {
	if task == nil {
		return nil
	}
	n := &LiveNode{id: task.ID, entity: task, kind: model.KindTask, name: task.Name, parent: parent}
	t.register(n)
	for _, sub := range task.Subtasks {
		if child := t.buildTask(sub, n); child != nil {
			n.children = append(n.children, child)
		}
	}
	return n
}

// Root implements window.Tree.
func (t *LiveTree) Root() window.Node { return t.root }

// NodeByID implements window.Tree.
func (t *LiveTree) NodeByID(id string) (window.Node, bool) {
	n, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// own narrows a handle back to this tree's node type. Handles from a
// different tree are ignored rather than acted on.
func (t *LiveTree) own(h window.Node) *LiveNode {
	n, ok := h.(*LiveNode)
	if !ok || n == nil {
		return nil
	}
	if t.index[n.id] != n && n != t.root {
		return nil
	}
	return n
}

// Reveal implements window.Tree: expands all ancestors of each node and
// marks the node revealed so it is visible on screen.
func (t *LiveTree) Reveal(nodes []window.Node) error {
	for _, h := range nodes {
		n := t.own(h)
		if n == nil {
			continue
		}
		for p := n.parent; p != nil && p != t.root; p = p.parent {
			p.expanded = true
		}
		n.revealed = true
	}
	return nil
}

// Select implements window.Tree. A non-extending select replaces the
// current selection.
func (t *LiveTree) Select(nodes []window.Node, extending bool) error {
	if !extending {
		for _, n := range t.index {
			n.selected = false
		}
	}
	for _, h := range nodes {
		if n := t.own(h); n != nil {
			n.selected = true
		}
	}
	return nil
}

// Expand implements window.Tree.
func (t *LiveTree) Expand(nodes []window.Node, recursive bool) error {
	for _, h := range nodes {
		if n := t.own(h); n != nil {
			setExpanded(n, true, recursive)
		}
	}
	return nil
}

// Collapse implements window.Tree.
func (t *LiveTree) Collapse(nodes []window.Node, recursive bool) error {
	for _, h := range nodes {
		if n := t.own(h); n != nil {
			setExpanded(n, false, recursive)
		}
	}
	return nil
}

func setExpanded(n *LiveNode, expanded, recursive bool) {
	n.expanded = expanded
	if !recursive {
		return
	}
	for _, c := range n.children {
		setExpanded(c, expanded, true)
	}
}

// visibleRows returns the rows currently on screen: pre-order, skipping
// children of collapsed nodes.
func (t *LiveTree) visibleRows() []*LiveNode {
	var rows []*LiveNode
	var walk func(n *LiveNode)
	walk = func(n *LiveNode) {
		for _, c := range n.children {
			rows = append(rows, c)
			if c.expanded {
				walk(c)
			}
		}
	}
	walk(t.root)
	return rows
}

// depthOf returns the display depth of a live node (top level = 0).
func (t *LiveTree) depthOf(n *LiveNode) int {
	d := -1
	for p := n; p != nil && p != t.root; p = p.parent {
		d++
	}
	return d
}

// NodeCount returns the number of entities in the tree.
func (t *LiveTree) NodeCount() int { return len(t.index) }
