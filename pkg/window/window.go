// Package window bridges the derived tree model and a host-owned live UI
// tree.
//
// The host application owns the on-screen trees (a primary content tree
// and a navigation sidebar) and may mutate them at any time outside this
// package. Reads therefore produce disposable snapshots valid only at the
// instant they were taken; writes go through explicit mutators that
// resolve domain-entity IDs to live node handles.
package window

import (
	"fmt"

	"github.com/vanderheijden86/taskgrove/pkg/model"
)

// Kind selects which of the host's trees a call addresses.
type Kind string

const (
	KindContent Kind = "content"
	KindSidebar Kind = "sidebar"
)

// Node is a handle to one live row of a host tree. The handle stays owned
// by the host; this package never stores it beyond a single call.
type Node interface {
	// ID is the underlying domain entity's stable identifier.
	ID() string
	// Entity returns the underlying domain entity.
	Entity() any
	// Children returns the node's children in display order.
	Children() []Node

	Expanded() bool
	Selected() bool
	Revealed() bool
}

// Tree is the host's live, stateful tree handle for one Kind.
type Tree interface {
	// Root returns the tree's designated root node.
	Root() Node
	// NodeByID resolves a domain entity ID to the live node handle.
	NodeByID(id string) (Node, bool)

	// Mutators act on live node handles. recursive variants apply to the
	// whole subtree under each node.
	Reveal(nodes []Node) error
	Select(nodes []Node, extending bool) error
	Expand(nodes []Node, recursive bool) error
	Collapse(nodes []Node, recursive bool) error
}

// Window is a handle to the host window holding both trees. It is always
// passed explicitly; there is no process-wide window singleton.
type Window interface {
	Tree(kind Kind) (Tree, error)
}

// resolve maps ids to live node handles: each id is resolved first to a
// domain entity (containers, then workstreams, then tasks) and then to the
// entity's UI node through the tree's own resolver. IDs failing either
// step are silently skipped.
func resolve(t Tree, g *model.Graph, ids []string) []Node {
	var nodes []Node
	for _, id := range ids {
		entity, _, ok := g.FindEntity(id)
		if !ok {
			continue
		}
		entityID, ok := model.EntityID(entity)
		if !ok {
			continue
		}
		n, ok := t.NodeByID(entityID)
		if !ok {
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// mutate runs one write operation against the host tree identified by
// kind. It returns true only if at least one id resolved and the mutation
// succeeded; partial resolution is expected and acceptable.
func mutate(w Window, g *model.Graph, ids []string, kind Kind, op func(Tree, []Node) error) bool {
	t, err := w.Tree(kind)
	if err != nil {
		return false
	}
	nodes := resolve(t, g, ids)
	if len(nodes) == 0 {
		return false
	}
	return op(t, nodes) == nil
}

// Reveal makes every resolvable id visible in the host tree.
func Reveal(w Window, g *model.Graph, ids []string, kind Kind) bool {
	return mutate(w, g, ids, kind, func(t Tree, nodes []Node) error {
		return t.Reveal(nodes)
	})
}

// Select selects every resolvable id. When extending is false the
// selection replaces the current one.
func Select(w Window, g *model.Graph, ids []string, extending bool, kind Kind) bool {
	return mutate(w, g, ids, kind, func(t Tree, nodes []Node) error {
		return t.Select(nodes, extending)
	})
}

// Expand expands every resolvable id, recursively when requested.
func Expand(w Window, g *model.Graph, ids []string, recursive bool, kind Kind) bool {
	return mutate(w, g, ids, kind, func(t Tree, nodes []Node) error {
		return t.Expand(nodes, recursive)
	})
}

// Collapse collapses every resolvable id, recursively when requested.
func Collapse(w Window, g *model.Graph, ids []string, recursive bool, kind Kind) bool {
	return mutate(w, g, ids, kind, func(t Tree, nodes []Node) error {
		return t.Collapse(nodes, recursive)
	})
}

// ErrUnknownKind builds the error hosts return when they do not carry the
// requested tree.
func ErrUnknownKind(kind Kind) error {
	return fmt.Errorf("unknown window tree kind %q", kind)
}
