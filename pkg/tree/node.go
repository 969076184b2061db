// Package tree builds and queries the derived hierarchy of containers,
// workstreams, and tasks.
//
// A tree is a disposable in-memory snapshot: built fresh on every call,
// queried or exported, then discarded. It is never persisted and never
// mutated after construction. Parent links are plain ID strings rather
// than pointers, so the structure itself can never contain a reference
// cycle regardless of what the domain graph does.
package tree

import "time"

// NodeType classifies a tree node.
type NodeType string

const (
	TypeRoot       NodeType = "root"
	TypeContainer  NodeType = "container"
	TypeWorkstream NodeType = "workstream"
	TypeTask       NodeType = "task"
)

// RootID is the synthetic identifier of every tree's root node.
const RootID = "root"

// UIState mirrors the host window state of a node at the moment a live
// tree was walked. It is only present on trees built from a window.
type UIState struct {
	Expanded bool `json:"expanded"`
	Selected bool `json:"selected"`
	Revealed bool `json:"revealed"`
}

// Node is one node of a derived tree.
//
// Invariants, for every tree produced by this package:
//   - exactly one root, with Depth == -1 and ParentID == ""
//   - every non-root node's ParentID names exactly one existing node, and
//     that node's Children contains it exactly once
//   - Path is the chain of ancestor names from (excluding) root to
//     (including) self, so len(Path) == Depth+1 for non-root nodes
//   - IDs are unique across the tree for a given build
type Node struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type NodeType `json:"nodeType"`

	// Depth is -1 for the root; direct children of the root are 0.
	Depth int `json:"depth"`

	// Path holds ancestor display names including self; empty for root.
	Path []string `json:"path"`

	// ParentID is a weak back-reference to the parent's ID, never a
	// pointer. Empty for the root.
	ParentID string `json:"parentId"`

	// Status flags copied from the domain entity. Workstream completion
	// and drop map onto the same flags.
	Completed bool       `json:"completed,omitempty"`
	Dropped   bool       `json:"dropped,omitempty"`
	Flagged   bool       `json:"flagged,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`

	// Children are owned, in the domain/UI source's insertion order.
	Children []*Node `json:"children,omitempty"`

	// DomainRef is an opaque non-owned handle back to the originating
	// domain entity. Used during construction and window sync only;
	// excluded from every serialized form.
	DomainRef any `json:"-"`

	// Optional decoration payloads. Nil when decoration is disabled or
	// the resolver produced nothing for this kind.
	Metrics map[string]any `json:"metrics,omitempty"`
	Health  map[string]any `json:"health,omitempty"`

	// UI mirrors host window state; nil on domain-built trees.
	UI *UIState `json:"uiState,omitempty"`
}

// IsRoot reports whether the node is the synthetic root.
func (n *Node) IsRoot() bool {
	return n != nil && n.Type == TypeRoot
}

// newRoot returns a fresh synthetic root node.
func newRoot() *Node {
	return &Node{
		ID:    RootID,
		Name:  RootID,
		Type:  TypeRoot,
		Depth: -1,
	}
}
