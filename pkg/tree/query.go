package tree

// Query utilities over any tree produced by the builder or the window
// adapter. All functions are pure: they never mutate the tree and keep no
// state between calls.

// VisitFunc is called once per node during traversal. parent is nil for
// the root; depth matches node.Depth.
type VisitFunc func(n *Node, depth int, parent *Node)

// Traverse walks the tree depth-first in pre-order, calling visit for
// every node including the root (depth -1).
func Traverse(root *Node, visit VisitFunc) {
	if root == nil || visit == nil {
		return
	}
	var walk func(n, parent *Node)
	walk = func(n, parent *Node) {
		visit(n, n.Depth, parent)
		for _, c := range n.Children {
			if c != nil {
				walk(c, n)
			}
		}
	}
	walk(root, nil)
}

// Flatten returns every node except the synthetic root in pre-order.
// The result is a fresh slice on every call.
func Flatten(root *Node) []*Node {
	var out []*Node
	Traverse(root, func(n *Node, _ int, _ *Node) {
		if !n.IsRoot() {
			out = append(out, n)
		}
	})
	return out
}

// FindByID returns the first node (in pre-order) whose ID matches, or nil.
// IDs are unique per build, so the first match is the only match.
func FindByID(root *Node, id string) *Node {
	var found *Node
	Traverse(root, func(n *Node, _ int, _ *Node) {
		if found == nil && n.ID == id {
			found = n
		}
	})
	return found
}

// FindByPath returns every node whose path exactly matches the given
// segments: same length, same values, position by position. Comparison is
// case-sensitive and unnormalized. Multiple matches are possible when
// names repeat across branches with identical ancestry.
func FindByPath(root *Node, segments []string) []*Node {
	if len(segments) == 0 {
		return nil
	}
	var out []*Node
	Traverse(root, func(n *Node, _ int, _ *Node) {
		if pathEqual(n.Path, segments) {
			out = append(out, n)
		}
	})
	return out
}

func pathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Filter returns all nodes satisfying the predicate, in pre-order. Unlike
// construction-time filtering, children of excluded nodes are still
// visited: this selects nodes independently of tree structure.
func Filter(root *Node, pred func(*Node) bool) []*Node {
	if pred == nil {
		return nil
	}
	var out []*Node
	Traverse(root, func(n *Node, _ int, _ *Node) {
		if !n.IsRoot() && pred(n) {
			out = append(out, n)
		}
	})
	return out
}

// Stats aggregates counts over one tree. TotalNodes excludes the synthetic
// root, matching Flatten.
type Stats struct {
	TotalNodes      int `json:"totalNodes"`
	ContainerCount  int `json:"containerCount"`
	WorkstreamCount int `json:"workstreamCount"`
	TaskCount       int `json:"taskCount"`
	MaxDepth        int `json:"maxDepth"`
}

// Statistics computes aggregate counts in a single traversal.
func Statistics(root *Node) Stats {
	var s Stats
	Traverse(root, func(n *Node, depth int, _ *Node) {
		if n.IsRoot() {
			return
		}
		s.TotalNodes++
		switch n.Type {
		case TypeContainer:
			s.ContainerCount++
		case TypeWorkstream:
			s.WorkstreamCount++
		case TypeTask:
			s.TaskCount++
		}
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
	})
	return s
}
