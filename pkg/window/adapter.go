package window

import (
	"github.com/vanderheijden86/taskgrove/pkg/decorate"
	"github.com/vanderheijden86/taskgrove/pkg/model"
	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

// BuildFromWindow walks a host tree and produces an equivalent decorated
// tree annotated with the UI state of every node at the moment of
// traversal.
//
// Nodes are decorated exactly as the domain builder decorates them; the
// same Options semantics apply (depth truncation, entity filtering,
// metrics/health toggles). The snapshot is disposable: the host may change
// expansion or selection the moment this returns.
func BuildFromWindow(w Window, kind Kind, reg *decorate.Registry, opts tree.Options) (*tree.Node, error) {
	t, err := w.Tree(kind)
	if err != nil {
		return nil, err
	}

	root := &tree.Node{
		ID:    tree.RootID,
		Name:  tree.RootID,
		Type:  tree.TypeRoot,
		Depth: -1,
	}
	for _, child := range t.Root().Children() {
		node, err := buildUINode(child, 0, nil, root.ID, reg, opts)
		if node != nil {
			root.Children = append(root.Children, node)
		}
		if err != nil {
			return root, err
		}
	}
	return root, nil
}

func buildUINode(h Node, depth int, parentPath []string, parentID string, reg *decorate.Registry, opts tree.Options) (*tree.Node, error) {
	if h == nil {
		return nil, &tree.MissingEntityError{ParentID: parentID, Path: parentPath}
	}

	entity := h.Entity()
	kind, ok := model.KindOf(entity)
	if !ok {
		return nil, &tree.MissingEntityError{ParentID: parentID, Path: parentPath}
	}
	if opts.Filter != nil && !opts.Filter(entity, kind) {
		return nil, nil
	}

	name, _ := model.EntityName(entity)
	path := make([]string, 0, len(parentPath)+1)
	path = append(path, parentPath...)
	path = append(path, name)

	n := &tree.Node{
		ID:       h.ID(),
		Name:     name,
		Type:     nodeTypeFor(kind),
		Depth:    depth,
		Path:     path,
		ParentID: parentID,

		DomainRef: entity,
		UI: &tree.UIState{
			Expanded: h.Expanded(),
			Selected: h.Selected(),
			Revealed: h.Revealed(),
		},
	}
	applyStatus(n, entity)

	if opts.Metrics || opts.Health {
		d := reg.Resolve(entity, kind)
		if opts.Metrics {
			n.Metrics = d.Metrics
		}
		if opts.Health {
			n.Health = d.Health
		}
	}

	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return n, nil
	}

	for _, child := range h.Children() {
		childNode, err := buildUINode(child, depth+1, path, n.ID, reg, opts)
		if childNode != nil {
			n.Children = append(n.Children, childNode)
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func nodeTypeFor(kind model.Kind) tree.NodeType {
	switch kind {
	case model.KindContainer:
		return tree.TypeContainer
	case model.KindWorkstream:
		return tree.TypeWorkstream
	default:
		return tree.TypeTask
	}
}

func applyStatus(n *tree.Node, entity any) {
	switch e := entity.(type) {
	case *model.Container:
		n.Dropped = e.Dropped
	case *model.Workstream:
		n.Completed = e.IsCompleted()
		n.Dropped = e.IsDropped()
		n.Flagged = e.Flagged
		n.DueDate = e.DueDate
	case *model.Task:
		n.Completed = e.Completed
		n.Dropped = e.Dropped
		n.Flagged = e.Flagged
		n.DueDate = e.DueDate
	}
}
