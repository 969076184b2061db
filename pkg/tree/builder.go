package tree

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/taskgrove/pkg/decorate"
	"github.com/vanderheijden86/taskgrove/pkg/model"
)

// Options controls tree construction.
type Options struct {
	// MaxDepth stops descent below the given depth. Nodes at MaxDepth are
	// still returned, their children are not (truncation, not omission).
	// Zero means unlimited.
	MaxDepth int

	// Metrics and Health toggle the corresponding decoration payloads.
	Metrics bool
	Health  bool

	// Filter, when set, is evaluated against each raw domain entity before
	// it becomes a node. Entities failing the predicate are excluded
	// together with their entire subtree (pruning).
	Filter func(entity any, kind model.Kind) bool
}

// DefaultOptions returns Options with decoration enabled and no depth or
// filter restrictions.
func DefaultOptions() Options {
	return Options{Metrics: true, Health: true}
}

// MissingEntityError reports a nil required entity reference encountered
// during construction. It aborts the node being built (and its prospective
// subtree); siblings built before the failure remain on the returned tree
// so the caller can keep the partial result or discard it.
type MissingEntityError struct {
	Kind     model.Kind // expected kind of the missing entity
	ParentID string     // ID of the node whose child list held the nil
	Path     []string   // path of the parent node, when known
}

func (e *MissingEntityError) Error() string {
	loc := "top level"
	if e.ParentID != "" {
		loc = "under " + e.ParentID
	}
	if len(e.Path) > 0 {
		loc += " (" + strings.Join(e.Path, " > ") + ")"
	}
	return fmt.Sprintf("missing required %s entity %s", e.Kind, loc)
}

// Builder constructs decorated trees from a domain graph. A nil registry
// is valid: every node then gets the built-in fallback decoration.
type Builder struct {
	reg *decorate.Registry
}

// NewBuilder returns a Builder that decorates nodes through reg.
func NewBuilder(reg *decorate.Registry) *Builder {
	return &Builder{reg: reg}
}

// BuildFromRoots builds the full tree from the top-level containers.
//
// The returned tree always has a synthetic root at depth -1; the given
// containers become its children at depth 0. On a construction error the
// partial tree built so far is returned alongside the error.
func (b *Builder) BuildFromRoots(roots []*model.Container, opts Options) (*Node, error) {
	rootNode := newRoot()
	for _, c := range roots {
		if c == nil {
			return rootNode, &MissingEntityError{Kind: model.KindContainer}
		}
		child, err := b.buildContainer(c, 0, nil, rootNode.ID, opts)
		if child != nil {
			rootNode.Children = append(rootNode.Children, child)
		}
		if err != nil {
			return rootNode, err
		}
	}
	return rootNode, nil
}

// BuildFromContainer builds a tree scoped to a single container subtree.
// The container becomes the sole child of a synthetic root.
func (b *Builder) BuildFromContainer(c *model.Container, opts Options) (*Node, error) {
	if c == nil {
		return newRoot(), &MissingEntityError{Kind: model.KindContainer}
	}
	return b.BuildFromRoots([]*model.Container{c}, opts)
}

// BuildFromWorkstream builds a tree scoped to a single workstream subtree.
// The workstream becomes the sole child of a synthetic root.
func (b *Builder) BuildFromWorkstream(w *model.Workstream, opts Options) (*Node, error) {
	rootNode := newRoot()
	if w == nil {
		return rootNode, &MissingEntityError{Kind: model.KindWorkstream}
	}
	child, err := b.buildWorkstream(w, 0, nil, rootNode.ID, opts)
	if child != nil {
		rootNode.Children = append(rootNode.Children, child)
	}
	return rootNode, err
}

// excluded reports whether the filter rejects the entity.
func (o Options) excluded(entity any, kind model.Kind) bool {
	return o.Filter != nil && !o.Filter(entity, kind)
}

// atLimit reports whether children at depth+1 would exceed MaxDepth.
func (o Options) atLimit(depth int) bool {
	return o.MaxDepth > 0 && depth >= o.MaxDepth
}

// decorate resolves metrics/health for the node per the options.
func (b *Builder) decorate(n *Node, entity any, kind model.Kind, opts Options) {
	if !opts.Metrics && !opts.Health {
		return
	}
	d := b.reg.Resolve(entity, kind)
	if opts.Metrics {
		n.Metrics = d.Metrics
	}
	if opts.Health {
		n.Health = d.Health
	}
}

func childPath(parentPath []string, name string) []string {
	p := make([]string, 0, len(parentPath)+1)
	p = append(p, parentPath...)
	return append(p, name)
}

func (b *Builder) buildContainer(c *model.Container, depth int, parentPath []string, parentID string, opts Options) (*Node, error) {
	n := &Node{
		ID:       c.ID,
		Name:     c.Name,
		Type:     TypeContainer,
		Depth:    depth,
		Path:     childPath(parentPath, c.Name),
		ParentID: parentID,
		Dropped:  c.Dropped,

		DomainRef: c,
	}
	b.decorate(n, c, model.KindContainer, opts)

	if opts.atLimit(depth) {
		return n, nil
	}

	// Sub-containers first, then workstreams, in insertion order.
	for _, sub := range c.Containers {
		if sub == nil {
			return n, &MissingEntityError{Kind: model.KindContainer, ParentID: c.ID, Path: n.Path}
		}
		if opts.excluded(sub, model.KindContainer) {
			continue
		}
		child, err := b.buildContainer(sub, depth+1, n.Path, n.ID, opts)
		if child != nil {
			n.Children = append(n.Children, child)
		}
		if err != nil {
			return n, err
		}
	}
	for _, w := range c.Workstreams {
		if w == nil {
			return n, &MissingEntityError{Kind: model.KindWorkstream, ParentID: c.ID, Path: n.Path}
		}
		if opts.excluded(w, model.KindWorkstream) {
			continue
		}
		child, err := b.buildWorkstream(w, depth+1, n.Path, n.ID, opts)
		if child != nil {
			n.Children = append(n.Children, child)
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (b *Builder) buildWorkstream(w *model.Workstream, depth int, parentPath []string, parentID string, opts Options) (*Node, error) {
	n := &Node{
		ID:       w.ID,
		Name:     w.Name,
		Type:     TypeWorkstream,
		Depth:    depth,
		Path:     childPath(parentPath, w.Name),
		ParentID: parentID,

		Completed: w.IsCompleted(),
		Dropped:   w.IsDropped(),
		Flagged:   w.Flagged,
		DueDate:   w.DueDate,

		DomainRef: w,
	}
	b.decorate(n, w, model.KindWorkstream, opts)

	if opts.atLimit(depth) {
		return n, nil
	}

	for _, t := range w.Tasks {
		if t == nil {
			return n, &MissingEntityError{Kind: model.KindTask, ParentID: w.ID, Path: n.Path}
		}
		if opts.excluded(t, model.KindTask) {
			continue
		}
		child, err := b.buildTask(t, depth+1, n.Path, n.ID, opts)
		if child != nil {
			n.Children = append(n.Children, child)
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (b *Builder) buildTask(t *model.Task, depth int, parentPath []string, parentID string, opts Options) (*Node, error) {
	n := &Node{
		ID:       t.ID,
		Name:     t.Name,
		Type:     TypeTask,
		Depth:    depth,
		Path:     childPath(parentPath, t.Name),
		ParentID: parentID,

		Completed: t.Completed,
		Dropped:   t.Dropped,
		Flagged:   t.Flagged,
		DueDate:   t.DueDate,

		DomainRef: t,
	}
	b.decorate(n, t, model.KindTask, opts)

	if opts.atLimit(depth) {
		return n, nil
	}

	for _, sub := range t.Subtasks {
		if sub == nil {
			return n, &MissingEntityError{Kind: model.KindTask, ParentID: t.ID, Path: n.Path}
		}
		if opts.excluded(sub, model.KindTask) {
			continue
		}
		child, err := b.buildTask(sub, depth+1, n.Path, n.ID, opts)
		if child != nil {
			n.Children = append(n.Children, child)
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
