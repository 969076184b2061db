package model

// Graph is one immutable snapshot of the domain: the three flattened entity
// collections plus the top-level container list in insertion order.
//
// The flattened collections include nested entities (sub-containers and
// subtasks) so that any entity can be found by ID without walking the
// hierarchy.
type Graph struct {
	Containers  []*Container
	Workstreams []*Workstream
	Tasks       []*Task

	// Roots are the containers that have no parent container.
	Roots []*Container
}

// NewGraph builds a Graph from top-level containers, flattening nested
// entities into the three collections. Child order follows the source's
// insertion order.
func NewGraph(roots []*Container) *Graph {
	g := &Graph{Roots: roots}
	for _, c := range roots {
		g.indexContainer(c)
	}
	return g
}

func (g *Graph) indexContainer(c *Container) {
	if c == nil {
		return
	}
	g.Containers = append(g.Containers, c)
	for _, sub := range c.Containers {
		g.indexContainer(sub)
	}
	for _, w := range c.Workstreams {
		g.indexWorkstream(w)
	}
}

func (g *Graph) indexWorkstream(w *Workstream) {
	if w == nil {
		return
	}
	g.Workstreams = append(g.Workstreams, w)
	for _, t := range w.Tasks {
		g.indexTask(t)
	}
}

func (g *Graph) indexTask(t *Task) {
	if t == nil {
		return
	}
	g.Tasks = append(g.Tasks, t)
	for _, sub := range t.Subtasks {
		g.indexTask(sub)
	}
}

// FindEntity resolves an ID to a domain entity by linear search across the
// three collections in priority order: containers, then workstreams, then
// tasks. The first match wins. Returns false if no entity carries the ID.
func (g *Graph) FindEntity(id string) (any, Kind, bool) {
	if g == nil || id == "" {
		return nil, "", false
	}
	for _, c := range g.Containers {
		if c != nil && c.ID == id {
			return c, KindContainer, true
		}
	}
	for _, w := range g.Workstreams {
		if w != nil && w.ID == id {
			return w, KindWorkstream, true
		}
	}
	for _, t := range g.Tasks {
		if t != nil && t.ID == id {
			return t, KindTask, true
		}
	}
	return nil, "", false
}

// Validate checks every entity in the snapshot and reports the first
// validation failure.
func (g *Graph) Validate() error {
	for _, c := range g.Containers {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for _, w := range g.Workstreams {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	for _, t := range g.Tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
