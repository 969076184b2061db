// Package decorate attaches best-effort metrics and health data to domain
// entities during tree construction.
//
// Decoration sources are pluggable: any value implementing Analyzer can be
// registered for an entity kind. Lookup happens at call time, and analyzer
// absence or failure (including panics) never aborts tree construction;
// the resolver falls back to a minimal built-in extraction instead.
package decorate

import (
	"fmt"

	"github.com/vanderheijden86/taskgrove/pkg/debug"
	"github.com/vanderheijden86/taskgrove/pkg/model"
)

// Data is the payload an analyzer produces for one entity.
type Data struct {
	Metrics map[string]any
	Health  map[string]any
}

// Analyzer is the capability interface for external decoration sources.
// Implementations parse a single domain entity into metrics/health data.
// Parse may fail or panic; callers must treat it as untrusted.
type Analyzer interface {
	Parse(entity any) (Data, error)
}

// AnalyzerFunc adapts a plain function to the Analyzer interface.
type AnalyzerFunc func(entity any) (Data, error)

// Parse implements Analyzer.
func (f AnalyzerFunc) Parse(entity any) (Data, error) { return f(entity) }

// Registry holds analyzers keyed by entity kind. The zero value is usable
// and resolves everything through the built-in fallback.
type Registry struct {
	analyzers map[model.Kind]Analyzer
}

// NewRegistry returns an empty analyzer registry.
func NewRegistry() *Registry {
	return &Registry{analyzers: make(map[model.Kind]Analyzer)}
}

// Register installs an analyzer for a kind, replacing any previous one.
func (r *Registry) Register(kind model.Kind, a Analyzer) {
	if r.analyzers == nil {
		r.analyzers = make(map[model.Kind]Analyzer)
	}
	r.analyzers[kind] = a
}

// Lookup returns the analyzer registered for a kind, if any.
func (r *Registry) Lookup(kind model.Kind) (Analyzer, bool) {
	if r == nil || r.analyzers == nil {
		return nil, false
	}
	a, ok := r.analyzers[kind]
	return a, ok
}

// Resolve produces decoration data for an entity. It tries the registered
// analyzer for the kind first; if none is registered, or the analyzer
// returns an error or panics, it falls back to Extract. Resolve never
// fails and never propagates analyzer errors.
func (r *Registry) Resolve(entity any, kind model.Kind) Data {
	if a, ok := r.Lookup(kind); ok {
		if d, err := invoke(a, entity); err == nil {
			return d
		} else {
			debug.Log("analyzer for %s failed, using fallback: %v", kind, err)
		}
	}
	return Extract(entity, kind)
}

// invoke runs an analyzer with panic recovery. A panicking analyzer is
// reported as an ordinary error so Resolve can fall back.
func invoke(a Analyzer, entity any) (d Data, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("analyzer panic: %v", rec)
		}
	}()
	return a.Parse(entity)
}

// Extract is the minimal built-in decoration used when no analyzer is
// available. It derives simple counts and a coarse health level directly
// from the entity's own children and flags.
func Extract(entity any, kind model.Kind) Data {
	switch e := entity.(type) {
	case *model.Container:
		if e == nil {
			return Data{}
		}
		return Data{
			Metrics: map[string]any{
				"container_count":  len(e.Containers),
				"workstream_count": len(e.Workstreams),
			},
			Health: containerHealth(e),
		}
	case *model.Workstream:
		if e == nil {
			return Data{}
		}
		total, done := countTasks(e.Tasks)
		return Data{
			Metrics: map[string]any{
				"task_count":      total,
				"completed_count": done,
				"remaining_count": total - done,
			},
			Health: workstreamHealth(e, total, done),
		}
	case *model.Task:
		if e == nil {
			return Data{}
		}
		return Data{
			Metrics: map[string]any{
				"subtask_count": len(e.Subtasks),
			},
			Health: taskHealth(e),
		}
	}
	return Data{}
}

// countTasks counts tasks and completed tasks across the whole subtask
// hierarchy.
func countTasks(tasks []*model.Task) (total, done int) {
	for _, t := range tasks {
		if t == nil {
			continue
		}
		total++
		if t.Completed {
			done++
		}
		subTotal, subDone := countTasks(t.Subtasks)
		total += subTotal
		done += subDone
	}
	return total, done
}

func containerHealth(c *model.Container) map[string]any {
	level := "healthy"
	if c.Dropped {
		level = "dropped"
	} else if len(c.Containers) == 0 && len(c.Workstreams) == 0 {
		level = "empty"
	}
	return map[string]any{"level": level}
}

func workstreamHealth(w *model.Workstream, total, done int) map[string]any {
	level := "healthy"
	switch {
	case w.IsDropped():
		level = "dropped"
	case w.IsCompleted():
		level = "completed"
	case w.Status == model.StreamOnHold:
		level = "on_hold"
	case total == 0:
		level = "empty"
	case total > 0 && done == 0 && w.Flagged:
		level = "at_risk"
	}
	h := map[string]any{"level": level}
	if total > 0 {
		h["completion"] = float64(done) / float64(total)
	}
	return h
}

func taskHealth(t *model.Task) map[string]any {
	level := "open"
	switch {
	case t.Dropped:
		level = "dropped"
	case t.Completed:
		level = "completed"
	case t.Flagged:
		level = "flagged"
	}
	return map[string]any{"level": level}
}
