// Package model defines the domain graph for taskgrove: containers hold
// sub-containers and workstreams, workstreams hold tasks, and tasks nest
// to arbitrary depth via subtasks.
//
// The graph is a read-only snapshot for the duration of any build, query,
// or export call. Entities carry stable IDs that are unique across the
// whole snapshot.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the concrete type of a domain entity.
type Kind string

const (
	KindContainer  Kind = "container"
	KindWorkstream Kind = "workstream"
	KindTask       Kind = "task"
)

// Container is a top-level organizational grouping (folder-equivalent).
// Containers may hold sub-containers and workstreams.
type Container struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Note    string `json:"note,omitempty"`
	Dropped bool   `json:"dropped,omitempty"`

	// Children in insertion order. Order is preserved through tree
	// construction and export.
	Containers  []*Container  `json:"containers,omitempty"`
	Workstreams []*Workstream `json:"workstreams,omitempty"`
}

// WorkstreamStatus is the lifecycle state of a workstream.
type WorkstreamStatus string

const (
	StreamActive    WorkstreamStatus = "active"
	StreamOnHold    WorkstreamStatus = "on_hold"
	StreamCompleted WorkstreamStatus = "completed"
	StreamDropped   WorkstreamStatus = "dropped"
)

// Workstream is a goal-oriented grouping of tasks (project-equivalent).
type Workstream struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Note    string           `json:"note,omitempty"`
	Status  WorkstreamStatus `json:"status,omitempty"`
	Flagged bool             `json:"flagged,omitempty"`

	DueDate     *time.Time `json:"due_date,omitempty"`
	DeferDate   *time.Time `json:"defer_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Tasks []*Task `json:"tasks,omitempty"`
}

// Task is an actionable unit of work. Subtasks nest to arbitrary depth.
type Task struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Note      string `json:"note,omitempty"`
	Completed bool   `json:"completed,omitempty"`
	Dropped   bool   `json:"dropped,omitempty"`
	Flagged   bool   `json:"flagged,omitempty"`

	DueDate     *time.Time `json:"due_date,omitempty"`
	DeferDate   *time.Time `json:"defer_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Subtasks []*Task `json:"subtasks,omitempty"`
}

// Completed reports whether the workstream has been completed.
func (w *Workstream) IsCompleted() bool {
	return w.Status == StreamCompleted
}

// IsDropped reports whether the workstream has been dropped.
func (w *Workstream) IsDropped() bool {
	return w.Status == StreamDropped
}

// Validate checks that a container has the required identity fields.
func (c *Container) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("container missing id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("container %s missing name", c.ID)
	}
	return nil
}

// Validate checks that a workstream has the required identity fields.
func (w *Workstream) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("workstream missing id")
	}
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("workstream %s missing name", w.ID)
	}
	return nil
}

// Validate checks that a task has the required identity fields.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("task missing id")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task %s missing name", t.ID)
	}
	return nil
}

// EntityID returns the stable identifier of a domain entity, or false if the
// value is not one of the three entity kinds (or is nil).
func EntityID(entity any) (string, bool) {
	switch e := entity.(type) {
	case *Container:
		if e != nil {
			return e.ID, true
		}
	case *Workstream:
		if e != nil {
			return e.ID, true
		}
	case *Task:
		if e != nil {
			return e.ID, true
		}
	}
	return "", false
}

// EntityName returns the display name of a domain entity, or false if the
// value is not a known entity kind.
func EntityName(entity any) (string, bool) {
	switch e := entity.(type) {
	case *Container:
		if e != nil {
			return e.Name, true
		}
	case *Workstream:
		if e != nil {
			return e.Name, true
		}
	case *Task:
		if e != nil {
			return e.Name, true
		}
	}
	return "", false
}

// KindOf returns the Kind of a domain entity, or false for anything else.
func KindOf(entity any) (Kind, bool) {
	switch entity.(type) {
	case *Container:
		return KindContainer, true
	case *Workstream:
		return KindWorkstream, true
	case *Task:
		return KindTask, true
	}
	return "", false
}
