package decorate

import (
	"errors"
	"testing"

	"github.com/vanderheijden86/taskgrove/pkg/model"
)

func TestExtractContainer(t *testing.T) {
	c := &model.Container{
		ID:   "c-1",
		Name: "Work",
		Containers: []*model.Container{
			{ID: "c-sub", Name: "Sub"},
		},
		Workstreams: []*model.Workstream{
			{ID: "w-1", Name: "Platform"},
			{ID: "w-2", Name: "Infra"},
		},
	}

	d := Extract(c, model.KindContainer)
	if got := d.Metrics["container_count"]; got != 1 {
		t.Errorf("container_count = %v, want 1", got)
	}
	if got := d.Metrics["workstream_count"]; got != 2 {
		t.Errorf("workstream_count = %v, want 2", got)
	}
	if got := d.Health["level"]; got != "healthy" {
		t.Errorf("level = %v, want healthy", got)
	}
}

func TestExtractContainerHealthLevels(t *testing.T) {
	empty := &model.Container{ID: "c-e", Name: "Empty"}
	if got := Extract(empty, model.KindContainer).Health["level"]; got != "empty" {
		t.Errorf("empty container level = %v", got)
	}

	dropped := &model.Container{ID: "c-d", Name: "Old", Dropped: true}
	if got := Extract(dropped, model.KindContainer).Health["level"]; got != "dropped" {
		t.Errorf("dropped container level = %v", got)
	}
}

func TestExtractWorkstreamCountsNestedSubtasks(t *testing.T) {
	w := &model.Workstream{
		ID: "w-1", Name: "Platform", Status: model.StreamActive,
		Tasks: []*model.Task{
			{
				ID: "t-1", Name: "Migrate", Completed: true,
				Subtasks: []*model.Task{
					{ID: "t-1a", Name: "Inventory", Completed: true},
					{ID: "t-1b", Name: "Port"},
				},
			},
			{ID: "t-2", Name: "Document"},
		},
	}

	d := Extract(w, model.KindWorkstream)
	if got := d.Metrics["task_count"]; got != 4 {
		t.Errorf("task_count = %v, want 4", got)
	}
	if got := d.Metrics["completed_count"]; got != 2 {
		t.Errorf("completed_count = %v, want 2", got)
	}
	if got := d.Metrics["remaining_count"]; got != 2 {
		t.Errorf("remaining_count = %v, want 2", got)
	}
	if got := d.Health["completion"]; got != 0.5 {
		t.Errorf("completion = %v, want 0.5", got)
	}
}

func TestExtractTaskHealth(t *testing.T) {
	tests := []struct {
		name string
		task *model.Task
		want string
	}{
		{"open", &model.Task{ID: "t", Name: "T"}, "open"},
		{"completed", &model.Task{ID: "t", Name: "T", Completed: true}, "completed"},
		{"dropped wins over completed", &model.Task{ID: "t", Name: "T", Completed: true, Dropped: true}, "dropped"},
		{"flagged", &model.Task{ID: "t", Name: "T", Flagged: true}, "flagged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.task, model.KindTask).Health["level"]; got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractUnknownEntity(t *testing.T) {
	d := Extract("not an entity", model.KindTask)
	if d.Metrics != nil || d.Health != nil {
		t.Errorf("expected empty data for unknown entity, got %+v", d)
	}
}

func TestResolveUsesRegisteredAnalyzer(t *testing.T) {
	r := NewRegistry()
	r.Register(model.KindTask, AnalyzerFunc(func(entity any) (Data, error) {
		return Data{Metrics: map[string]any{"custom": 1}}, nil
	}))

	d := r.Resolve(&model.Task{ID: "t", Name: "T"}, model.KindTask)
	if got := d.Metrics["custom"]; got != 1 {
		t.Errorf("expected analyzer metrics, got %+v", d.Metrics)
	}
}

func TestResolveFallsBackOnError(t *testing.T) {
	r := NewRegistry()
	r.Register(model.KindTask, AnalyzerFunc(func(entity any) (Data, error) {
		return Data{}, errors.New("backend unavailable")
	}))

	d := r.Resolve(&model.Task{ID: "t", Name: "T", Flagged: true}, model.KindTask)
	if got := d.Health["level"]; got != "flagged" {
		t.Errorf("expected fallback health, got %+v", d.Health)
	}
}

func TestResolveFallsBackOnPanic(t *testing.T) {
	r := NewRegistry()
	r.Register(model.KindTask, AnalyzerFunc(func(entity any) (Data, error) {
		panic("analyzer blew up")
	}))

	d := r.Resolve(&model.Task{ID: "t", Name: "T"}, model.KindTask)
	if got := d.Metrics["subtask_count"]; got != 0 {
		t.Errorf("expected fallback metrics after panic, got %+v", d.Metrics)
	}
}

func TestResolveNilRegistry(t *testing.T) {
	var r *Registry
	d := r.Resolve(&model.Task{ID: "t", Name: "T"}, model.KindTask)
	if got := d.Health["level"]; got != "open" {
		t.Errorf("nil registry should use fallback, got %+v", d.Health)
	}
}

func TestZeroValueRegistry(t *testing.T) {
	var r Registry
	if _, ok := r.Lookup(model.KindTask); ok {
		t.Error("zero registry returned an analyzer")
	}
	r.Register(model.KindTask, AnalyzerFunc(func(any) (Data, error) {
		return Data{Metrics: map[string]any{"x": true}}, nil
	}))
	if _, ok := r.Lookup(model.KindTask); !ok {
		t.Error("Register on zero value did not take")
	}
}
