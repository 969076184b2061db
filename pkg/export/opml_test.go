package export

import (
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/taskgrove/pkg/model"
	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

func opmlFixture(t *testing.T, names ...string) *tree.Node {
	t.Helper()
	w := &model.Workstream{ID: "w-1", Name: "Stream", Status: model.StreamActive}
	for i, name := range names {
		w.Tasks = append(w.Tasks, &model.Task{ID: "t-" + string(rune('a'+i)), Name: name})
	}
	c := &model.Container{ID: "c-1", Name: "Box", Workstreams: []*model.Workstream{w}}
	root, err := tree.NewBuilder(nil).BuildFromRoots([]*model.Container{c}, tree.Options{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return root
}

func fixedNow() time.Time {
	return time.Date(2026, time.July, 4, 12, 0, 0, 0, time.UTC)
}

func TestToOPMLDocumentShape(t *testing.T) {
	root := opmlFixture(t, "First", "Second")
	out := ToOPML(root, OPMLOptions{Title: "My Grove", now: fixedNow})

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(out, `<opml version="2.0">`) {
		t.Error("missing opml element")
	}
	if !strings.Contains(out, "<title>My Grove</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "<dateCreated>Sat, 04 Jul 2026 12:00:00 +0000</dateCreated>") {
		t.Errorf("timestamp not emitted as RFC1123Z:\n%s", out)
	}

	// Root is not an element; the container is top-level inside body.
	if !strings.Contains(out, `    <outline text="Box" type="container" id="c-1" status="active">`) {
		t.Errorf("container element missing:\n%s", out)
	}
	// Leaf tasks are self-closing.
	if !strings.Contains(out, `<outline text="First" type="task" id="t-a" status="active"/>`) {
		t.Errorf("leaf element missing:\n%s", out)
	}
	if strings.Contains(out, `text="root"`) {
		t.Error("synthetic root leaked into the document")
	}
}

func TestToOPMLEscaping(t *testing.T) {
	root := opmlFixture(t, `Fix A & B <urgent>`)
	out := ToOPML(root, OPMLOptions{Title: "T", now: fixedNow})

	if !strings.Contains(out, `text="Fix A &amp; B &lt;urgent&gt;"`) {
		t.Errorf("special characters not escaped:\n%s", out)
	}
	if strings.Contains(out, "<urgent>") {
		t.Error("raw markup leaked into output")
	}
}

func TestToOPMLEscapesQuotesAndTitle(t *testing.T) {
	root := opmlFixture(t, `say "hi" & don't`)
	out := ToOPML(root, OPMLOptions{Title: `A & "B"`, now: fixedNow})

	if !strings.Contains(out, "<title>A &amp; &quot;B&quot;</title>") {
		t.Errorf("title not escaped:\n%s", out)
	}
	if !strings.Contains(out, `text="say &quot;hi&quot; &amp; don&apos;t"`) {
		t.Errorf("attribute quotes not escaped:\n%s", out)
	}
}

func TestToOPMLStatusAndFlags(t *testing.T) {
	w := &model.Workstream{ID: "w-1", Name: "Stream", Status: model.StreamActive, Tasks: []*model.Task{
		{ID: "t-done", Name: "Done", Completed: true},
		{ID: "t-gone", Name: "Gone", Dropped: true},
		{ID: "t-flag", Name: "Flag", Flagged: true},
	}}
	c := &model.Container{ID: "c-1", Name: "Box", Workstreams: []*model.Workstream{w}}
	root, err := tree.NewBuilder(nil).BuildFromRoots([]*model.Container{c}, tree.Options{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	out := ToOPML(root, OPMLOptions{now: fixedNow})
	if !strings.Contains(out, `id="t-done" status="completed"`) {
		t.Error("completed status missing")
	}
	if !strings.Contains(out, `id="t-gone" status="dropped"`) {
		t.Error("dropped status missing")
	}
	if !strings.Contains(out, `id="t-flag" status="active" flagged="true"`) {
		t.Error("flagged attribute missing")
	}
}

func TestToOPMLMetricAttributes(t *testing.T) {
	w := &model.Workstream{ID: "w-1", Name: "Stream", Status: model.StreamActive,
		Tasks: []*model.Task{{ID: "t-1", Name: "Task"}}}
	c := &model.Container{ID: "c-1", Name: "Box", Workstreams: []*model.Workstream{w}}
	root, err := tree.NewBuilder(nil).BuildFromRoots([]*model.Container{c}, tree.Options{Metrics: true})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	out := ToOPML(root, OPMLOptions{Metrics: true, now: fixedNow})
	if !strings.Contains(out, `metric-task_count="1"`) {
		t.Errorf("metric attribute missing:\n%s", out)
	}

	plain := ToOPML(root, OPMLOptions{Metrics: false, now: fixedNow})
	if strings.Contains(plain, "metric-") {
		t.Error("metric attributes present despite toggle off")
	}
}

func TestMetricAttrName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"task_count", "metric-task_count"},
		{"weird key!", "metric-weird_key_"},
		{"9lives", "metric-m_9lives"},
		{"", "metric-m_"},
	}
	for _, tt := range tests {
		if got := metricAttrName(tt.in); got != tt.want {
			t.Errorf("metricAttrName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeXMLProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		escaped := escapeXML(s)

		for _, raw := range []string{"<", ">", "\""} {
			if strings.Contains(escaped, raw) {
				rt.Fatalf("escaped output still contains %q: %q", raw, escaped)
			}
		}
		// Every ampersand must begin one of the five known entities.
		rest := escaped
		for {
			i := strings.Index(rest, "&")
			if i < 0 {
				break
			}
			rest = rest[i:]
			ok := false
			for _, ent := range []string{"&amp;", "&lt;", "&gt;", "&quot;", "&apos;"} {
				if strings.HasPrefix(rest, ent) {
					rest = rest[len(ent):]
					ok = true
					break
				}
			}
			if !ok {
				rt.Fatalf("bare ampersand in escaped output: %q", escaped)
			}
		}
	})
}
