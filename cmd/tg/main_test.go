package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/taskgrove/pkg/loader"
	"github.com/vanderheijden86/taskgrove/pkg/model"
	"github.com/vanderheijden86/taskgrove/pkg/testutil"
	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

func TestExcludeDropped(t *testing.T) {
	tests := []struct {
		name   string
		entity any
		want   bool
	}{
		{"live container", &model.Container{ID: "c", Name: "C"}, true},
		{"dropped container", &model.Container{ID: "c", Name: "C", Dropped: true}, false},
		{"live workstream", &model.Workstream{ID: "w", Name: "W", Status: model.StreamActive}, true},
		{"dropped workstream", &model.Workstream{ID: "w", Name: "W", Status: model.StreamDropped}, false},
		{"completed workstream", &model.Workstream{ID: "w", Name: "W", Status: model.StreamCompleted}, true},
		{"dropped task", &model.Task{ID: "t", Name: "T", Dropped: true}, false},
		{"non-entity", "something", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _ := model.KindOf(tt.entity)
			if got := excludeDropped(tt.entity, kind); got != tt.want {
				t.Errorf("excludeDropped = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDataPathExplicit(t *testing.T) {
	path, err := resolveDataPath("/explicit/grove.jsonl")
	if err != nil {
		t.Fatalf("resolveDataPath failed: %v", err)
	}
	if path != "/explicit/grove.jsonl" {
		t.Errorf("path = %s", path)
	}
}

func TestResolveDataPathDiscovery(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "grove.jsonl"), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(loader.DataDirEnvVar, dir)

	path, err := resolveDataPath("")
	if err != nil {
		t.Fatalf("resolveDataPath failed: %v", err)
	}
	if filepath.Base(path) != "grove.jsonl" {
		t.Errorf("path = %s", path)
	}
}

func TestRenderTextFormats(t *testing.T) {
	root, err := tree.NewBuilder(nil).BuildFromRoots(testutil.SampleGraph().Roots, tree.DefaultOptions())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	outline, err := renderText(root, exportRequest{format: "outline", opts: tree.DefaultOptions()})
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	if !strings.Contains(outline, "**Work** (container)") {
		t.Errorf("outline output wrong:\n%s", outline)
	}

	jsonOut, err := renderText(root, exportRequest{format: "json"})
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(jsonOut, `"nodeType": "container"`) {
		t.Errorf("json output wrong:\n%s", jsonOut)
	}

	opml, err := renderText(root, exportRequest{format: "opml", title: "T", opts: tree.DefaultOptions()})
	if err != nil {
		t.Fatalf("opml: %v", err)
	}
	if !strings.Contains(opml, `<opml version="2.0">`) {
		t.Errorf("opml output wrong:\n%s", opml)
	}
}

func TestDoExportUnknownFormat(t *testing.T) {
	root, _ := tree.NewBuilder(nil).BuildFromRoots(nil, tree.Options{})
	if err := doExport(root, exportRequest{format: "docx"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestExportAllWritesEveryFormat(t *testing.T) {
	root, err := tree.NewBuilder(nil).BuildFromRoots(testutil.SampleGraph().Roots, tree.DefaultOptions())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	dir := t.TempDir()
	if err := exportAll(root, dir, exportRequest{title: "T", opts: tree.DefaultOptions()}); err != nil {
		t.Fatalf("exportAll failed: %v", err)
	}

	for _, name := range []string{"grove.md", "grove.json", "grove.opml", "grove.db", "grove.svg", "grove.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
