package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Export.Format != "outline" {
		t.Errorf("default format = %q", cfg.Export.Format)
	}
	if cfg.Export.Indent != "  " {
		t.Errorf("default indent = %q", cfg.Export.Indent)
	}
	if cfg.UI.Tree != "content" {
		t.Errorf("default tree = %q", cfg.UI.Tree)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Export.Format != "outline" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Groves = []Grove{{Name: "personal", Path: "/data/personal"}}
	cfg.Export.Format = "opml"
	cfg.Export.Metrics = true
	cfg.Export.MaxDepth = 4
	cfg.UI.HideDropped = true

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Export.Format != "opml" || !loaded.Export.Metrics || loaded.Export.MaxDepth != 4 {
		t.Errorf("export settings lost: %+v", loaded.Export)
	}
	if !loaded.UI.HideDropped {
		t.Error("ui settings lost")
	}
	if len(loaded.Groves) != 1 || loaded.Groves[0].Name != "personal" {
		t.Errorf("groves lost: %+v", loaded.Groves)
	}
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("groves: [not: closed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestFindGrove(t *testing.T) {
	cfg := Config{Groves: []Grove{
		{Name: "Personal", Path: "/a"},
		{Name: "work", Path: "/b"},
	}}

	if g := cfg.FindGrove("personal"); g == nil || g.Path != "/a" {
		t.Errorf("case-insensitive lookup failed: %+v", g)
	}
	if g := cfg.FindGrove("unknown"); g != nil {
		t.Errorf("expected nil for unknown grove, got %+v", g)
	}
}

func TestExpandHomeInGrovePaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("groves:\n  - name: personal\n    path: ~/groves/personal\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	want := filepath.Join(home, "groves", "personal")
	if cfg.Groves[0].Path != want {
		t.Errorf("path = %q, want %q", cfg.Groves[0].Path, want)
	}
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	if got := ConfigDir(); got != "/xdg/config/tg" {
		t.Errorf("ConfigDir = %s", got)
	}
	if got := DataDir(); got != "/xdg/data/tg" {
		t.Errorf("DataDir = %s", got)
	}
	if got := StateDir(); got != "/xdg/state/tg" {
		t.Errorf("StateDir = %s", got)
	}
	if got := ConfigPath(); got != "/xdg/config/tg/config.yaml" {
		t.Errorf("ConfigPath = %s", got)
	}
}
