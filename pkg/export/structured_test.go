package export_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/taskgrove/pkg/export"
	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

func TestToStructuredRoundTrips(t *testing.T) {
	root := sampleTree(t, tree.DefaultOptions())

	data, err := export.ToStructured(root, export.DefaultStructuredOptions())
	if err != nil {
		t.Fatalf("ToStructured failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc["id"] != tree.RootID {
		t.Errorf("root id = %v", doc["id"])
	}
	if doc["depth"] != float64(-1) {
		t.Errorf("root depth = %v, want -1", doc["depth"])
	}
	if doc["parentId"] != nil {
		t.Errorf("root parentId = %v, want null", doc["parentId"])
	}
	if path, ok := doc["path"].([]any); !ok || len(path) != 0 {
		t.Errorf("root path = %v, want []", doc["path"])
	}

	children, _ := doc["children"].([]any)
	if len(children) != 2 {
		t.Fatalf("expected 2 top-level children, got %d", len(children))
	}
	work, _ := children[0].(map[string]any)
	if work["name"] != "Work" || work["nodeType"] != "container" {
		t.Errorf("first child = %v", work)
	}
	if work["parentId"] != tree.RootID {
		t.Errorf("child parentId = %v, want %q", work["parentId"], tree.RootID)
	}
}

func TestToStructuredOmitsDomainRef(t *testing.T) {
	root := sampleTree(t, tree.DefaultOptions())

	data, err := export.ToStructured(root, export.StructuredOptions{})
	if err != nil {
		t.Fatalf("ToStructured failed: %v", err)
	}

	s := string(data)
	if strings.Contains(s, "domainRef") {
		t.Error("document leaks domain handles")
	}
	if strings.Contains(s, "DomainRef") {
		t.Error("document leaks the handle field name")
	}
}

func TestToStructuredDomainRefIdentity(t *testing.T) {
	root := sampleTree(t, tree.Options{})

	data, err := export.ToStructured(root, export.StructuredOptions{DomainRefIdentity: true})
	if err != nil {
		t.Fatalf("ToStructured failed: %v", err)
	}

	var doc struct {
		Children []struct {
			ID          string `json:"id"`
			DomainRefID string `json:"domainRefId"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Children[0].DomainRefID != doc.Children[0].ID {
		t.Errorf("domainRefId = %q, want %q", doc.Children[0].DomainRefID, doc.Children[0].ID)
	}
}

func TestToStructuredPretty(t *testing.T) {
	root := sampleTree(t, tree.Options{})

	pretty, err := export.ToStructured(root, export.StructuredOptions{Pretty: true})
	if err != nil {
		t.Fatalf("pretty: %v", err)
	}
	compact, err := export.ToStructured(root, export.StructuredOptions{})
	if err != nil {
		t.Fatalf("compact: %v", err)
	}

	if !strings.Contains(string(pretty), "\n  ") {
		t.Error("pretty output not indented")
	}
	if strings.Contains(string(compact), "\n") {
		t.Error("compact output contains newlines")
	}
}

func TestToStructuredCarriesDecorations(t *testing.T) {
	root := sampleTree(t, tree.DefaultOptions())

	data, err := export.ToStructured(root, export.StructuredOptions{})
	if err != nil {
		t.Fatalf("ToStructured failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"metrics"`) || !strings.Contains(s, `"task_count"`) {
		t.Error("metrics missing from document")
	}
	if !strings.Contains(s, `"health"`) {
		t.Error("health missing from document")
	}
}
