package export

import (
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/taskgrove/pkg/model"
	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

// StructuredOptions configures the JSON document export.
type StructuredOptions struct {
	// Pretty indents the output with two spaces.
	Pretty bool

	// DomainRefIdentity adds the originating entity's bare identifier as
	// "domainRefId". The handle itself is never serialized.
	DomainRefIdentity bool
}

// DefaultStructuredOptions returns the standard structured export settings.
func DefaultStructuredOptions() StructuredOptions {
	return StructuredOptions{Pretty: true}
}

// structuredNode is the plain, serialization-safe record built per node.
// It deliberately omits DomainRef and any live UI handle; ParentID is nil
// for the root and a plain string everywhere else, so the document can
// never contain object-shaped back-references or cycles.
type structuredNode struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	NodeType    tree.NodeType     `json:"nodeType"`
	Depth       int               `json:"depth"`
	Path        []string          `json:"path"`
	ParentID    any               `json:"parentId"`
	Completed   bool              `json:"completed,omitempty"`
	Dropped     bool              `json:"dropped,omitempty"`
	Flagged     bool              `json:"flagged,omitempty"`
	DueDate     *time.Time        `json:"dueDate,omitempty"`
	Metrics     map[string]any    `json:"metrics,omitempty"`
	Health      map[string]any    `json:"health,omitempty"`
	UIState     *tree.UIState     `json:"uiState,omitempty"`
	DomainRefID string            `json:"domainRefId,omitempty"`
	Children    []*structuredNode `json:"children,omitempty"`
}

// ToStructured serializes a tree to a clean JSON document.
//
// Guaranteed not to fail for any tree reachable through the builder or
// window adapter: the record contains only plain values, and the acyclic
// tree invariant bounds the recursion.
func ToStructured(root *tree.Node, opts StructuredOptions) ([]byte, error) {
	rec := buildRecord(root, opts)
	if opts.Pretty {
		return json.MarshalIndent(rec, "", "  ")
	}
	return json.Marshal(rec)
}

func buildRecord(n *tree.Node, opts StructuredOptions) *structuredNode {
	if n == nil {
		return nil
	}
	rec := &structuredNode{
		ID:        n.ID,
		Name:      n.Name,
		NodeType:  n.Type,
		Depth:     n.Depth,
		Path:      n.Path,
		Completed: n.Completed,
		Dropped:   n.Dropped,
		Flagged:   n.Flagged,
		DueDate:   n.DueDate,
		Metrics:   n.Metrics,
		Health:    n.Health,
		UIState:   n.UI,
	}
	if n.Path == nil {
		rec.Path = []string{}
	}
	if n.ParentID != "" {
		rec.ParentID = n.ParentID
	}
	if opts.DomainRefIdentity {
		if id, ok := model.EntityID(n.DomainRef); ok {
			rec.DomainRefID = id
		}
	}
	for _, c := range n.Children {
		if child := buildRecord(c, opts); child != nil {
			rec.Children = append(rec.Children, child)
		}
	}
	return rec
}
