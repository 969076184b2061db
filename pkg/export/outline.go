// Package export serializes derived trees into human-readable and
// machine-readable formats: markdown outline, structured JSON, OPML, a
// SQLite snapshot, and static SVG/PNG images.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

// OutlineOptions configures the text outline export.
type OutlineOptions struct {
	Indent  string // repeated once per depth level; default two spaces
	Metrics bool   // render metrics as an italic follow-up line
	Health  bool   // render health as an italic follow-up line
	Icons   bool   // prefix each entry with a type icon
}

// DefaultOutlineOptions returns the standard outline settings.
func DefaultOutlineOptions() OutlineOptions {
	return OutlineOptions{Indent: "  ", Metrics: true, Health: true}
}

// ToOutline renders a tree as an indented markdown outline.
//
// One line per non-root node: indentation by depth, a bullet, the bold
// name, a type annotation, and for tasks a completion/flag marker.
// Decoration payloads follow as italic lines one level deeper. No escaping
// is performed; the output is for direct human reading, not round-tripping.
func ToOutline(root *tree.Node, opts OutlineOptions) string {
	if opts.Indent == "" {
		opts.Indent = "  "
	}

	var sb strings.Builder
	tree.Traverse(root, func(n *tree.Node, depth int, _ *tree.Node) {
		if n.IsRoot() {
			return
		}
		pad := strings.Repeat(opts.Indent, depth)

		sb.WriteString(pad)
		sb.WriteString("- ")
		if opts.Icons {
			sb.WriteString(typeIcon(n.Type))
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "**%s** (%s)", n.Name, n.Type)
		if n.Type == tree.TypeTask {
			sb.WriteString(taskMarker(n))
		}
		sb.WriteString("\n")

		if opts.Metrics && len(n.Metrics) > 0 {
			fmt.Fprintf(&sb, "%s*%s*\n", pad+opts.Indent, renderPayload(n.Metrics))
		}
		if opts.Health && len(n.Health) > 0 {
			fmt.Fprintf(&sb, "%s*%s*\n", pad+opts.Indent, renderPayload(n.Health))
		}
	})
	return sb.String()
}

// taskMarker returns the completion/flag status marker for task lines.
func taskMarker(n *tree.Node) string {
	switch {
	case n.Dropped:
		return " ✗"
	case n.Completed:
		return " ✓"
	case n.Flagged:
		return " ⚑"
	}
	return ""
}

func typeIcon(t tree.NodeType) string {
	switch t {
	case tree.TypeContainer:
		return "📁"
	case tree.TypeWorkstream:
		return "🎯"
	case tree.TypeTask:
		return "📋"
	default:
		return "•"
	}
}

// renderPayload flattens a decoration payload to "key: value" pairs in
// sorted key order for deterministic output.
func renderPayload(payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, formatValue(payload[k])))
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.3f", x)
	case float32:
		return fmt.Sprintf("%.3f", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
