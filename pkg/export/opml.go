package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

// OPMLOptions configures the OPML/XML outline export.
type OPMLOptions struct {
	Title   string
	Metrics bool // attach metric attributes per node

	// now overrides the generation timestamp in tests.
	now func() time.Time
}

// DefaultOPMLOptions returns the standard OPML settings.
func DefaultOPMLOptions(title string) OPMLOptions {
	return OPMLOptions{Title: title, Metrics: true}
}

// xmlEscaper escapes the five XML special characters. A single-pass
// replacer, so already-produced entities are never double-escaped within
// one call.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

// escapeXML escapes attribute text for safe insertion. Escaping every
// attribute value is a correctness requirement: unescaped input must never
// produce malformed XML or attribute injection.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// attrNameSanitizer strips characters that are not valid in an XML
// attribute name.
var attrNameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// ToOPML renders a tree as an OPML 2.0 outline.
//
// The synthetic root is not emitted as an element; each of its children
// becomes a top-level <outline>, nesting recursively. Every attribute
// value, including names and metric text, is XML-escaped.
func ToOPML(root *tree.Node, opts OPMLOptions) string {
	now := time.Now
	if opts.now != nil {
		now = opts.now
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<opml version="2.0">` + "\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(opts.Title))
	fmt.Fprintf(&sb, "    <dateCreated>%s</dateCreated>\n", escapeXML(now().Format(time.RFC1123Z)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")

	if root != nil {
		for _, c := range root.Children {
			writeOutlineElement(&sb, c, 2, opts)
		}
	}

	sb.WriteString("  </body>\n")
	sb.WriteString("</opml>\n")
	return sb.String()
}

func writeOutlineElement(sb *strings.Builder, n *tree.Node, level int, opts OPMLOptions) {
	if n == nil {
		return
	}
	pad := strings.Repeat("  ", level)

	fmt.Fprintf(sb, `%s<outline text="%s" type="%s" id="%s" status="%s"`,
		pad, escapeXML(n.Name), escapeXML(string(n.Type)), escapeXML(n.ID), nodeStatus(n))
	if n.Flagged {
		sb.WriteString(` flagged="true"`)
	}
	if opts.Metrics && len(n.Metrics) > 0 {
		keys := make([]string, 0, len(n.Metrics))
		for k := range n.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(sb, ` %s="%s"`, metricAttrName(k), escapeXML(formatValue(n.Metrics[k])))
		}
	}

	if len(n.Children) == 0 {
		sb.WriteString("/>\n")
		return
	}
	sb.WriteString(">\n")
	for _, c := range n.Children {
		writeOutlineElement(sb, c, level+1, opts)
	}
	fmt.Fprintf(sb, "%s</outline>\n", pad)
}

func nodeStatus(n *tree.Node) string {
	switch {
	case n.Dropped:
		return "dropped"
	case n.Completed:
		return "completed"
	}
	return "active"
}

// metricAttrName turns a metric key into a valid XML attribute name.
func metricAttrName(key string) string {
	clean := attrNameSanitizer.ReplaceAllString(key, "_")
	if clean == "" || !isLetter(rune(clean[0])) {
		clean = "m_" + clean
	}
	return "metric-" + clean
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
