package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

// SnapshotOptions controls static tree snapshot export.
type SnapshotOptions struct {
	Path   string // output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive)
	Title  string // rendered in the summary header
}

// Layout constants for the snapshot image. Compact on purpose so even
// deep trees stay readable without pan/zoom.
const (
	snapRowH     = 22
	snapIndentW  = 24
	snapMarginX  = 24
	snapHeaderH  = 72
	snapMinWidth = 560
)

var (
	snapBackdrop = color.RGBA{R: 0x1E, G: 0x1E, B: 0x2E, A: 0xFF}
	snapText     = color.RGBA{R: 0xE8, G: 0xE8, B: 0xF0, A: 0xFF}
	snapSubtle   = color.RGBA{R: 0x9A, G: 0x9A, B: 0xB0, A: 0xFF}
	snapDone     = color.RGBA{R: 0x6C, G: 0x8E, B: 0x6C, A: 0xFF}
	snapFlag     = color.RGBA{R: 0xD0, G: 0x87, B: 0x40, A: 0xFF}
)

type snapRow struct {
	label string
	depth int
	done  bool
	flag  bool
}

// SaveSnapshot renders a static tree snapshot (SVG or PNG).
func SaveSnapshot(root *tree.Node, opts SnapshotOptions) error {
	if root == nil {
		return fmt.Errorf("nil tree")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}

	rows := snapshotRows(root)
	width, height := snapshotSize(rows)

	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	if format == "svg" {
		return renderSVG(f, rows, width, height, opts, tree.Statistics(root))
	}
	return renderPNG(f, rows, width, height, opts, tree.Statistics(root))
}

func snapshotRows(root *tree.Node) []snapRow {
	var rows []snapRow
	tree.Traverse(root, func(n *tree.Node, depth int, _ *tree.Node) {
		if n.IsRoot() {
			return
		}
		rows = append(rows, snapRow{
			label: fmt.Sprintf("%s (%s)", n.Name, n.Type),
			depth: depth,
			done:  n.Completed,
			flag:  n.Flagged,
		})
	})
	return rows
}

func snapshotSize(rows []snapRow) (width, height int) {
	width = snapMinWidth
	for _, r := range rows {
		w := snapMarginX*2 + r.depth*snapIndentW + 7*len(r.label)
		if w > width {
			width = w
		}
	}
	height = snapHeaderH + len(rows)*snapRowH + snapRowH
	return width, height
}

func renderSVG(w io.Writer, rows []snapRow, width, height int, opts SnapshotOptions, stats tree.Stats) error {
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+cssColor(snapBackdrop))

	canvas.Text(snapMarginX, 30, opts.Title,
		"fill:"+cssColor(snapText)+";font-size:16px;font-family:monospace;font-weight:bold")
	canvas.Text(snapMarginX, 52, summaryLine(stats),
		"fill:"+cssColor(snapSubtle)+";font-size:12px;font-family:monospace")

	for i, r := range rows {
		x := snapMarginX + r.depth*snapIndentW
		y := snapHeaderH + i*snapRowH + 14
		fill := snapText
		switch {
		case r.done:
			fill = snapDone
		case r.flag:
			fill = snapFlag
		}
		canvas.Text(x, y, "• "+r.label,
			"fill:"+cssColor(fill)+";font-size:13px;font-family:monospace")
	}

	canvas.End()
	return nil
}

func renderPNG(w io.Writer, rows []snapRow, width, height int, opts SnapshotOptions, stats tree.Stats) error {
	dc := gg.NewContext(width, height)
	dc.SetColor(snapBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(snapText)
	dc.DrawString(opts.Title, snapMarginX, 30)
	dc.SetColor(snapSubtle)
	dc.DrawString(summaryLine(stats), snapMarginX, 52)

	for i, r := range rows {
		x := float64(snapMarginX + r.depth*snapIndentW)
		y := float64(snapHeaderH + i*snapRowH + 14)
		switch {
		case r.done:
			dc.SetColor(snapDone)
		case r.flag:
			dc.SetColor(snapFlag)
		default:
			dc.SetColor(snapText)
		}
		dc.DrawString("- "+r.label, x, y)
	}

	return dc.EncodePNG(w)
}

func summaryLine(stats tree.Stats) string {
	return fmt.Sprintf("nodes: %d  containers: %d  workstreams: %d  tasks: %d  depth: %d",
		stats.TotalNodes, stats.ContainerCount, stats.WorkstreamCount, stats.TaskCount, stats.MaxDepth)
}

func cssColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
