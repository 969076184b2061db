package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/taskgrove/pkg/decorate"
	"github.com/vanderheijden86/taskgrove/pkg/export"
	"github.com/vanderheijden86/taskgrove/pkg/model"
	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

// exportRequest carries everything one export run needs.
type exportRequest struct {
	format  string
	out     string
	title   string
	opts    tree.Options
	indent  string
	preview bool
	copy    bool
}

// buildTree constructs the decorated tree. A missing-entity error keeps the
// partial tree and is reported as a warning rather than aborting the run.
func buildTree(g *model.Graph, reg *decorate.Registry, opts tree.Options) (*tree.Node, error) {
	builder := tree.NewBuilder(reg)
	root, err := builder.BuildFromRoots(g.Roots, opts)
	if err != nil {
		var missing *tree.MissingEntityError
		if errors.As(err, &missing) && root != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v; continuing with partial tree\n", missing)
			return root, nil
		}
		return nil, err
	}
	return root, nil
}

// doExport renders one format and delivers it to the requested sink.
func doExport(root *tree.Node, req exportRequest) error {
	switch req.format {
	case "outline", "json", "opml", "":
		text, err := renderText(root, req)
		if err != nil {
			return err
		}
		return deliverText(text, req)

	case "sqlite":
		path := req.out
		if path == "" {
			path = "grove.db"
		}
		return export.SaveSQLite(root, path, export.SQLiteOptions{Title: req.title})

	case "svg", "png":
		path := req.out
		if path == "" {
			path = "grove." + req.format
		}
		return export.SaveSnapshot(root, export.SnapshotOptions{
			Path:   path,
			Format: req.format,
			Title:  req.title,
		})

	default:
		return fmt.Errorf("unknown export format %q", req.format)
	}
}

// renderText produces the text-format payload for outline, json, and opml.
func renderText(root *tree.Node, req exportRequest) (string, error) {
	switch req.format {
	case "json":
		data, err := export.ToStructured(root, export.StructuredOptions{Pretty: true})
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "opml":
		return export.ToOPML(root, export.OPMLOptions{
			Title:   req.title,
			Metrics: req.opts.Metrics,
		}), nil

	default: // outline
		opts := export.DefaultOutlineOptions()
		if req.indent != "" {
			opts.Indent = req.indent
		}
		opts.Metrics = req.opts.Metrics
		opts.Health = req.opts.Health
		return export.ToOutline(root, opts), nil
	}
}

// deliverText writes text output to its sink: file, clipboard, markdown
// preview, or plain stdout.
func deliverText(text string, req exportRequest) error {
	if req.out != "" {
		if err := os.WriteFile(req.out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", req.out, err)
		}
	}

	if req.copy {
		if err := clipboard.WriteAll(text); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: clipboard copy failed: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
		}
	}

	if req.out != "" {
		return nil
	}

	if req.preview && req.format != "json" && req.format != "opml" {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			if rendered, err := r.Render(text); err == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		// Fall through to plain output if the renderer is unavailable.
	}

	fmt.Print(text)
	return nil
}

// exportAll writes every format into dir concurrently. File names derive
// from the directory's base name.
func exportAll(root *tree.Node, dir string, req exportRequest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	base := "grove"
	var g errgroup.Group

	for _, format := range []string{"outline", "json", "opml", "sqlite", "svg", "png"} {
		ext := map[string]string{"outline": "md", "json": "json", "opml": "opml", "sqlite": "db"}[format]
		if ext == "" {
			ext = format
		}
		r := req
		r.format = format
		r.out = filepath.Join(dir, base+"."+ext)
		r.preview = false
		r.copy = false
		g.Go(func() error {
			if err := doExport(root, r); err != nil {
				return fmt.Errorf("%s export: %w", r.format, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported all formats to %s\n", dir)
	return nil
}
