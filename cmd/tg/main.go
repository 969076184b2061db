package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/taskgrove/pkg/config"
	"github.com/vanderheijden86/taskgrove/pkg/decorate"
	"github.com/vanderheijden86/taskgrove/pkg/loader"
	"github.com/vanderheijden86/taskgrove/pkg/model"
	"github.com/vanderheijden86/taskgrove/pkg/tree"
	"github.com/vanderheijden86/taskgrove/pkg/ui"
	"github.com/vanderheijden86/taskgrove/pkg/version"
	"github.com/vanderheijden86/taskgrove/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dataPath := flag.String("data", "", "Path to a taskgrove JSONL file (default: auto-discover)")
	format := flag.String("format", "", "Export format: outline, json, opml, sqlite, svg, png")
	out := flag.String("out", "", "Output path (default: stdout for text formats)")
	allDir := flag.String("all", "", "Export every format into the given directory")
	title := flag.String("title", "taskgrove", "Document title for OPML/SQLite/snapshot exports")
	maxDepth := flag.Int("max-depth", 0, "Truncate the tree below this depth (0 = unlimited)")
	noMetrics := flag.Bool("no-metrics", false, "Omit metric decorations")
	noHealth := flag.Bool("no-health", false, "Omit health decorations")
	hideDropped := flag.Bool("hide-dropped", false, "Prune dropped entities and their subtrees")
	importance := flag.Bool("importance", false, "Add graph-rank importance scores to metrics")
	browse := flag.Bool("browse", false, "Open the interactive tree browser")
	watch := flag.Bool("watch", false, "Re-export (or reload the browser) when the data file changes")
	preview := flag.Bool("preview", false, "Render outline output through the terminal markdown renderer")
	copyFlag := flag.Bool("copy", false, "Copy text output to the system clipboard")
	flag.Parse()

	if *help {
		fmt.Println("Usage: tg [options]")
		fmt.Println("\nBuild, browse, and export hierarchical task trees.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("tg %s\n", version.Version)
		os.Exit(0)
	}

	appCfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		appCfg = config.DefaultConfig()
	}

	jsonlPath, err := resolveDataPath(*dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating taskgrove data: %v\n", err)
		os.Exit(1)
	}

	graph, err := loader.LoadGraphFromFile(jsonlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading taskgrove data: %v\n", err)
		os.Exit(1)
	}
	if len(graph.Roots) == 0 {
		fmt.Println("No containers found. Add records to your grove file first.")
		os.Exit(0)
	}

	reg := decorate.NewRegistry()
	if *importance {
		decorate.RegisterGraphRank(reg, graph)
	}

	opts := tree.Options{
		MaxDepth: *maxDepth,
		Metrics:  !*noMetrics,
		Health:   !*noHealth,
	}
	if *maxDepth == 0 && appCfg.Export.MaxDepth > 0 {
		opts.MaxDepth = appCfg.Export.MaxDepth
	}
	if *hideDropped || appCfg.UI.HideDropped {
		opts.Filter = excludeDropped
	}

	if *browse {
		if err := runBrowser(graph, reg, jsonlPath, *watch); err != nil {
			fmt.Fprintf(os.Stderr, "Error running tree browser: %v\n", err)
			os.Exit(1)
		}
		return
	}

	req := exportRequest{
		format:  *format,
		out:     *out,
		title:   *title,
		opts:    opts,
		indent:  appCfg.Export.Indent,
		preview: *preview,
		copy:    *copyFlag,
	}
	if req.format == "" {
		req.format = appCfg.Export.Format
		if interactive() && flag.NFlag() == 0 {
			if err := runWizard(&req); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
	}

	run := func(g *model.Graph) error {
		root, err := buildTree(g, reg, opts)
		if err != nil {
			return err
		}
		if *allDir != "" {
			return exportAll(root, *allDir, req)
		}
		return doExport(root, req)
	}

	if err := run(graph); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *watch {
		if err := watchAndExport(jsonlPath, run); err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", jsonlPath, err)
			os.Exit(1)
		}
	}
}

// resolveDataPath finds the JSONL file, either explicitly or via the data
// directory conventions (TG_DATA_DIR, then ./.taskgrove).
func resolveDataPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	dataDir, err := loader.GetDataDir("")
	if err != nil {
		return "", err
	}
	return loader.FindJSONLPath(dataDir)
}

func excludeDropped(entity any, kind model.Kind) bool {
	switch e := entity.(type) {
	case *model.Container:
		return !e.Dropped
	case *model.Workstream:
		return !e.IsDropped()
	case *model.Task:
		return !e.Dropped
	}
	return true
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// runWizard asks for the export format and output path when tg is invoked
// bare on a terminal.
func runWizard(req *exportRequest) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Export format").
				Options(huh.NewOptions("outline", "json", "opml", "sqlite", "svg", "png")...).
				Value(&req.format),
			huh.NewInput().
				Title("Output path").
				Description("Leave empty to write text formats to stdout.").
				Value(&req.out),
		),
	)
	return form.Run()
}

// watchAndExport blocks, re-running the export whenever the data file
// changes, until interrupted.
func watchAndExport(path string, run func(*model.Graph) error) error {
	w, err := watcher.New(path)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	fmt.Fprintf(os.Stderr, "Watching %s for changes (ctrl-c to stop)\n", path)
	for {
		select {
		case <-sigCh:
			return nil
		case <-w.Changed():
			graph, err := loader.LoadGraphFromFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: reload failed: %v\n", err)
				continue
			}
			if err := run(graph); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: export failed: %v\n", err)
			}
		}
	}
}

// runBrowser launches the interactive tree view, optionally reloading it
// when the data file changes.
func runBrowser(graph *model.Graph, reg *decorate.Registry, path string, watchFile bool) error {
	m := ui.NewModel(graph, ui.DefaultTheme(lipgloss.DefaultRenderer()))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithoutSignalHandler())

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	if watchFile {
		w, err := watcher.New(path)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		go func() {
			for {
				select {
				case <-runDone:
					return
				case <-w.Changed():
					g, err := loader.LoadGraphFromFile(path)
					if err != nil {
						continue
					}
					p.Send(ui.ReloadMsg{Graph: g})
				}
			}
		}()
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
