// Package loader reads taskgrove JSONL data files and assembles them into
// a domain graph.
//
// The on-disk format is one JSON record per line. Each record names its
// own kind ("container", "workstream", "task") and links to its parent by
// ID; the loader resolves the links and rebuilds the hierarchy in file
// order, so export output is stable across runs.
package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/taskgrove/pkg/model"
)

// DataDirEnvVar is the name of the environment variable for a custom data directory.
const DataDirEnvVar = "TG_DATA_DIR"

// PreferredJSONLNames defines the priority order for looking up data files.
var PreferredJSONLNames = []string{"grove.jsonl", "tasks.jsonl"}

// DefaultMaxBufferSize is the default maximum line size for the reader (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// GetDataDir returns the taskgrove data directory, respecting TG_DATA_DIR.
// Otherwise it falls back to .taskgrove in the given base path (or cwd if empty).
func GetDataDir(basePath string) (string, error) {
	if envDir := os.Getenv(DataDirEnvVar); envDir != "" {
		return envDir, nil
	}

	if basePath == "" {
		var err error
		basePath, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
	}

	return filepath.Join(basePath, ".taskgrove"), nil
}

// FindJSONLPath locates the data file in the given directory. Backup files
// and merge artifacts are skipped.
func FindJSONLPath(dataDir string) (string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return "", fmt.Errorf("failed to read data directory: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if strings.Contains(name, ".backup") ||
			strings.Contains(name, ".orig") ||
			strings.Contains(name, ".merge") {
			continue
		}
		candidates = append(candidates, name)
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no taskgrove JSONL file found in %s", dataDir)
	}

	for _, preferred := range PreferredJSONLNames {
		for _, name := range candidates {
			if name == preferred {
				path := filepath.Join(dataDir, name)
				if info, err := os.Stat(path); err == nil && info.Size() > 0 {
					return path, nil
				}
			}
		}
	}

	// Fall back to first non-empty candidate.
	for _, name := range candidates {
		path := filepath.Join(dataDir, name)
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return path, nil
		}
	}

	return filepath.Join(dataDir, candidates[0]), nil
}

// record is the on-disk shape of one JSONL line. Every entity kind shares
// this envelope; fields that do not apply to a kind are left empty.
type record struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Note     string `json:"note,omitempty"`
	ParentID string `json:"parent,omitempty"`

	Status      string     `json:"status,omitempty"`
	Completed   bool       `json:"completed,omitempty"`
	Dropped     bool       `json:"dropped,omitempty"`
	Flagged     bool       `json:"flagged,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	DeferDate   *time.Time `json:"defer_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ParseOptions configures the behavior of ParseGraph.
type ParseOptions struct {
	// WarningHandler is called with warning messages (e.g., malformed JSON).
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// BufferSize sets the maximum line size (in bytes) to read at once.
	// Lines longer than this are skipped with a warning.
	// If 0, uses DefaultMaxBufferSize (10MB).
	BufferSize int
}

// LoadGraph reads the graph from the taskgrove data directory.
// Respects TG_DATA_DIR, otherwise uses .taskgrove in basePath.
func LoadGraph(basePath string) (*model.Graph, error) {
	dataDir, err := GetDataDir(basePath)
	if err != nil {
		return nil, err
	}

	jsonlPath, err := FindJSONLPath(dataDir)
	if err != nil {
		return nil, err
	}

	return LoadGraphFromFile(jsonlPath)
}

// LoadGraphFromFile reads the graph directly from a specific JSONL file path.
func LoadGraphFromFile(path string) (*model.Graph, error) {
	return LoadGraphFromFileWithOptions(path, ParseOptions{})
}

// LoadGraphFromFileWithOptions reads the graph from a file with custom options.
func LoadGraphFromFileWithOptions(path string, opts ParseOptions) (*model.Graph, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no taskgrove data found at %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	return ParseGraphWithOptions(file, opts)
}

// ParseGraph parses JSONL content from a reader into a domain graph.
// Handles UTF-8 BOM stripping, over-long lines, and validation.
func ParseGraph(r io.Reader) (*model.Graph, error) {
	return ParseGraphWithOptions(r, ParseOptions{})
}

// ParseGraphWithOptions parses JSONL content with custom options.
func ParseGraphWithOptions(r io.Reader, opts ParseOptions) (*model.Graph, error) {
	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}

	reader := bufio.NewReaderSize(r, maxCapacity)

	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}

	asm := newAssembler(warn)

	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading data stream at line %d: %w", lineNum, err)
		}

		if isPrefix {
			// Line too long. Discard the rest of the line.
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err != nil && err != io.EOF {
					return nil, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
				}
				if err == io.EOF {
					break
				}
			}
			continue
		}

		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}

		if err := asm.add(&rec); err != nil {
			warn(fmt.Sprintf("skipping invalid record on line %d: %v", lineNum, err))
		}
	}

	return asm.graph(), nil
}

// assembler links flat records into the container/workstream/task hierarchy.
// Records must appear after their parent; forward references are reported as
// warnings and the orphan record is dropped.
type assembler struct {
	warn func(string)

	roots       []*model.Container
	containers  map[string]*model.Container
	workstreams map[string]*model.Workstream
	tasks       map[string]*model.Task
}

func newAssembler(warn func(string)) *assembler {
	return &assembler{
		warn:        warn,
		containers:  make(map[string]*model.Container),
		workstreams: make(map[string]*model.Workstream),
		tasks:       make(map[string]*model.Task),
	}
}

func (a *assembler) add(rec *record) error {
	switch rec.Kind {
	case "container":
		return a.addContainer(rec)
	case "workstream":
		return a.addWorkstream(rec)
	case "task":
		return a.addTask(rec)
	case "":
		return fmt.Errorf("record %q has no kind", rec.ID)
	default:
		return fmt.Errorf("record %q has unknown kind %q", rec.ID, rec.Kind)
	}
}

func (a *assembler) addContainer(rec *record) error {
	c := &model.Container{
		ID:      rec.ID,
		Name:    rec.Name,
		Note:    rec.Note,
		Dropped: rec.Dropped,
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if _, dup := a.containers[c.ID]; dup {
		return fmt.Errorf("duplicate container id %q", c.ID)
	}

	if rec.ParentID == "" {
		a.roots = append(a.roots, c)
	} else {
		parent, ok := a.containers[rec.ParentID]
		if !ok {
			return fmt.Errorf("container %q references unknown parent %q", c.ID, rec.ParentID)
		}
		parent.Containers = append(parent.Containers, c)
	}
	a.containers[c.ID] = c
	return nil
}

func (a *assembler) addWorkstream(rec *record) error {
	w := &model.Workstream{
		ID:          rec.ID,
		Name:        rec.Name,
		Note:        rec.Note,
		Status:      normalizeStatus(rec.Status),
		Flagged:     rec.Flagged,
		DueDate:     rec.DueDate,
		DeferDate:   rec.DeferDate,
		CompletedAt: rec.CompletedAt,
	}
	if err := w.Validate(); err != nil {
		return err
	}
	if _, dup := a.workstreams[w.ID]; dup {
		return fmt.Errorf("duplicate workstream id %q", w.ID)
	}

	parent, ok := a.containers[rec.ParentID]
	if !ok {
		return fmt.Errorf("workstream %q references unknown container %q", w.ID, rec.ParentID)
	}
	parent.Workstreams = append(parent.Workstreams, w)
	a.workstreams[w.ID] = w
	return nil
}

func (a *assembler) addTask(rec *record) error {
	t := &model.Task{
		ID:          rec.ID,
		Name:        rec.Name,
		Note:        rec.Note,
		Completed:   rec.Completed,
		Dropped:     rec.Dropped,
		Flagged:     rec.Flagged,
		DueDate:     rec.DueDate,
		DeferDate:   rec.DeferDate,
		CompletedAt: rec.CompletedAt,
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if _, dup := a.tasks[t.ID]; dup {
		return fmt.Errorf("duplicate task id %q", t.ID)
	}

	// A task hangs off a workstream, or off another task as a subtask.
	if w, ok := a.workstreams[rec.ParentID]; ok {
		w.Tasks = append(w.Tasks, t)
	} else if p, ok := a.tasks[rec.ParentID]; ok {
		p.Subtasks = append(p.Subtasks, t)
	} else {
		return fmt.Errorf("task %q references unknown parent %q", t.ID, rec.ParentID)
	}
	a.tasks[t.ID] = t
	return nil
}

func (a *assembler) graph() *model.Graph {
	return model.NewGraph(a.roots)
}

// stripBOM removes the UTF-8 Byte Order Mark if present.
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}

func normalizeStatus(status string) model.WorkstreamStatus {
	trimmed := strings.TrimSpace(status)
	if trimmed == "" {
		return model.StreamActive
	}
	return model.WorkstreamStatus(strings.ToLower(trimmed))
}
