package export

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/taskgrove/pkg/tree"
)

// SQLiteOptions configures the SQLite snapshot export.
type SQLiteOptions struct {
	Title string
}

// sqliteSchema holds the node table plus a small metadata table. The tree
// shape is recoverable from parent_id and position; decoration payloads
// are stored as JSON text for client-side querying.
const sqliteSchema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE nodes (
	id        TEXT PRIMARY KEY,
	parent_id TEXT,
	position  INTEGER NOT NULL,
	name      TEXT NOT NULL,
	node_type TEXT NOT NULL,
	depth     INTEGER NOT NULL,
	path      TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	dropped   INTEGER NOT NULL DEFAULT 0,
	flagged   INTEGER NOT NULL DEFAULT 0,
	due_date  TEXT,
	metrics   TEXT,
	health    TEXT
);

CREATE INDEX idx_nodes_parent ON nodes(parent_id, position);
CREATE INDEX idx_nodes_type ON nodes(node_type);
`

// SaveSQLite writes a tree snapshot to a SQLite database at path, replacing
// any existing file. The synthetic root is not stored; top-level nodes have
// a NULL parent_id.
func SaveSQLite(root *tree.Node, path string, opts SQLiteOptions) error {
	if root == nil {
		return fmt.Errorf("nil tree")
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stats := tree.Statistics(root)
	metaStmt, err := tx.Prepare(`INSERT INTO meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare meta insert: %w", err)
	}
	defer metaStmt.Close()

	meta := [][2]string{
		{"title", opts.Title},
		{"generated_at", time.Now().UTC().Format(time.RFC3339)},
		{"total_nodes", fmt.Sprintf("%d", stats.TotalNodes)},
		{"max_depth", fmt.Sprintf("%d", stats.MaxDepth)},
	}
	for _, kv := range meta {
		if _, err := metaStmt.Exec(kv[0], kv[1]); err != nil {
			return fmt.Errorf("insert meta %s: %w", kv[0], err)
		}
	}

	nodeStmt, err := tx.Prepare(`
		INSERT INTO nodes
			(id, parent_id, position, name, node_type, depth, path,
			 completed, dropped, flagged, due_date, metrics, health)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	// Positions are assigned per sibling list to preserve insertion order.
	position := make(map[string]int)
	var insertErr error
	tree.Traverse(root, func(n *tree.Node, _ int, parent *tree.Node) {
		if insertErr != nil || n.IsRoot() {
			return
		}
		var parentID any
		if parent != nil && !parent.IsRoot() {
			parentID = parent.ID
		}
		key := ""
		if parent != nil {
			key = parent.ID
		}
		pos := position[key]
		position[key] = pos + 1

		var due any
		if n.DueDate != nil {
			due = n.DueDate.UTC().Format(time.RFC3339)
		}

		metricsJSON, err := payloadJSON(n.Metrics)
		if err != nil {
			insertErr = fmt.Errorf("marshal metrics for %s: %w", n.ID, err)
			return
		}
		healthJSON, err := payloadJSON(n.Health)
		if err != nil {
			insertErr = fmt.Errorf("marshal health for %s: %w", n.ID, err)
			return
		}

		if _, err := nodeStmt.Exec(
			n.ID, parentID, pos, n.Name, string(n.Type), n.Depth,
			strings.Join(n.Path, "/"),
			boolInt(n.Completed), boolInt(n.Dropped), boolInt(n.Flagged),
			due, metricsJSON, healthJSON,
		); err != nil {
			insertErr = fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	})
	if insertErr != nil {
		return insertErr
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func payloadJSON(payload map[string]any) (any, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
