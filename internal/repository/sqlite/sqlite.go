package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"orbitview/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite serializes writers anyway and an in-memory
	// database exists only per connection.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		parent_id TEXT,
		director TEXT,
		link TEXT,
		ordinal INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
	CREATE INDEX IF NOT EXISTS idx_nodes_ordinal ON nodes(ordinal);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ListNodes returns every node in insertion order
func (r *Repository) ListNodes(ctx context.Context) ([]domain.Node, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+nodeColumns+` FROM nodes n ORDER BY n.ordinal, n.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.Node
	for rows.Next() {
		var row nodeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nodes: %w", err)
	}
	return nodes, nil
}

// GetNode retrieves a single node
func (r *Repository) GetNode(ctx context.Context, id string) (*domain.Node, error) {
	var row nodeRow
	err := r.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes n WHERE n.id = ?`, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	node := row.toDomain()
	return &node, nil
}

// UpsertNode inserts or updates a node. New nodes are appended after
// existing ones; updates keep their place.
func (r *Repository) UpsertNode(ctx context.Context, node *domain.Node) error {
	if err := node.Validate(); err != nil {
		return err
	}

	args := nodeInsertArgs(node, time.Now().UTC())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO nodes (id, name, parent_id, director, link, created_at, updated_at, ordinal)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(ordinal), -1) + 1 FROM nodes))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			parent_id = excluded.parent_id,
			director = excluded.director,
			link = excluded.link,
			updated_at = excluded.updated_at
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert node: %w", err)
	}
	return nil
}

// DeleteNode removes a node and everything below it
func (r *Repository) DeleteNode(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM nodes WHERE id = ?
			UNION
			SELECT n.id FROM nodes n JOIN subtree s ON n.parent_id = s.id
		)
		DELETE FROM nodes WHERE id IN (SELECT id FROM subtree)
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ImportNodes replaces all nodes with the provided snapshot
func (r *Repository) ImportNodes(ctx context.Context, nodes []domain.Node) error {
	for i := range nodes {
		if err := nodes[i].Validate(); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (id, name, parent_id, director, link, created_at, updated_at, ordinal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range nodes {
		args := append(nodeInsertArgs(&nodes[i], now), i)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", nodes[i].ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES ('last_import', ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, now.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store import timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LastImport returns when ImportNodes last succeeded
func (r *Repository) LastImport(ctx context.Context) (time.Time, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'last_import'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read last import: %w", err)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse last import: %w", err)
	}
	return t, true, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
