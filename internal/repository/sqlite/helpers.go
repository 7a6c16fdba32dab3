package sqlite

import (
	"database/sql"
	"time"

	"orbitview/internal/domain"
)

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// To add a column to the nodes table:
// 1. Add the field to nodeRow
// 2. APPEND it to scanArgs() and nodeColumns in the same position
// 3. Map it in toDomain() and nodeInsertArgs()
// 4. Add a migration step in migrate()
//
// Column order must match between nodeColumns and scanArgs().

// nodeRow holds all columns from a node query for scanning
type nodeRow struct {
	ID         string
	Name       string
	ParentID   sql.NullString
	Director   sql.NullString
	Link       sql.NullString
	ChildCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match nodeColumns order exactly:
// id, name, parent_id, director, link, child_count, created_at, updated_at
func (r *nodeRow) scanArgs() []any {
	return []any{
		&r.ID,         // 1
		&r.Name,       // 2
		&r.ParentID,   // 3
		&r.Director,   // 4
		&r.Link,       // 5
		&r.ChildCount, // 6
		&r.CreatedAt,  // 7
		&r.UpdatedAt,  // 8
	}
}

// toDomain converts the scanned row to a domain.Node
func (r *nodeRow) toDomain() domain.Node {
	return domain.Node{
		ID:         r.ID,
		Name:       r.Name,
		ParentID:   nullToString(r.ParentID),
		Director:   nullToString(r.Director),
		Link:       nullToString(r.Link),
		ChildCount: r.ChildCount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// nodeColumns is the SELECT column list for node queries. child_count
// is derived, never stored.
const nodeColumns = `n.id, n.name, n.parent_id, n.director, n.link,
	(SELECT COUNT(*) FROM nodes c WHERE c.parent_id = n.id) AS child_count,
	n.created_at, n.updated_at`

// nodeInsertArgs prepares arguments for node INSERT/UPSERT
// Returns: id, name, parent_id, director, link, created_at, updated_at
func nodeInsertArgs(node *domain.Node, now time.Time) []any {
	created := node.CreatedAt
	if created.IsZero() {
		created = now
	}
	return []any{
		node.ID,
		node.Name,
		stringToNull(node.ParentID),
		stringToNull(node.Director),
		stringToNull(node.Link),
		created,
		now,
	}
}
