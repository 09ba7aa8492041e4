package index

import (
	"fmt"
	"time"
)

// EntryRow represents one indexed content entity. Ref is "<kind>/<id>"
// for collection entities and "profile" for the singleton.
type EntryRow struct {
	Ref       string
	Kind      string
	Title     string
	Body      string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Ref     string `json:"ref"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertEntry inserts or replaces an entry and its FTS row in a transaction.
func (db *DB) UpsertEntry(e EntryRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO entries (ref, kind, title, body, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(ref) DO UPDATE SET
			kind       = excluded.kind,
			title      = excluded.title,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, e.Ref, e.Kind, e.Title, e.Body, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert entry: %w", err)
	}

	if err := ftsUpsert(tx, e.Ref, e.Kind, e.Title, e.Body); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteEntry removes an entry and its FTS row.
func (db *DB) DeleteEntry(ref string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, ref)
	_, _ = tx.Exec(`DELETE FROM entries WHERE ref = ?`, ref)
	return tx.Commit()
}

// DeleteKind removes every entry of one kind, used when a whole collection
// is replaced.
func (db *DB) DeleteKind(kind string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.Query(`SELECT ref FROM entries WHERE kind = ?`, kind)
	if err != nil {
		return fmt.Errorf("index: select kind: %w", err)
	}
	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			rows.Close()
			return err
		}
		refs = append(refs, ref)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, ref := range refs {
		ftsDelete(tx, ref)
	}
	_, _ = tx.Exec(`DELETE FROM entries WHERE kind = ?`, kind)
	return tx.Commit()
}

// AllRefs returns every indexed ref.
func (db *DB) AllRefs() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT ref FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("index: all refs: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		out[ref] = struct{}{}
	}
	return out, rows.Err()
}
