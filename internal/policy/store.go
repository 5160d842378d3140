// Package policy persists policy-document clauses and serves relevance-ranked
// retrieval over them. The store is the read-only knowledge base behind the
// adjudication agent's policy lookups; ingestion is a separate, externally
// triggered operation.
package policy

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages the policy clause SQLite database.
type Store struct {
	db          *sql.DB
	maxPassages int
}

// Open opens or creates the policy index at path, creating the schema if it
// does not exist.
func Open(path string, maxPassages int) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open policy index: %w", err)
	}

	if maxPassages <= 0 {
		maxPassages = 4
	}

	s := &Store{
		db:          db,
		maxPassages: maxPassages,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			ingested_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS clauses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			section TEXT,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clauses_document ON clauses(document_id)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS clauses_fts USING fts5(
			content,
			section,
			content='clauses',
			content_rowid='id'
		)`,
		`CREATE TRIGGER IF NOT EXISTS clauses_ai AFTER INSERT ON clauses BEGIN
			INSERT INTO clauses_fts(rowid, content, section)
			VALUES (new.id, new.content, new.section);
		END`,
		`CREATE TRIGGER IF NOT EXISTS clauses_ad AFTER DELETE ON clauses BEGIN
			INSERT INTO clauses_fts(clauses_fts, rowid, content, section)
			VALUES ('delete', old.id, old.content, old.section);
		END`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// ReplaceDocument removes any previous version of the named document and
// indexes the given clauses in order.
func (s *Store) ReplaceDocument(ctx context.Context, name string, clauses []Clause) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM clauses WHERE document_id IN (SELECT id FROM documents WHERE name = ?)`, name); err != nil {
		return fmt.Errorf("delete old clauses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete old document: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (name, ingested_at) VALUES (?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("document id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO clauses (document_id, seq, section, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare clause insert: %w", err)
	}
	defer stmt.Close()

	for i, clause := range clauses {
		if _, err := stmt.ExecContext(ctx, docID, i, clause.Section, clause.Content); err != nil {
			return fmt.Errorf("insert clause %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Stats reports index size.
type Stats struct {
	Documents int
	Clauses   int
}

// Stats counts indexed documents and clauses.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&st.Documents); err != nil {
		return st, fmt.Errorf("count documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clauses`).Scan(&st.Clauses); err != nil {
		return st, fmt.Errorf("count clauses: %w", err)
	}
	return st, nil
}
