package policy

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Passage is one policy excerpt returned by retrieval, ordered by relevance.
type Passage struct {
	Content  string  `json:"content"`
	Document string  `json:"document"`
	Section  string  `json:"section,omitempty"`
	Rank     float64 `json:"rank"`
}

// Clause is one indexable unit of a policy document.
type Clause struct {
	Section string
	Content string
}

// Retriever returns relevance-ranked policy passages for a query. Each call
// is independent, idempotent, and read-only.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Passage, error)
}

// Retrieve runs a full-text search over the clause index and returns the
// top passages by FTS5 rank.
func (s *Store) Retrieve(ctx context.Context, query string) ([]Passage, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.content, c.section, d.name, clauses_fts.rank
		FROM clauses_fts
		JOIN clauses c ON c.id = clauses_fts.rowid
		JOIN documents d ON d.id = c.document_id
		WHERE clauses_fts MATCH ?
		ORDER BY clauses_fts.rank
		LIMIT ?`,
		match, s.maxPassages)
	if err != nil {
		return nil, fmt.Errorf("query policy index: %w", err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		var section *string
		if err := rows.Scan(&p.Content, &section, &p.Document, &p.Rank); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		if section != nil {
			p.Section = *section
		}
		passages = append(passages, p)
	}

	return passages, rows.Err()
}

// buildMatchQuery converts free text into an FTS5 OR-query over its word
// tokens. Quoting each token keeps FTS5 operators in user text inert.
func buildMatchQuery(query string) string {
	tokens := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var quoted []string
	seen := make(map[string]bool)
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if len(lower) < 2 || seen[lower] {
			continue
		}
		seen[lower] = true
		quoted = append(quoted, `"`+lower+`"`)
	}

	return strings.Join(quoted, " OR ")
}

// JoinPassages concatenates passage contents in relevance order, the shape
// handed to the adjudication agent's tool call.
func JoinPassages(passages []Passage) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, p.Content)
	}
	return strings.Join(parts, "\n")
}
