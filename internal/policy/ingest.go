package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// IngestStats summarizes one corpus ingestion run.
type IngestStats struct {
	Documents int
	Clauses   int
	Failed    int
}

// IngestDir (re)populates the clause index from every .txt and .md file in
// dir. Documents are processed by a bounded pool of workers; a failure on
// one document does not stop the others.
func (s *Store) IngestDir(ctx context.Context, dir string, workers int) (IngestStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestStats{}, fmt.Errorf("read corpus dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".txt" || ext == ".md" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	var (
		mu    sync.Mutex
		stats IngestStats
		wg    sync.WaitGroup
		sem   = make(chan struct{}, workers)
	)

	for _, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			count, err := s.ingestFile(ctx, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(os.Stderr, "[ingest] %s: %v\n", filepath.Base(path), err)
				stats.Failed++
				return
			}
			stats.Documents++
			stats.Clauses += count
		}(path)
	}

	wg.Wait()
	return stats, nil
}

// ingestFile reads, chunks, and indexes a single policy document
func (s *Store) ingestFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}

	clauses := SplitClauses(string(raw))
	if len(clauses) == 0 {
		return 0, fmt.Errorf("no indexable content")
	}

	name := filepath.Base(path)
	if err := s.ReplaceDocument(ctx, name, clauses); err != nil {
		return 0, err
	}

	return len(clauses), nil
}

// SplitClauses chunks a policy document into clause-sized passages. Blank
// lines separate clauses; heading lines (markdown #, or "Section N...")
// set the section label carried by the clauses that follow.
func SplitClauses(text string) []Clause {
	var clauses []Clause
	var section string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(current, "\n"))
		current = nil
		if content != "" {
			clauses = append(clauses, Clause{Section: section, Content: content})
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}

		if heading := headingLabel(trimmed); heading != "" {
			flush()
			section = heading
			continue
		}

		current = append(current, trimmed)
	}
	flush()

	return clauses
}

// headingLabel extracts a section label from a heading line, or "" when the
// line is body text.
func headingLabel(line string) string {
	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(strings.TrimLeft(line, "# "))
	}

	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "section ") && len(line) < 80 {
		return line
	}

	return ""
}
