package policy

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitClauses(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Clause
	}{
		{
			name: "blank lines separate clauses",
			text: "First clause line one.\nFirst clause line two.\n\nSecond clause.",
			want: []Clause{
				{Content: "First clause line one.\nFirst clause line two."},
				{Content: "Second clause."},
			},
		},
		{
			name: "markdown heading sets section",
			text: "# Outpatient Benefits\n\nConsultations are covered.\n\nLab work is covered.",
			want: []Clause{
				{Section: "Outpatient Benefits", Content: "Consultations are covered."},
				{Section: "Outpatient Benefits", Content: "Lab work is covered."},
			},
		},
		{
			name: "section heading line",
			text: "Section 4.2 Outpatient\nConsultations are covered.",
			want: []Clause{
				{Section: "Section 4.2 Outpatient", Content: "Consultations are covered."},
			},
		},
		{
			name: "later heading replaces section",
			text: "# A\nclause a\n\n# B\nclause b",
			want: []Clause{
				{Section: "A", Content: "clause a"},
				{Section: "B", Content: "clause b"},
			},
		},
		{
			name: "whitespace only",
			text: "   \n\n\t\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitClauses(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitClauses() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHeadingLabel(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"# Benefits", "Benefits"},
		{"## Sub Benefits", "Sub Benefits"},
		{"Section 7.1 Pharmacy", "Section 7.1 Pharmacy"},
		{"section 7.1 pharmacy", "section 7.1 pharmacy"},
		{"The section of the plan that applies here is discussed at length below, in reference to the annex.", ""},
		{"Ordinary body text.", ""},
	}

	for _, tt := range tests {
		if got := headingLabel(tt.line); got != tt.want {
			t.Errorf("headingLabel(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestIngestDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"plan-a.md":  "# Coverage\n\nConsultations are covered.\n\nDental is excluded.",
		"plan-b.txt": "Pharmacy requires authorization.",
		"notes.json": `{"ignored": true}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	s := openTestStore(t)

	stats, err := s.IngestDir(context.Background(), dir, 2)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if stats.Documents != 2 {
		t.Errorf("Expected 2 documents, got %d", stats.Documents)
	}
	if stats.Clauses != 3 {
		t.Errorf("Expected 3 clauses, got %d", stats.Clauses)
	}
	if stats.Failed != 0 {
		t.Errorf("Expected no failures, got %d", stats.Failed)
	}

	passages, err := s.Retrieve(context.Background(), "pharmacy authorization")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(passages) == 0 || passages[0].Document != "plan-b.txt" {
		t.Errorf("Expected pharmacy clause from plan-b.txt, got %+v", passages)
	}
}

func TestIngestDir_EmptyFileCountedAsFailed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty.txt"), nil, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plan.txt"), []byte("Consultations covered."), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := openTestStore(t)

	stats, err := s.IngestDir(context.Background(), dir, 4)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if stats.Documents != 1 || stats.Failed != 1 {
		t.Errorf("Expected 1 document and 1 failure, got %+v", stats)
	}
}

func TestIngestDir_MissingDirFails(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.IngestDir(context.Background(), "no/such/dir", 1); err == nil {
		t.Fatal("Expected error for missing corpus directory")
	}
}
