package intake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/claimgate/internal/model"
)

func TestDetectInputType_MissingFileIsText(t *testing.T) {
	refs := []string{
		"Consultation with Dr. Rao on 2026-01-15, billed $120",
		"no/such/path/claim.pdf",
		"",
	}

	for _, ref := range refs {
		if got := DetectInputType(ref); got != model.InputText {
			t.Errorf("DetectInputType(%q) = %q, want %q", ref, got, model.InputText)
		}
	}
}

func TestDetectInputType_ByExtension(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		want model.InputType
	}{
		{"claim.jpg", model.InputImage},
		{"claim.JPEG", model.InputImage},
		{"claim.png", model.InputImage},
		{"claim.gif", model.InputImage},
		{"claim.bmp", model.InputImage},
		{"claim.webp", model.InputImage},
		{"claim.pdf", model.InputPDF},
		{"claim.PDF", model.InputPDF},
		{"claim.txt", model.InputText},
		{"claim.docx", model.InputText},
		{"claim", model.InputText},
	}

	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
			t.Fatalf("write %s: %v", tt.name, err)
		}

		if got := DetectInputType(path); got != tt.want {
			t.Errorf("DetectInputType(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
