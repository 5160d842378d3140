package intake

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageExtractor extracts text from a PDF, one string per page in page order.
// Abstracted so tests can substitute a fake and so the extraction backend
// can be swapped without touching the normalizer.
type PageExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// PDFReader implements PageExtractor with an in-process PDF parser.
type PDFReader struct{}

// NewPDFReader creates a new PDF page extractor
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

// ExtractPages reads every page of the PDF in order
func (r *PDFReader) ExtractPages(path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return pages, nil
}
