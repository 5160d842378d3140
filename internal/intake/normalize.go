package intake

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/claimgate/internal/llm"
	"github.com/ppiankov/claimgate/internal/model"
)

// imagePrompt instructs the vision model to transcribe every claim-relevant
// detail it can find.
const imagePrompt = `Extract all insurance claim information from this image including:
- Patient/Member details (name, ID)
- Doctor information (name, registration number)
- Diagnosis and medical conditions
- Medicines prescribed
- Bill amounts (consultation, tests, medicines)
- Treatment dates
- Any other relevant claim details

Provide a detailed text description of all information found.`

// Normalizer converts any claim input into a single descriptive text blob.
// Text passes through untouched; images go through the vision model; PDFs
// are read page by page.
type Normalizer struct {
	client llm.Client
	pdf    PageExtractor
}

// NewNormalizer creates a new document normalizer. A nil pdf extractor is a
// deployment defect: normalization of PDF input will fail immediately rather
// than degrade.
func NewNormalizer(client llm.Client, pdf PageExtractor) *Normalizer {
	return &Normalizer{
		client: client,
		pdf:    pdf,
	}
}

// Normalize turns a claim reference into descriptive text, returning the
// text along with the detected input type.
func (n *Normalizer) Normalize(ctx context.Context, reference string) (string, model.InputType, error) {
	inputType := DetectInputType(reference)

	switch inputType {
	case model.InputImage:
		fmt.Fprintf(os.Stderr, "[intake] processing image: %s\n", reference)
		text, err := n.describeImage(ctx, reference)
		if err != nil {
			return "", inputType, fmt.Errorf("image normalization: %w", err)
		}
		return text, inputType, nil

	case model.InputPDF:
		fmt.Fprintf(os.Stderr, "[intake] processing PDF: %s\n", reference)
		if n.pdf == nil {
			return "", inputType, fmt.Errorf("PDF support is not configured: no page extractor available")
		}
		pages, err := n.pdf.ExtractPages(reference)
		if err != nil {
			return "", inputType, fmt.Errorf("PDF normalization: %w", err)
		}
		return strings.Join(pages, "\n"), inputType, nil

	default:
		fmt.Fprintln(os.Stderr, "[intake] processing raw text")
		return reference, model.InputText, nil
	}
}

// describeImage encodes the image as a data URI and asks the vision model
// for a transcription.
func (n *Normalizer) describeImage(ctx context.Context, path string) (string, error) {
	dataURI, err := encodeImageDataURI(path)
	if err != nil {
		return "", err
	}

	return n.client.DescribeImage(ctx, llm.VisionRequest{
		Prompt:   imagePrompt,
		ImageURL: dataURI,
	})
}

// encodeImageDataURI reads an image file and encodes it as a base64 data URI
func encodeImageDataURI(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw)), nil
}
