// Package intake turns raw claim submissions — text, scanned images, or
// PDFs — into a normalized claim description plus a structured record.
package intake

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/claimgate/internal/llm"
	"github.com/ppiankov/claimgate/internal/model"
)

// Intake runs document normalization followed by structured extraction.
type Intake struct {
	normalizer *Normalizer
	extractor  *Extractor
}

// New creates the intake stage
func New(client llm.Client, pdf PageExtractor) *Intake {
	return &Intake{
		normalizer: NewNormalizer(client, pdf),
		extractor:  NewExtractor(client),
	}
}

// Process handles one claim reference end to end. Normalization failures
// propagate; extraction failures never do (the extractor degrades to a
// summary-only record).
func (i *Intake) Process(ctx context.Context, reference string) (*model.IntakeResult, error) {
	description, inputType, err := i.normalizer.Normalize(ctx, reference)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "[intake] claim description extracted (%s)\n", inputType)

	extracted := i.extractor.Extract(ctx, description)

	name := "Unknown"
	if extracted.MemberName != nil {
		name = *extracted.MemberName
	}
	fmt.Fprintf(os.Stderr, "[intake] structured data extracted: %s\n", name)

	return &model.IntakeResult{
		ClaimDescription: description,
		InputType:        inputType,
		ExtractedData:    extracted,
	}, nil
}
