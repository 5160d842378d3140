package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/claimgate/internal/llm"
	"github.com/ppiankov/claimgate/internal/model"
)

// claimSchema constrains the extraction output. Every field is nullable so
// the model can report "not found" instead of inventing values.
var claimSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"member_id": {"type": ["string", "null"]},
		"member_name": {"type": ["string", "null"]},
		"policy_number": {"type": ["string", "null"]},
		"treatment_date": {"type": ["string", "null"]},
		"claim_amount": {"type": ["number", "null"]},
		"diagnosis": {"type": ["string", "null"]},
		"doctor_name": {"type": ["string", "null"]},
		"hospital_name": {"type": ["string", "null"]},
		"claim_type": {
			"type": ["string", "null"],
			"enum": ["consultation", "diagnostic", "pharmacy", "dental", "vision", "alternative_medicine", "general", null]
		},
		"summary": {"type": ["string", "null"]}
	},
	"required": ["member_id", "member_name", "policy_number", "treatment_date", "claim_amount", "diagnosis", "doctor_name", "hospital_name", "claim_type", "summary"],
	"additionalProperties": false
}`)

const summaryLimit = 200

// Extractor converts a claim description into structured claim data.
type Extractor struct {
	client llm.Client
}

// NewExtractor creates a new structured extractor
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract pulls structured fields out of the claim text. It never fails:
// any extraction error degrades to a record carrying only a truncated
// summary of the original text, so the pipeline always has something to
// show for the intake stage.
func (e *Extractor) Extract(ctx context.Context, claimText string) *model.ExtractedClaimData {
	prompt := fmt.Sprintf(`Extract the following information from this insurance claim text.
If a field is not found, leave it as null.

Claim Text:
%s

Extract: member_id, member_name, policy_number, treatment_date, claim_amount (as number),
diagnosis, doctor_name, hospital_name, claim_type (one of: consultation, diagnostic, pharmacy, dental, vision, alternative_medicine, general),
and a brief summary of the claim.`, claimText)

	raw, err := e.client.ExtractJSON(ctx, llm.ExtractionRequest{
		Prompt:     prompt,
		SchemaName: "claim_extraction",
		Schema:     claimSchema,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[intake] structured extraction failed: %v\n", err)
		return fallbackData(claimText)
	}

	var data model.ExtractedClaimData
	if err := json.Unmarshal(raw, &data); err != nil {
		fmt.Fprintf(os.Stderr, "[intake] structured extraction returned malformed record: %v\n", err)
		return fallbackData(claimText)
	}

	return &data
}

// fallbackData builds the summary-only record used when extraction fails
func fallbackData(claimText string) *model.ExtractedClaimData {
	summary := truncateSummary(claimText)
	return &model.ExtractedClaimData{Summary: &summary}
}

// truncateSummary caps the fallback summary at 200 characters plus ellipsis
func truncateSummary(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryLimit {
		return text
	}
	return string(runes[:summaryLimit]) + "..."
}
