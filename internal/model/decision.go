package model

// Decision is the adjudication outcome for a claim.
type Decision string

const (
	DecisionApproved    Decision = "APPROVED"
	DecisionRejected    Decision = "REJECTED"
	DecisionPartial     Decision = "PARTIAL"
	DecisionNeedsReview Decision = "NEEDS_REVIEW"
)

// DefaultConfidence maps a decision to the confidence assumed when the
// agent's response carries no explicit CONFIDENCE marker.
func DefaultConfidence(d Decision) int {
	switch d {
	case DecisionApproved:
		return 85
	case DecisionRejected:
		return 80
	case DecisionPartial:
		return 70
	default:
		return 50
	}
}

// Placeholder values used when the agent's response yields no parsable
// reasoning or references. Reasoning and PolicyReferences are never empty.
const (
	PlaceholderReasoning = "No detailed reasoning provided"
	PlaceholderReference = "No specific references"
)

// DecisionRecord is the structured form of the agent's free-text decision.
// ConfidenceScore is always populated; Reasoning and PolicyReferences always
// contain at least one element. RawResponse keeps the agent output verbatim
// for audit.
type DecisionRecord struct {
	Decision         Decision `json:"decision"`
	ApprovedAmount   *float64 `json:"approved_amount"`
	ConfidenceScore  int      `json:"confidence_score"`
	Reasoning        []string `json:"reasoning"`
	PolicyReferences []string `json:"policy_references"`
	RawResponse      string   `json:"raw_response"`
}
