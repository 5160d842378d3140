package agent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/claimgate/internal/model"
)

// Field extractors for the agent's output template. Each is total: an
// unmatched field degrades to its documented default, never to an error.
var (
	decisionRe   = regexp.MustCompile(`(?i)DECISION:\s*(APPROVED|REJECTED|PARTIAL)`)
	amountRe     = regexp.MustCompile(`(?i)APPROVED AMOUNT:\s*\$?([\d,]+(?:\.\d{2})?)`)
	confidenceRe = regexp.MustCompile(`(?i)CONFIDENCE:\s*(\d+)`)
	reasoningRe  = regexp.MustCompile(`(?is)REASONING:\s*(.*?)(?:POLICY REFERENCES:|CONFIDENCE:|$)`)
	referencesRe = regexp.MustCompile(`(?is)POLICY REFERENCES:\s*(.*)$`)
)

// ParseResponse converts the agent's free-text response into a structured
// DecisionRecord. Pure and deterministic: no external calls, and malformed
// input yields defaults rather than failure.
func ParseResponse(raw string) model.DecisionRecord {
	decision := parseDecision(raw)

	confidence, ok := parseConfidence(raw)
	if !ok {
		confidence = model.DefaultConfidence(decision)
	}

	reasoning := parseReasoning(raw)
	if len(reasoning) == 0 {
		reasoning = []string{model.PlaceholderReasoning}
	}

	references := parseReferences(raw)
	if len(references) == 0 {
		references = []string{model.PlaceholderReference}
	}

	return model.DecisionRecord{
		Decision:         decision,
		ApprovedAmount:   parseAmount(raw),
		ConfidenceScore:  confidence,
		Reasoning:        reasoning,
		PolicyReferences: references,
		RawResponse:      raw,
	}
}

func parseDecision(raw string) model.Decision {
	m := decisionRe.FindStringSubmatch(raw)
	if m == nil {
		return model.DecisionNeedsReview
	}
	return model.Decision(strings.ToUpper(m[1]))
}

func parseAmount(raw string) *float64 {
	m := amountRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &amount
}

func parseConfidence(raw string) (int, bool) {
	m := confidenceRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	confidence, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return confidence, true
}

// parseReasoning takes the text between REASONING: and the next section
// marker, splits it into lines, and strips bullet markers. Empty and
// bare-dash lines are dropped.
func parseReasoning(raw string) []string {
	m := reasoningRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	var reasons []string
	for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "- ")
		if line == "" {
			continue
		}
		reasons = append(reasons, line)
	}

	return reasons
}

// parseReferences splits everything after POLICY REFERENCES: on commas.
// References containing commas get shredded; the intended granularity is
// unspecified upstream, so the naive split stands.
func parseReferences(raw string) []string {
	m := referencesRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	var refs []string
	for _, ref := range strings.Split(strings.TrimSpace(m[1]), ",") {
		ref = strings.TrimSpace(ref)
		if ref != "" {
			refs = append(refs, ref)
		}
	}

	return refs
}
