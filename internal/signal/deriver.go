// Package signal derives risk and routing values from a parsed decision.
// Everything here is a pure function of the decision record: identical
// input always yields identical signals, and nothing is persisted.
package signal

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimgate/internal/model"
)

// fallbackConfidence is used for routing when no usable confidence exists.
const fallbackConfidence = 75

// Derive maps a decision record to its risk and routing signals.
func Derive(rec model.DecisionRecord) model.DerivedSignals {
	var (
		riskScore int
		category  model.RiskCategory
		path      string
		priority  string
		tier      string
	)

	switch rec.Decision {
	case model.DecisionApproved:
		riskScore, category = 2, model.RiskLow
		path, priority, tier = model.PathFastTrack, model.PriorityNormal, model.TierAutoApproval
	case model.DecisionRejected:
		riskScore, category = 8, model.RiskHigh
		path, priority, tier = model.PathManualReview, model.PriorityHigh, model.TierSeniorAdjuster
	default:
		riskScore, category = 5, model.RiskMedium
		path, priority, tier = model.PathStandard, model.PriorityMedium, model.TierStandardReview
	}

	routingConfidence := rec.ConfidenceScore
	if routingConfidence == 0 {
		routingConfidence = fallbackConfidence
	}

	return model.DerivedSignals{
		RiskScore:         riskScore,
		RiskCategory:      category,
		ConfidenceReasons: confidenceReasons(rec.Decision),
		ProcessingPath:    path,
		Priority:          priority,
		AdjusterTier:      tier,
		RoutingConfidence: routingConfidence,
		RoutingReasons: []string{
			fmt.Sprintf("Decision confidence: %d%%", routingConfidence),
			fmt.Sprintf("Risk category: %s", category),
			fmt.Sprintf("Processing path: %s", path),
		},
		Rationale: rationale(rec.Reasoning),
	}
}

// confidenceReasons returns the fixed bullet set for a decision branch
func confidenceReasons(d model.Decision) []string {
	switch d {
	case model.DecisionApproved:
		return []string{
			"All required documents verified",
			"Treatment covered under policy terms",
			"Claim amount within coverage limits",
		}
	case model.DecisionRejected:
		return []string{
			"Policy terms not met",
			"Potential exclusions identified",
			"Manual review recommended",
		}
	default:
		return []string{
			"Partial coverage identified",
			"Some conditions need verification",
			"Further documentation may be required",
		}
	}
}

// rationale joins the first two reasoning lines
func rationale(reasoning []string) string {
	if len(reasoning) == 0 {
		return "Standard processing"
	}
	if len(reasoning) > 2 {
		reasoning = reasoning[:2]
	}
	return strings.Join(reasoning, "; ")
}
