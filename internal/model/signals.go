package model

// RiskCategory buckets a claim's risk.
type RiskCategory string

const (
	RiskLow    RiskCategory = "Low"
	RiskMedium RiskCategory = "Medium"
	RiskHigh   RiskCategory = "High"
)

// Processing path and priority labels emitted on the routing stage.
const (
	PathFastTrack    = "Fast-Track"
	PathStandard     = "Standard Processing"
	PathManualReview = "Manual Review"

	PriorityNormal = "Normal"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"

	TierAutoApproval   = "Tier 1 - Auto Approval"
	TierStandardReview = "Tier 2 - Standard Review"
	TierSeniorAdjuster = "Tier 3 - Senior Adjuster"
)

// DerivedSignals are the risk and routing values computed purely from a
// DecisionRecord. They have no independent lifecycle: recomputed on every
// request, never persisted.
type DerivedSignals struct {
	RiskScore    int          `json:"risk_score"`
	RiskCategory RiskCategory `json:"risk_category"`

	// ConfidenceReasons are the fixed per-decision bullet strings shown on
	// the risk stage.
	ConfidenceReasons []string `json:"confidence_reasons"`

	ProcessingPath string `json:"processing_path"`
	Priority       string `json:"priority"`
	AdjusterTier   string `json:"adjuster_tier"`

	// RoutingConfidence mirrors the decision confidence, falling back to 75
	// when no confidence is available.
	RoutingConfidence int      `json:"routing_confidence"`
	RoutingReasons    []string `json:"routing_reasons"`
	Rationale         string   `json:"rationale"`
}
