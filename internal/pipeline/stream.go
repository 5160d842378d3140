package pipeline

import (
	"context"

	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/signal"
)

// Stage node names on the streaming surface, emitted in this order.
// Error may replace any of them and terminates the stream.
const (
	NodeIntake  = "Intake Node"
	NodePolicy  = "Policy Node"
	NodeRisk    = "Risk Analyze Node"
	NodeRouting = "Routing Node"
	NodeError   = "Error"
)

// StageMessage is one line of the NDJSON stream.
type StageMessage struct {
	Node string `json:"node"`
	Data any    `json:"data"`
}

// EmitFunc delivers one stage message to the caller. Implementations must
// flush before returning so the caller sees each stage as it completes. An
// emit error means the caller is gone; the orchestrator stops silently.
type EmitFunc func(msg StageMessage) error

// intakeData is the Intake Node payload: the intake result with the
// extracted fields flattened to the top level.
type intakeData struct {
	ClaimDescription string          `json:"claim_description"`
	InputType        model.InputType `json:"input_type"`
	MemberID         *string         `json:"member_id"`
	MemberName       *string         `json:"member_name"`
	PolicyNumber     *string         `json:"policy_number"`
	TreatmentDate    *string         `json:"treatment_date"`
	ClaimAmount      *float64        `json:"claim_amount"`
	Diagnosis        *string         `json:"diagnosis"`
	DoctorName       *string         `json:"doctor_name"`
	HospitalName     *string         `json:"hospital_name"`
	ClaimType        *string         `json:"claim_type"`
	Summary          *string         `json:"summary"`
}

// policyData is the Policy Node payload.
type policyData struct {
	Decision         model.Decision `json:"decision"`
	ApprovedAmount   *float64       `json:"approved_amount"`
	Reasoning        []string       `json:"reasoning"`
	PolicyReferences []string       `json:"policy_references"`
	ConfidenceScore  int            `json:"confidence_score"`
}

// riskData is the Risk Analyze Node payload.
type riskData struct {
	RiskScore         int                `json:"risk_score"`
	Category          model.RiskCategory `json:"category"`
	ConfidenceScore   int                `json:"confidence_score"`
	ConfidenceReasons []string           `json:"confidence_reasons"`
	Reasons           []string           `json:"reasons"`
}

// routingData is the Routing Node payload.
type routingData struct {
	ProcessingPath    string   `json:"processing_path"`
	Priority          string   `json:"priority"`
	AdjusterTier      string   `json:"adjuster_tier"`
	ConfidenceScore   int      `json:"confidence_score"`
	ConfidenceReasons []string `json:"confidence_reasons"`
	Rationale         string   `json:"rationale"`
}

// errorData is the Error payload.
type errorData struct {
	Error string `json:"error"`
}

// Stream runs the pipeline for one claim, emitting one message per stage.
// Strictly sequential, terminal on first failure: any stage error produces
// a single Error message and halts — no retry, no further stages. Emit
// failures (caller disconnected) abort without an Error message since
// there is nobody left to read it.
func (p *Pipeline) Stream(ctx context.Context, reference string, emit EmitFunc) {
	// Stage 1: intake
	intakeResult, err := p.intake.Process(ctx, reference)
	if err != nil {
		_ = emit(StageMessage{Node: NodeError, Data: errorData{Error: err.Error()}})
		return
	}

	data := intakeData{
		ClaimDescription: intakeResult.ClaimDescription,
		InputType:        intakeResult.InputType,
	}
	if extracted := intakeResult.ExtractedData; extracted != nil {
		data.MemberID = extracted.MemberID
		data.MemberName = extracted.MemberName
		data.PolicyNumber = extracted.PolicyNumber
		data.TreatmentDate = extracted.TreatmentDate
		data.ClaimAmount = extracted.ClaimAmount
		data.Diagnosis = extracted.Diagnosis
		data.DoctorName = extracted.DoctorName
		data.HospitalName = extracted.HospitalName
		data.ClaimType = extracted.ClaimType
		data.Summary = extracted.Summary
	}
	if err := emit(StageMessage{Node: NodeIntake, Data: data}); err != nil {
		return
	}

	// Stage 2: adjudication decision
	decision, err := p.agent.Decide(ctx, intakeResult.ClaimDescription)
	if err != nil {
		_ = emit(StageMessage{Node: NodeError, Data: errorData{Error: err.Error()}})
		return
	}
	if err := emit(StageMessage{Node: NodePolicy, Data: policyData{
		Decision:         decision.Decision,
		ApprovedAmount:   decision.ApprovedAmount,
		Reasoning:        decision.Reasoning,
		PolicyReferences: decision.PolicyReferences,
		ConfidenceScore:  decision.ConfidenceScore,
	}}); err != nil {
		return
	}

	// Stages 3 and 4: derived signals, pure computation
	signals := signal.Derive(decision)

	reasons := decision.Reasoning
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	if err := emit(StageMessage{Node: NodeRisk, Data: riskData{
		RiskScore:         signals.RiskScore,
		Category:          signals.RiskCategory,
		ConfidenceScore:   decision.ConfidenceScore,
		ConfidenceReasons: signals.ConfidenceReasons,
		Reasons:           reasons,
	}}); err != nil {
		return
	}

	_ = emit(StageMessage{Node: NodeRouting, Data: routingData{
		ProcessingPath:    signals.ProcessingPath,
		Priority:          signals.Priority,
		AdjusterTier:      signals.AdjusterTier,
		ConfidenceScore:   signals.RoutingConfidence,
		ConfidenceReasons: signals.RoutingReasons,
		Rationale:         signals.Rationale,
	}})
}
