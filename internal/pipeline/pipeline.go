// Package pipeline sequences the claim stages: intake, adjudication,
// risk derivation, and routing. Per-claim processing is strictly
// sequential — each stage's output is a hard input of the next.
package pipeline

import (
	"context"

	"github.com/ppiankov/claimgate/internal/agent"
	"github.com/ppiankov/claimgate/internal/intake"
	"github.com/ppiankov/claimgate/internal/model"
)

// Adjudicator turns a claim description into a decision record. Satisfied
// by *agent.Agent; abstracted so the orchestrator can be tested without a
// live reasoning capability.
type Adjudicator interface {
	Decide(ctx context.Context, claimDescription string) (model.DecisionRecord, error)
}

// IntakeStage produces an intake result for a claim reference. Satisfied
// by *intake.Intake.
type IntakeStage interface {
	Process(ctx context.Context, reference string) (*model.IntakeResult, error)
}

// Pipeline holds the stages for one deployment. Stateless between claims:
// every request flows through by value.
type Pipeline struct {
	intake IntakeStage
	agent  Adjudicator
}

// New creates a pipeline from its stages
func New(intakeStage IntakeStage, adjudicator Adjudicator) *Pipeline {
	return &Pipeline{
		intake: intakeStage,
		agent:  adjudicator,
	}
}

var (
	_ IntakeStage = (*intake.Intake)(nil)
	_ Adjudicator = (*agent.Agent)(nil)
)

// Process runs the full pipeline for one claim without streaming and
// returns the aggregate response.
func (p *Pipeline) Process(ctx context.Context, reference string) (*model.ClaimResponse, error) {
	intakeResult, err := p.intake.Process(ctx, reference)
	if err != nil {
		return nil, err
	}

	decision, err := p.agent.Decide(ctx, intakeResult.ClaimDescription)
	if err != nil {
		return nil, err
	}

	return &model.ClaimResponse{
		Intake: *intakeResult,
		Result: decision,
	}, nil
}
