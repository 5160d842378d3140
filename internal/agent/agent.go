// Package agent runs the adjudication reasoning loop and parses its
// templated output into a structured decision.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/claimgate/internal/llm"
	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/policy"
)

// Agent is the claim adjudication agent. It hands the claim description to
// the reasoning capability, which may call the policy retriever any number
// of times before emitting its final templated text.
type Agent struct {
	client    llm.Client
	retriever policy.Retriever
	maxRounds int
}

// New creates a new adjudication agent
func New(client llm.Client, retriever policy.Retriever, maxRounds int) *Agent {
	return &Agent{
		client:    client,
		retriever: retriever,
		maxRounds: maxRounds,
	}
}

// Decide runs the reasoning loop and returns the parsed decision. The raw
// response is retained verbatim on the record for audit.
func (a *Agent) Decide(ctx context.Context, claimDescription string) (model.DecisionRecord, error) {
	raw, err := a.client.RunTools(ctx, llm.ToolRequest{
		System:    systemPrompt,
		Input:     claimDescription,
		Tools:     []llm.Tool{a.policyTool()},
		MaxRounds: a.maxRounds,
	})
	if err != nil {
		return model.DecisionRecord{}, fmt.Errorf("adjudication agent: %w", err)
	}

	return ParseResponse(raw), nil
}

// policyTool exposes the policy retriever to the reasoning loop
func (a *Agent) policyTool() llm.Tool {
	return llm.Tool{
		Name:        "policy_lookup",
		Description: policyToolDescription,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "What to look up in the policy documents"
				}
			},
			"required": ["query"]
		}`),
		Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
			var params struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &params); err != nil {
				return "", fmt.Errorf("bad policy_lookup arguments: %w", err)
			}

			fmt.Fprintf(os.Stderr, "[agent] policy lookup: %s\n", params.Query)

			passages, err := a.retriever.Retrieve(ctx, params.Query)
			if err != nil {
				return "", err
			}
			if len(passages) == 0 {
				return "No matching policy passages found.", nil
			}

			return policy.JoinPassages(passages), nil
		},
	}
}
