package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/claimgate/internal/agent"
	"github.com/ppiankov/claimgate/internal/intake"
	"github.com/ppiankov/claimgate/internal/llm"
	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/pipeline"
	"github.com/ppiankov/claimgate/internal/policy"
)

// buildPipeline composes the claim pipeline from configuration: LLM client,
// PDF reader, policy store, retrieval cache, agent. The returned store must
// be closed by the caller.
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, *policy.Store, error) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		return nil, nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	client, err := llm.NewClient(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize LLM client: %w", err)
	}

	store, err := policy.Open(cfg.Policy.IndexPath, cfg.Policy.MaxPassages)
	if err != nil {
		return nil, nil, fmt.Errorf("open policy index: %w", err)
	}

	var retriever policy.Retriever = store
	if cfg.Cache.Enabled {
		retriever = policy.NewCachedRetriever(store, cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	intakeStage := intake.New(client, intake.NewPDFReader())
	adjudicator := agent.New(client, retriever, cfg.LLM.MaxToolRounds)

	return pipeline.New(intakeStage, adjudicator), store, nil
}
