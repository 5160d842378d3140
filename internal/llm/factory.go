package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimgate/internal/model"
)

// NewClient creates a new LLM client based on configuration. Unlike optional
// capabilities, the claim pipeline cannot run without one: an unconfigured
// provider is an error, not a disabled feature.
func NewClient(config Config) (Client, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai", "":
		return NewOpenAIClient(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, or any OpenAI-compatible endpoint via base_url)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:          modelConfig.Provider,
		Model:             modelConfig.Model,
		VisionModel:       modelConfig.VisionModel,
		APIKey:            modelConfig.APIKey,
		BaseURL:           modelConfig.BaseURL,
		Timeout:           modelConfig.Timeout,
		MaxTokens:         modelConfig.MaxTokens,
		MaxToolRounds:     modelConfig.MaxToolRounds,
		RequestsPerSecond: modelConfig.RequestsPerSecond,
		Burst:             modelConfig.Burst,
	}
}
