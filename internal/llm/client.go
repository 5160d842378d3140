package llm

import (
	"context"
	"encoding/json"
)

// Client is the reasoning capability behind the claim pipeline. All methods
// block until the underlying API call completes; callers control cancellation
// through ctx. Implementations must be safe for concurrent use.
type Client interface {
	// Name returns the provider name
	Name() string

	// DescribeImage runs a vision completion over an image data URI and
	// returns the model's textual description
	DescribeImage(ctx context.Context, req VisionRequest) (string, error)

	// ExtractJSON runs a schema-constrained completion and returns the raw
	// JSON document produced by the model
	ExtractJSON(ctx context.Context, req ExtractionRequest) ([]byte, error)

	// RunTools runs a tool-calling loop: the model may invoke the provided
	// tools any number of times before terminating with its final text
	RunTools(ctx context.Context, req ToolRequest) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// VisionRequest asks the model to describe an image.
type VisionRequest struct {
	// Prompt is the instruction accompanying the image
	Prompt string

	// ImageURL is a data URI (data:image/...;base64,...) or https URL
	ImageURL string

	Model string
}

// ExtractionRequest asks the model for output constrained to a JSON schema.
type ExtractionRequest struct {
	Prompt string

	// SchemaName labels the schema for the API
	SchemaName string

	// Schema is the JSON schema the output must satisfy
	Schema json.RawMessage

	Model string
}

// Tool is a function the model may call during a tool loop. Execute receives
// the model-supplied arguments as raw JSON and returns the tool's textual
// result.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	Execute     func(ctx context.Context, args json.RawMessage) (string, error)
}

// ToolRequest drives a tool-calling reasoning loop.
type ToolRequest struct {
	System string
	Input  string
	Tools  []Tool
	Model  string

	// MaxRounds bounds the number of model round-trips (0 uses the default)
	MaxRounds int
}

// Config holds LLM client configuration
type Config struct {
	// Provider name: "openai" (or any OpenAI-compatible endpoint via BaseURL)
	Provider string

	// Model name (provider-specific)
	Model string

	// VisionModel for image description (falls back to Model)
	VisionModel string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// MaxToolRounds bounds tool loops
	MaxToolRounds int

	// RequestsPerSecond throttles outbound calls (0 disables)
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "openai",
		Model:         "gpt-4o-mini",
		Timeout:       60,
		MaxTokens:     1500,
		MaxToolRounds: 6,
		Burst:         5,
	}
}
