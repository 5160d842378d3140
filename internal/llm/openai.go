package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/claimgate/internal/worker"
)

// OpenAIClient implements the Client interface for OpenAI-compatible APIs
type OpenAIClient struct {
	client  *openai.Client
	config  Config
	limiter *worker.Limiter // nil when throttling disabled
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	var limiter *worker.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = worker.NewLimiter(config.RequestsPerSecond, config.Burst)
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: limiter,
	}, nil
}

// Name returns the provider name
func (c *OpenAIClient) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (c *OpenAIClient) IsAvailable(ctx context.Context) bool {
	_, err := c.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// DescribeImage runs a vision completion over an image
func (c *OpenAIClient) DescribeImage(ctx context.Context, req VisionRequest) (string, error) {
	ctx, cancel := c.timeoutContext(ctx)
	defer cancel()

	model := req.Model
	if model == "" {
		model = c.config.VisionModel
	}

	resp, err := c.createCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.resolveModel(model),
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: req.ImageURL,
						},
					},
				},
			},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI vision error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ExtractJSON runs a schema-constrained completion
func (c *OpenAIClient) ExtractJSON(ctx context.Context, req ExtractionRequest) ([]byte, error) {
	ctx, cancel := c.timeoutContext(ctx)
	defer cancel()

	resp, err := c.createCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.resolveModel(req.Model),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI extraction error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("model returned invalid JSON")
	}

	return []byte(content), nil
}

// RunTools runs a tool-calling loop until the model produces final text or
// the round budget is exhausted.
func (c *OpenAIClient) RunTools(ctx context.Context, req ToolRequest) (string, error) {
	ctx, cancel := c.timeoutContext(ctx)
	defer cancel()

	maxRounds := req.MaxRounds
	if maxRounds <= 0 {
		maxRounds = c.config.MaxToolRounds
	}
	if maxRounds <= 0 {
		maxRounds = 6
	}

	tools := make([]openai.Tool, 0, len(req.Tools))
	byName := make(map[string]Tool, len(req.Tools))
	for _, t := range req.Tools {
		byName[t.Name] = t
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.System},
		{Role: openai.ChatMessageRoleUser, Content: req.Input},
	}

	for round := 0; round < maxRounds; round++ {
		resp, err := c.createCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.resolveModel(req.Model),
			Messages:    messages,
			Tools:       tools,
			MaxTokens:   c.config.MaxTokens,
			Temperature: 0.3,
		})
		if err != nil {
			return "", fmt.Errorf("OpenAI API error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no response from OpenAI")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return strings.TrimSpace(msg.Content), nil
		}

		messages = append(messages, msg)
		for _, tc := range msg.ToolCalls {
			tool, ok := byName[tc.Function.Name]
			result := ""
			if !ok {
				result = fmt.Sprintf("unknown tool: %s", tc.Function.Name)
			} else {
				out, err := tool.Execute(ctx, json.RawMessage(tc.Function.Arguments))
				if err != nil {
					// Surface tool failures to the model rather than aborting
					// the loop: it can recover or flag for review.
					result = fmt.Sprintf("tool error: %v", err)
				} else {
					result = out
				}
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				Name:       tc.Function.Name,
				ToolCallID: tc.ID,
			})
		}
	}

	return "", fmt.Errorf("tool loop did not terminate within %d rounds", maxRounds)
}

// createCompletion applies rate limiting before hitting the API
func (c *OpenAIClient) createCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, req.Model); err != nil {
			return openai.ChatCompletionResponse{}, err
		}
	}
	return c.client.CreateChatCompletion(ctx, req)
}

func (c *OpenAIClient) resolveModel(model string) string {
	if model != "" {
		return model
	}
	if c.config.Model != "" {
		return c.config.Model
	}
	return openai.GPT4oMini
}

func (c *OpenAIClient) timeoutContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(c.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
