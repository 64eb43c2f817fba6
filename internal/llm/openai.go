package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hassaaali/research-chatbot/internal/models"
)

// OpenAIGenerator is a Generator backed by the OpenAI chat completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator using the given API key and model.
func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai generator: api key is required")
	}
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Generate builds a prompt from the ranked context and requests a completion.
func (g *OpenAIGenerator) Generate(ctx context.Context, query string, contextItems []models.ContextItem, opts Options) (*Result, error) {
	prompt := BuildPrompt(query, contextItems)

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(g.model),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai completion: no choices returned")
	}

	text := CleanResponse(resp.Choices[0].Message.Content, prompt)
	tokens := int(resp.Usage.TotalTokens)
	if tokens == 0 {
		tokens = EstimateTokens(prompt + text)
	}
	return &Result{
		Text:       text,
		Model:      g.model,
		TokensUsed: tokens,
	}, nil
}
