package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/lexcore/internal/model"
	"github.com/sashabaranov/go-openai"
)

const openAITimeout = 30 * time.Second

// OpenAIProvider answers procedural queries through Chat Completions with a
// strict JSON schema, so the model cannot reply in prose
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, notConfigured("OpenAI API key is required (set OPENAI_API_KEY)")
	}

	cc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cc.BaseURL = config.BaseURL
	}
	cc.HTTPClient = newHTTPClient(config, openAITimeout)

	return &OpenAIProvider{client: openai.NewClientWithConfig(cc), config: config}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable lists models, which fails fast on a bad key or endpoint
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

func (p *OpenAIProvider) Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.requestTimeout(openAITimeout))
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, p.request(q))
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai chat completion: no choices returned")
	}
	return DecodeAnswer(resp.Choices[0].Message.Content)
}

func (p *OpenAIProvider) request(q model.ProceduralQuery) openai.ChatCompletionRequest {
	name := p.config.Model
	if name == "" {
		name = openai.GPT4oMini
	}
	return openai.ChatCompletionRequest{
		Model: name,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(q)},
		},
		MaxTokens:   orDefaultTokens(p.config.MaxTokens),
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "procedural_answer",
				Schema: answerSchema,
				Strict: true,
			},
		},
	}
}
