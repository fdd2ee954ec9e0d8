package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/ppiankov/lexcore/internal/model"
	"google.golang.org/api/option"
)

// geminiGenerator is the part of *genai.GenerativeModel the provider uses
type geminiGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements the Provider interface for Google Gemini models
type GeminiProvider struct {
	client    *genai.Client
	generator geminiGenerator
	modelName string
	config    Config
}

// NewGeminiProvider creates a new Gemini provider. The client holds a
// connection; call Close when done.
func NewGeminiProvider(ctx context.Context, config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, notConfigured("Gemini API key is required (set GEMINI_API_KEY)")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	modelName := config.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &GeminiProvider{
		client:    client,
		generator: newGeminiModel(client, modelName, config.MaxTokens),
		modelName: modelName,
		config:    config,
	}, nil
}

// newGeminiModel configures a model for schema-constrained JSON output
func newGeminiModel(client *genai.Client, name string, maxTokens int) *genai.GenerativeModel {
	maxTokens = orDefaultTokens(maxTokens)

	m := client.GenerativeModel(name)
	m.SetTemperature(0)
	m.SetMaxOutputTokens(int32(maxTokens))
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemPrompt)}}
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = geminiAnswerSchema
	return m
}

// geminiAnswerSchema mirrors answerSchema in genai's schema type
var geminiAnswerSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"current_stage":        {Type: genai.TypeString},
		"next_procedural_step": {Type: genai.TypeString},
		"timeline_days":        {Type: genai.TypeInteger},
		"max_extension_days":   {Type: genai.TypeInteger},
		"statutory_reference":  {Type: genai.TypeString},
		"confidence": {
			Type: genai.TypeString,
			Enum: []string{string(model.ConfidenceMedium), string(model.ConfidenceAbstain)},
		},
	},
	Required: answerFields,
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the configured model can be described
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	if p.client == nil {
		return p.generator != nil
	}
	_, err := p.client.GenerativeModel(p.modelName).Info(ctx)
	return err == nil
}

// Augment answers a procedural query with schema-constrained generation
func (p *GeminiProvider) Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.requestTimeout(30*time.Second))
	defer cancel()

	resp, err := p.generator.GenerateContent(ctx, genai.Text(BuildPrompt(q)))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	text := geminiText(resp)
	if text == "" {
		return nil, fmt.Errorf("no content in Gemini response")
	}

	return DecodeAnswer(text)
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// geminiText concatenates the text parts of the first candidate
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
