package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/lexcore/internal/model"
)

const (
	anthropicVersion      = "2023-06-01"
	anthropicDefaultModel = "claude-3-5-sonnet-20241022"
)

// AnthropicProvider implements the Provider interface for Anthropic Claude models
type AnthropicProvider struct {
	baseURL  string
	endpoint *jsonEndpoint
	config   Config
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Content    []anthropicContent `json:"content"`
	Model      string             `json:"model"`
	StopReason string             `json:"stop_reason"`
	Usage      anthropicUsage     `json:"usage"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(config Config) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, notConfigured("Anthropic API key is required (set ANTHROPIC_API_KEY)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	header := http.Header{}
	header.Set("x-api-key", config.APIKey)
	header.Set("anthropic-version", anthropicVersion)

	return &AnthropicProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		endpoint: &jsonEndpoint{
			provider: "anthropic",
			client:   newHTTPClient(config, 30*time.Second),
			header:   header,
			errorMessage: func(body []byte) string {
				var apiErr anthropicError
				if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
					return apiErr.Error.Type + " - " + apiErr.Error.Message
				}
				return ""
			},
		},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable sends a minimal request with the configured model
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	req := anthropicRequest{
		Model:     p.modelName(),
		MaxTokens: 10,
		Messages:  []anthropicMessage{{Role: "user", Content: "Hi"}},
	}
	return p.endpoint.do(ctx, http.MethodPost, p.baseURL+"/v1/messages", req, nil) == nil
}

// Augment answers a procedural query using the Messages API.
// The system prompt demands a bare JSON object; DecodeAnswer enforces it.
func (p *AnthropicProvider) Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	apiReq := anthropicRequest{
		Model:     p.modelName(),
		MaxTokens: orDefaultTokens(p.config.MaxTokens),
		System:    SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: BuildPrompt(q)},
		},
		Temperature: 0,
	}

	var resp anthropicResponse
	if err := p.endpoint.do(ctx, http.MethodPost, p.baseURL+"/v1/messages", apiReq, &resp); err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	var text strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("no content in Anthropic response")
	}

	return DecodeAnswer(text.String())
}

func (p *AnthropicProvider) modelName() string {
	if p.config.Model != "" {
		return p.config.Model
	}
	return anthropicDefaultModel
}
