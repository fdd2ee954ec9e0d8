package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/lexcore/internal/model"
)

// OllamaProvider implements the Provider interface for Ollama local models
type OllamaProvider struct {
	baseURL  string
	endpoint *jsonEndpoint
	config   Config
}

// Ollama API structures
type ollamaRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	System  string          `json:"system,omitempty"`
	Format  json.RawMessage `json:"format,omitempty"`
	Options ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`

	PromptEvalCount int `json:"prompt_eval_count,omitempty"`
	EvalCount       int `json:"eval_count,omitempty"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	if config.Model == "" {
		return nil, notConfigured("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		endpoint: &jsonEndpoint{
			provider: "ollama",
			// Local models can be slow
			client: newHTTPClient(config, 60*time.Second),
			errorMessage: func(body []byte) string {
				var apiErr ollamaError
				if json.Unmarshal(body, &apiErr) == nil {
					return apiErr.Error
				}
				return ""
			},
		},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks if the Ollama server is reachable
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	return p.endpoint.do(ctx, http.MethodGet, p.baseURL+"/api/tags", nil, nil) == nil
}

// Augment answers a procedural query using /api/generate with the
// contract schema as the output format
func (p *OllamaProvider) Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	apiReq := ollamaRequest{
		Model:  p.config.Model,
		Prompt: BuildPrompt(q),
		Stream: false,
		System: SystemPrompt,
		Format: answerSchema,
		Options: ollamaOptions{
			Temperature: 0,
			NumPredict:  orDefaultTokens(p.config.MaxTokens),
		},
	}

	var resp ollamaResponse
	if err := p.endpoint.do(ctx, http.MethodPost, p.baseURL+"/api/generate", apiReq, &resp); err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	return DecodeAnswer(resp.Response)
}
