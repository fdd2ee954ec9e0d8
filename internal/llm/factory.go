package llm

import (
	"context"
	"os"
	"strings"

	"github.com/ppiankov/lexcore/internal/model"
	"github.com/ppiankov/lexcore/internal/procedural"
)

var (
	_ procedural.Augmenter = (*OpenAIProvider)(nil)
	_ procedural.Augmenter = (*AnthropicProvider)(nil)
	_ procedural.Augmenter = (*OllamaProvider)(nil)
	_ procedural.Augmenter = (*GeminiProvider)(nil)
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name disables escalation and returns (nil, nil).
func NewProvider(ctx context.Context, config Config) (Provider, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "gemini", "google":
		return NewGeminiProvider(ctx, config)

	case "":
		return nil, nil

	default:
		return nil, notConfigured("unknown LLM provider: %s (supported: openai, anthropic, ollama, gemini)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  modelConfig.HTTPProxy,
		HTTPSProxy: modelConfig.HTTPSProxy,
		NoProxy:    modelConfig.NoProxy,
	}
}

// credentialEnv maps a provider to the environment variable holding its key
var credentialEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"google":    "GEMINI_API_KEY",
}

// WithEnvCredentials fills an empty API key (and the Ollama base URL) from the
// provider's environment variable. Explicit configuration wins.
func WithEnvCredentials(config Config) Config {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	if config.APIKey == "" {
		if env, ok := credentialEnv[provider]; ok {
			config.APIKey = os.Getenv(env)
		}
	}
	if provider == "ollama" && config.BaseURL == "" {
		config.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	return config
}

// unavailable stands in for a provider that could not be built. The build
// error is reported by Augment, so only queries that escalate see it.
type unavailable struct {
	name string
	err  error
}

// Unavailable returns a Provider whose Augment always fails with err
func Unavailable(name string, err error) Provider {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "unconfigured"
	}
	return &unavailable{name: name, err: err}
}

func (u *unavailable) Name() string { return u.name }

func (u *unavailable) IsAvailable(context.Context) bool { return false }

func (u *unavailable) Augment(context.Context, model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	return nil, u.err
}
