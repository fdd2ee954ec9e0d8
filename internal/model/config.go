package model

import "time"

// Config is the complete lexcore configuration.
// Keys map 1:1 onto config.yaml and LEXCORE_* environment variables.
type Config struct {
	Summary      SummaryConfig     `yaml:"summary" mapstructure:"summary"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Procedural   ProceduralConfig  `yaml:"procedural" mapstructure:"procedural"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// SummaryConfig controls section allocation
type SummaryConfig struct {
	Window int `yaml:"window" mapstructure:"window"` // Sentences per section
}

// LLMConfig selects the augmentation collaborator
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`         // openai, anthropic, ollama, gemini, "" (disabled)
	Model      string `yaml:"model" mapstructure:"model"`               // Provider-specific model name
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"` // Prefer env vars
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // Seconds per request
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ProceduralConfig controls the timeline resolver
type ProceduralConfig struct {
	TablePath         string        `yaml:"table_path,omitempty" mapstructure:"table_path"` // Extra YAML table entries
	EscalationTimeout time.Duration `yaml:"escalation_timeout" mapstructure:"escalation_timeout"`
}

// CacheConfig controls the augmented-answer cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitConfig throttles collaborator calls
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// HTTPConfig controls URL intake
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Summary: SummaryConfig{
			Window: 2,
		},
		LLM: LLMConfig{
			Provider:  "", // Escalation disabled until a provider is chosen
			Timeout:   30,
			MaxTokens: 800,
		},
		Procedural: ProceduralConfig{
			EscalationTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     1 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "lexcore/0.1 (+https://github.com/ppiankov/lexcore)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
