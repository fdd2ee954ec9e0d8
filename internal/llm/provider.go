package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/lexcore/internal/model"
)

// Provider is an augmentation collaborator backed by a language model.
// Every provider satisfies procedural.Augmenter.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Augment answers a procedural query in the contract shape
	Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "gemini", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic/Gemini
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// defaultMaxTokens bounds a contract answer when MaxTokens is unset
const defaultMaxTokens = 800

func orDefaultTokens(n int) int {
	if n <= 0 {
		return defaultMaxTokens
	}
	return n
}

// requestTimeout is the configured per-request timeout, or fallback when unset
func (c Config) requestTimeout(fallback time.Duration) time.Duration {
	if c.Timeout <= 0 {
		return fallback
	}
	return time.Duration(c.Timeout) * time.Second
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: defaultMaxTokens,
	}
}

// SystemPrompt constrains every provider to the collaborator contract
const SystemPrompt = `You are a procedural assistant for Indian litigation. You answer with a single JSON object and nothing else.

RULES:
1. Cite the exact section, order or rule of the statute that fixes the deadline in "statutory_reference".
2. "timeline_days" and "max_extension_days" are whole numbers of days.
3. If you are not certain of the governing provision or the number of days, set "confidence" to "Abstain", set both day counts to 0 and explain nothing.
4. Otherwise set "confidence" to "Medium-Augmented". Never use any other confidence value.
5. Do not add fields. Do not wrap the object in prose or code fences.`

// answerFields lists the contract fields in output order
var answerFields = []string{
	"current_stage",
	"next_procedural_step",
	"timeline_days",
	"max_extension_days",
	"statutory_reference",
	"confidence",
}

// BuildPrompt renders the user prompt for a procedural query
func BuildPrompt(q model.ProceduralQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Law code: %s\n", strings.TrimSpace(q.LawCode))
	fmt.Fprintf(&b, "Current case stage: %s\n\n", strings.TrimSpace(q.CaseStage))
	b.WriteString("What is the next procedural step, its statutory time limit in days, the maximum extension in days, and the governing provision?\n\n")
	b.WriteString("Respond with exactly these fields:\n")
	for _, f := range answerFields {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return b.String()
}

// answerSchema is the JSON Schema of the contract object
var answerSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "current_stage": {"type": "string"},
    "next_procedural_step": {"type": "string"},
    "timeline_days": {"type": "integer"},
    "max_extension_days": {"type": "integer"},
    "statutory_reference": {"type": "string"},
    "confidence": {"type": "string", "enum": ["Medium-Augmented", "Abstain"]}
  },
  "required": ["current_stage", "next_procedural_step", "timeline_days", "max_extension_days", "statutory_reference", "confidence"],
  "additionalProperties": false
}`)

// wireAnswer detects missing fields; pointers stay nil when a key is absent
type wireAnswer struct {
	CurrentStage       *string `json:"current_stage"`
	NextStep           *string `json:"next_procedural_step"`
	TimelineDays       *int    `json:"timeline_days"`
	MaxExtensionDays   *int    `json:"max_extension_days"`
	StatutoryReference *string `json:"statutory_reference"`
	Confidence         *string `json:"confidence"`
}

// ErrMalformedAnswer is returned when model output is not a contract object
var ErrMalformedAnswer = errors.New("malformed collaborator answer")

// DecodeAnswer parses model output strictly: exactly one JSON object, no
// unknown fields, no missing fields. A surrounding markdown code fence is tolerated.
func DecodeAnswer(raw string) (*model.AugmentedAnswer, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedAnswer)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var w wireAnswer
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedAnswer, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedAnswer)
	}

	var missing []string
	if w.CurrentStage == nil {
		missing = append(missing, "current_stage")
	}
	if w.NextStep == nil {
		missing = append(missing, "next_procedural_step")
	}
	if w.TimelineDays == nil {
		missing = append(missing, "timeline_days")
	}
	if w.MaxExtensionDays == nil {
		missing = append(missing, "max_extension_days")
	}
	if w.StatutoryReference == nil {
		missing = append(missing, "statutory_reference")
	}
	if w.Confidence == nil {
		missing = append(missing, "confidence")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields %s", ErrMalformedAnswer, strings.Join(missing, ", "))
	}

	return &model.AugmentedAnswer{
		CurrentStage:       *w.CurrentStage,
		NextStep:           *w.NextStep,
		TimelineDays:       *w.TimelineDays,
		MaxExtensionDays:   *w.MaxExtensionDays,
		StatutoryReference: *w.StatutoryReference,
		Confidence:         model.Confidence(*w.Confidence),
	}, nil
}

// stripCodeFence removes a ```json ... ``` wrapper if present
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// notConfigured wraps model.ErrConfiguration with provider context
func notConfigured(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrConfiguration, fmt.Sprintf(format, args...))
}
