package llm

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Provider names accepted by NewProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Default models per provider.
const (
	OpenAIModel    = "gpt-4.1"
	GeminiModel    = "gemini-1.5-pro"
	AnthropicModel = "claude-sonnet-4-20250514"
)

const (
	// DefaultTemperature keeps answers close to deterministic.
	DefaultTemperature = 0.2
	// DefaultMaxTokens bounds each reply.
	DefaultMaxTokens = 4096
	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 120 * time.Second
)

// Provider sends a conversation to a chat model and returns the text of its reply.
type Provider interface {
	Ask(ctx context.Context, messages []Message) (text string, err error)
	Name() string
}

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Name        string
	Model       string
	APIKey      string
	BaseURL     string // Overrides the provider endpoint, used by tests and proxies
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ProviderNames lists the supported providers.
func ProviderNames() (names []string) {
	names = []string{ProviderOpenAI, ProviderGemini, ProviderAnthropic}
	return names
}

// NormalizeProviderName maps aliases such as "chatgpt" and "claude" to provider names.
func NormalizeProviderName(name string) (normalized string) {
	normalized = strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "", "chatgpt", "gpt":
		normalized = ProviderOpenAI
	case "claude":
		normalized = ProviderAnthropic
	case "google":
		normalized = ProviderGemini
	}
	return normalized
}

// DefaultModel returns the default model for a provider.
func DefaultModel(provider string) (model string) {
	switch NormalizeProviderName(provider) {
	case ProviderGemini:
		model = GeminiModel
	case ProviderAnthropic:
		model = AnthropicModel
	default:
		model = OpenAIModel
	}
	return model
}

// NewProvider creates the provider named in cfg, filling in defaults.
func NewProvider(ctx context.Context, cfg ProviderConfig) (provider Provider, err error) {
	cfg.Name = NormalizeProviderName(cfg.Name)

	if cfg.APIKey == "" {
		err = errors.Errorf("no API key configured for provider %s", cfg.Name)
		return provider, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Name)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Name {
	case ProviderOpenAI:
		provider = newOpenAIProvider(cfg)
	case ProviderAnthropic:
		provider = newAnthropicProvider(cfg)
	case ProviderGemini:
		provider, err = newGeminiProvider(ctx, cfg)
		if err != nil {
			err = errors.Wrap(err, "failed to create Gemini client")
			return provider, err
		}
	default:
		err = errors.Errorf("unknown provider %q (supported: %s)", cfg.Name, strings.Join(ProviderNames(), ", "))
		return provider, err
	}

	return provider, err
}

// systemText joins the contents of all system messages.
func systemText(messages []Message) (text string) {
	parts := make([]string, 0, 1)
	for _, m := range messages {
		if m.Role == RoleSystem {
			parts = append(parts, m.Content)
		}
	}
	text = strings.Join(parts, "\n\n")
	return text
}

// conversation returns the non-system messages.
func conversation(messages []Message) (turns []Message) {
	turns = make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role != RoleSystem {
			turns = append(turns, m)
		}
	}
	return turns
}
