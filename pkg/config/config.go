package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/MayankD409/Resume-Personalizer/pkg/llm"
)

// Defaults used when the config file leaves a field empty.
const (
	DefaultTemplatePath = "templates/base_resume.tex"
	DefaultOutputDir    = "output"
)

// Environment variables that override file settings.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvModel        = "DEFAULT_MODEL"
	EnvProvider     = "RESUME_TAILOR_PROVIDER"
)

// Config represents the application configuration.
type Config struct {
	Provider        string  `json:"provider" validate:"required,oneof=openai gemini anthropic"`
	Model           string  `json:"model,omitempty"`
	OpenAIAPIKey    string  `json:"openai_api_key,omitempty"`
	GeminiAPIKey    string  `json:"gemini_api_key,omitempty"`
	AnthropicAPIKey string  `json:"anthropic_api_key,omitempty"`
	TemplatePath    string  `json:"template_path" validate:"required"`
	OutputDir       string  `json:"output_dir" validate:"required"`
	Temperature     float64 `json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens       int     `json:"max_tokens" validate:"gte=1,lte=65536"`
	TokenLimit      int     `json:"token_limit" validate:"gte=1000"`
}

// Default returns the configuration used when no config file exists.
func Default() (cfg Config) {
	cfg = Config{
		Provider:     llm.ProviderOpenAI,
		TemplatePath: DefaultTemplatePath,
		OutputDir:    DefaultOutputDir,
		Temperature:  llm.DefaultTemperature,
		MaxTokens:    llm.DefaultMaxTokens,
		TokenLimit:   llm.TokenLimit,
	}
	return cfg
}

// DefaultPath returns $HOME/.resume-tailor/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".resume-tailor", "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides. With an empty
// configPath the default location is used, and a missing default file just means defaults.
// An explicit configPath must exist.
func Load(configPath string) (cfg Config, err error) {
	cfg = Default()

	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		// Parse JSON over the defaults
		err = json.Unmarshal(data, &cfg)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	case os.IsNotExist(err) && configPath == "":
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'resume-tailor init' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()
	cfg.Provider = llm.NormalizeProviderName(cfg.Provider)

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// applyEnv overrides file settings with environment variables that are set.
func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{EnvOpenAIKey, &c.OpenAIAPIKey},
		{EnvGeminiKey, &c.GeminiAPIKey},
		{EnvAnthropicKey, &c.AnthropicAPIKey},
		{EnvModel, &c.Model},
		{EnvProvider, &c.Provider},
	}

	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// Validate checks field ranges and the provider name.
func (c *Config) Validate() (err error) {
	validate := validator.New()

	err = validate.Struct(c)
	if err == nil {
		return err
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed '%s' (value %v)", jsonName(fe.StructField()), fe.Tag(), fe.Value()))
	}
	err = errors.New(strings.Join(problems, "; "))

	return err
}

// APIKey returns the key configured for provider.
func (c *Config) APIKey(provider string) (key string) {
	switch llm.NormalizeProviderName(provider) {
	case llm.ProviderGemini:
		key = c.GeminiAPIKey
	case llm.ProviderAnthropic:
		key = c.AnthropicAPIKey
	default:
		key = c.OpenAIAPIKey
	}
	return key
}

// ProviderConfig builds the llm settings for provider, or for the configured provider when
// provider is empty. model overrides the configured model when set.
func (c *Config) ProviderConfig(provider, model string) (pc llm.ProviderConfig, err error) {
	if provider == "" {
		provider = c.Provider
	}
	provider = llm.NormalizeProviderName(provider)

	if model == "" && provider == c.Provider {
		model = c.Model
	}

	pc = llm.ProviderConfig{
		Name:        provider,
		Model:       model,
		APIKey:      c.APIKey(provider),
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}

	if pc.APIKey == "" {
		err = errors.Errorf("no API key for provider %s (set %s_api_key in config or %s)", provider, provider, envKeyFor(provider))
		return pc, err
	}

	return pc, err
}

func envKeyFor(provider string) (env string) {
	switch provider {
	case llm.ProviderGemini:
		env = EnvGeminiKey
	case llm.ProviderAnthropic:
		env = EnvAnthropicKey
	default:
		env = EnvOpenAIKey
	}
	return env
}

// jsonName maps a struct field name to its JSON key for error messages.
func jsonName(field string) (name string) {
	name = field
	if f, ok := configFields[field]; ok {
		name = f
	}
	return name
}

//nolint:gochecknoglobals // Read-only field table
var configFields = map[string]string{
	"Provider":     "provider",
	"TemplatePath": "template_path",
	"OutputDir":    "output_dir",
	"Temperature":  "temperature",
	"MaxTokens":    "max_tokens",
	"TokenLimit":   "token_limit",
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (path string, err error) {
	// Determine config file location
	path = configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return path, err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return path, err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return path, err
	}

	defaultConfig := Default()
	defaultConfig.Model = llm.OpenAIModel
	defaultConfig.OpenAIAPIKey = "sk-..."

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return path, err
	}

	err = os.WriteFile(path, append(data, '\n'), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return path, err
	}

	return path, err
}
