package llm

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider talks to the chat completions API in JSON mode.
type openAIProvider struct {
	client *openai.Client
	cfg    ProviderConfig
}

func newOpenAIProvider(cfg ProviderConfig) (p *openAIProvider) {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	p = &openAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
	return p
}

func (p *openAIProvider) Name() (name string) {
	name = ProviderOpenAI
	return name
}

// Ask sends the whole conversation and returns the first choice.
func (p *openAIProvider) Ask(ctx context.Context, messages []Message) (text string, err error) {
	chat := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chat = append(chat, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	var resp openai.ChatCompletionResponse
	resp, err = p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Messages:    chat,
		Temperature: float32(p.cfg.Temperature),
		MaxTokens:   p.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		err = errors.Wrap(err, "OpenAI chat completion failed")
		return text, err
	}

	if len(resp.Choices) == 0 {
		err = errors.New("no choices in OpenAI response")
		return text, err
	}

	text = resp.Choices[0].Message.Content

	return text, err
}
