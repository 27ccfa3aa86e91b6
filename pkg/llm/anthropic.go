package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

// anthropicProvider talks to the Claude messages API. System messages become the system prompt.
type anthropicProvider struct {
	client anthropic.Client
	cfg    ProviderConfig
}

func newAnthropicProvider(cfg ProviderConfig) (p *anthropicProvider) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	p = &anthropicProvider{
		client: anthropic.NewClient(opts...),
		cfg:    cfg,
	}
	return p
}

func (p *anthropicProvider) Name() (name string) {
	name = ProviderAnthropic
	return name
}

// Ask sends the conversation and concatenates the text blocks of the reply.
func (p *anthropicProvider) Ask(ctx context.Context, messages []Message) (text string, err error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.cfg.Model),
		MaxTokens:   int64(p.cfg.MaxTokens),
		Temperature: anthropic.Float(p.cfg.Temperature),
	}

	if system := systemText(messages); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	for _, m := range conversation(messages) {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
	}

	var resp *anthropic.Message
	resp, err = p.client.Messages.New(ctx, params)
	if err != nil {
		err = errors.Wrap(err, "Claude messages request failed")
		return text, err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	text = b.String()
	if text == "" {
		err = errors.New("no content in Claude response")
		return text, err
	}

	return text, err
}
