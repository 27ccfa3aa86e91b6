package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// geminiProvider keeps one chat session for its lifetime. The first call seeds the session
// history with every turn but the last; later calls send only the newest user turn, so Pass 2
// sees the Pass 1 exchange. The system instruction is replaced on every call.
type geminiProvider struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	session *genai.ChatSession
	cfg     ProviderConfig
	send    geminiSender
}

// geminiSender sends one message on a chat session.
type geminiSender func(ctx context.Context, session *genai.ChatSession, part genai.Part) (*genai.GenerateContentResponse, error)

func sendGeminiMessage(ctx context.Context, session *genai.ChatSession, part genai.Part) (resp *genai.GenerateContentResponse, err error) {
	resp, err = session.SendMessage(ctx, part)
	return resp, err
}

func newGeminiProvider(ctx context.Context, cfg ProviderConfig) (p *geminiProvider, err error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	var client *genai.Client
	client, err = genai.NewClient(ctx, opts...)
	if err != nil {
		return p, err
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(float32(cfg.Temperature))
	model.SetMaxOutputTokens(int32(cfg.MaxTokens)) //nolint:gosec // Bounded by config validation
	model.ResponseMIMEType = "application/json"

	p = &geminiProvider{
		client: client,
		model:  model,
		cfg:    cfg,
		send:   sendGeminiMessage,
	}
	return p, err
}

func (p *geminiProvider) Name() (name string) {
	name = ProviderGemini
	return name
}

// Close releases the underlying client.
func (p *geminiProvider) Close() (err error) {
	err = p.client.Close()
	return err
}

// Ask continues the chat session with the last message of the conversation.
func (p *geminiProvider) Ask(ctx context.Context, messages []Message) (text string, err error) {
	turns := conversation(messages)
	if len(turns) == 0 {
		err = errors.New("no user message to send to Gemini")
		return text, err
	}

	// The session reads the model's instruction at send time
	p.model.SystemInstruction = nil
	if system := systemText(messages); system != "" {
		p.model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	if p.session == nil {
		p.session = p.model.StartChat()
		p.session.History = geminiHistory(turns[:len(turns)-1])
	}

	last := turns[len(turns)-1]

	var resp *genai.GenerateContentResponse
	resp, err = p.send(ctx, p.session, genai.Text(last.Content))
	if err != nil {
		err = errors.Wrap(err, "Gemini chat request failed")
		return text, err
	}

	text, err = geminiText(resp)

	return text, err
}

// geminiHistory converts turns to session history. Gemini calls the assistant "model".
func geminiHistory(turns []Message) (history []*genai.Content) {
	history = make([]*genai.Content, 0, len(turns))
	for _, m := range turns {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return history
}

// geminiText joins the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) (text string, err error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		err = errors.New("empty response from Gemini")
		return text, err
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	text = b.String()
	if text == "" {
		err = errors.New("unexpected response format from Gemini")
		return text, err
	}

	return text, err
}
