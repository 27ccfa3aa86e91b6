package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/MayankD409/Resume-Personalizer/pkg/projects"
)

// Client runs the two tailoring passes against a provider.
type Client struct {
	provider   Provider
	tokenLimit int
}

// NewClient creates a tailoring client. A tokenLimit of zero uses TokenLimit.
func NewClient(provider Provider, tokenLimit int) (client *Client) {
	if tokenLimit <= 0 {
		tokenLimit = TokenLimit
	}
	client = &Client{
		provider:   provider,
		tokenLimit: tokenLimit,
	}
	return client
}

// Provider returns the provider the client sends requests to.
func (c *Client) Provider() (provider Provider) {
	provider = c.provider
	return provider
}

// SelectProjects performs Pass 1: decide which projects to include and exclude. The raw reply is
// returned alongside the parsed selection so it can be saved or shown.
func (c *Client) SelectProjects(ctx context.Context, req ProjectRequest) (sel projects.Selection, raw string, err error) {
	messages := buildPass1Messages(req, c.tokenLimit)

	raw, err = c.ask(ctx, messages)
	if err != nil {
		err = errors.Wrap(err, "project selection request failed")
		return sel, raw, err
	}

	sel, err = ValidateProjects(raw)
	if err != nil {
		return sel, raw, err
	}

	return sel, raw, err
}

// Rewrite performs Pass 2: rewrite bullets and the skills line of the updated resume.
func (c *Client) Rewrite(ctx context.Context, req RewriteRequest) (resp RewriteResponse, raw string, err error) {
	messages := buildPass2Messages(req, c.tokenLimit)

	raw, err = c.ask(ctx, messages)
	if err != nil {
		err = errors.Wrap(err, "rewrite request failed")
		return resp, raw, err
	}

	resp, err = ValidateRewrite(raw)
	if err != nil {
		return resp, raw, err
	}

	return resp, raw, err
}

// ask sends messages and strips any code fences from the reply.
func (c *Client) ask(ctx context.Context, messages []Message) (text string, err error) {
	text, err = c.provider.Ask(ctx, messages)
	if err != nil {
		return text, err
	}

	// Clean markdown code fences if present
	text = stripMarkdownCodeFences(strings.TrimSpace(text))

	return text, err
}

// stripMarkdownCodeFences removes markdown code fences from JSON responses.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = text

	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line, including any language tag
	start := strings.IndexByte(cleaned, '\n')
	if start < 0 {
		cleaned = strings.Trim(cleaned, "`")
		return cleaned
	}
	cleaned = cleaned[start+1:]

	// Find last ```
	cleaned = strings.TrimRight(cleaned, " \r\n")
	cleaned = strings.TrimSuffix(cleaned, "```")

	// Remove trailing whitespace before ```
	cleaned = strings.TrimRight(cleaned, " \r\n")

	return cleaned
}
