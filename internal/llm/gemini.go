package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient is a thin wrapper around the official genai client.
// It makes exactly one GenerateContent call per request.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// GeminiOption adjusts the genai client configuration.
type GeminiOption func(*genai.ClientConfig)

// WithBaseURL points the client at a different endpoint, e.g. a proxy.
func WithBaseURL(u string) GeminiOption {
	return func(c *genai.ClientConfig) {
		if strings.TrimSpace(u) != "" {
			c.HTTPOptions.BaseURL = u
		}
	}
}

func NewGeminiClient(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", ErrRequest)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, o := range opts {
		o(cfg)
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create genai client: %w", ErrRequest, err)
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON requests application/json output constrained by req.Schema.
func (g *GeminiClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
		Temperature:      req.Temperature,
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRequest, g.Name(), err)
	}
	txt := responseText(resp)
	if strings.TrimSpace(txt) == "" {
		return nil, ErrEmptyResponse
	}
	return json.RawMessage(txt), nil
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
