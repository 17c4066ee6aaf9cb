package collab

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini is a Translator backed by the Google generative AI API.
type Gemini struct {
	client *genai.Client
	model  string
}

// GeminiOption configures a Gemini translator.
type GeminiOption func(*Gemini)

// WithGeminiModel overrides the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(p *Gemini) {
		p.model = model
	}
}

// NewGemini creates a Gemini-backed translator. The context is used
// only for client construction.
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("collab: gemini client: %w", err)
	}
	p := &Gemini{client: client, model: DefaultGeminiModel}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Close releases the underlying client.
func (p *Gemini) Close() error {
	return p.client.Close()
}

// Translate implements Translator.
func (p *Gemini) Translate(ctx context.Context, text string) (string, error) {
	reply, err := p.generate(ctx, translatePrompt, text)
	if err != nil {
		return "", err
	}
	return cleanCommand(reply)
}

// Plan implements Translator.
func (p *Gemini) Plan(ctx context.Context, goal string) ([]Step, error) {
	reply, err := p.generate(ctx, planPrompt, goal)
	if err != nil {
		return nil, err
	}
	return ParsePlan(reply)
}

// generate performs one generation round with a system instruction.
func (p *Gemini) generate(ctx context.Context, system, user string) (string, error) {
	model := p.client.GenerativeModel(p.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("collab: gemini request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyReply
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyReply
	}
	return sb.String(), nil
}
