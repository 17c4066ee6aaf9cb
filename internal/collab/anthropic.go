package collab

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is the model used when none is configured.
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// anthropicMaxTokens bounds reply length; commands and plans are short.
const anthropicMaxTokens = 1024

// Anthropic is a Translator backed by the Anthropic messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// AnthropicOption configures an Anthropic translator.
type AnthropicOption func(*Anthropic)

// WithAnthropicModel overrides the default model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(p *Anthropic) {
		p.model = model
	}
}

// NewAnthropic creates an Anthropic-backed translator.
func NewAnthropic(apiKey string, opts ...AnthropicOption) *Anthropic {
	p := &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  DefaultAnthropicModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Translate implements Translator.
func (p *Anthropic) Translate(ctx context.Context, text string) (string, error) {
	reply, err := p.message(ctx, translatePrompt, text)
	if err != nil {
		return "", err
	}
	return cleanCommand(reply)
}

// Plan implements Translator.
func (p *Anthropic) Plan(ctx context.Context, goal string) ([]Step, error) {
	reply, err := p.message(ctx, planPrompt, goal)
	if err != nil {
		return nil, err
	}
	return ParsePlan(reply)
}

// message performs one system+user message round.
func (p *Anthropic) message(ctx context.Context, system, user string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("collab: anthropic request: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		sb.WriteString(block.Text)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyReply
	}
	return sb.String(), nil
}
