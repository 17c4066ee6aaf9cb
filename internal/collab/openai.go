package collab

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is the model used when none is configured.
const DefaultOpenAIModel = openai.ChatModelGPT4oMini

// OpenAI is a Translator backed by the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// OpenAIOption configures an OpenAI translator.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel overrides the default model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAI) {
		p.model = model
	}
}

// NewOpenAI creates an OpenAI-backed translator.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	p := &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  DefaultOpenAIModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Translate implements Translator.
func (p *OpenAI) Translate(ctx context.Context, text string) (string, error) {
	reply, err := p.chat(ctx, translatePrompt, text)
	if err != nil {
		return "", err
	}
	return cleanCommand(reply)
}

// Plan implements Translator.
func (p *OpenAI) Plan(ctx context.Context, goal string) ([]Step, error) {
	reply, err := p.chat(ctx, planPrompt, goal)
	if err != nil {
		return nil, err
	}
	return ParsePlan(reply)
}

// chat performs one system+user completion round.
func (p *OpenAI) chat(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("collab: openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
