package solver

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vedant6oyal/Wiki-Runner/internal/logging"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// NameOpenAI identifies the OpenAI-backed remote solver.
const NameOpenAI = "openai"

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI delegates link choice to an OpenAI chat model.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAI creates the OpenAI remote solver. The model falls back to a
// small default when empty.
func NewOpenAI(apiKey, model string, logger *slog.Logger) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai solver requires an API key")
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

// Name implements ports.Solver.
func (o *OpenAI) Name() string { return NameOpenAI }

// ChooseLink implements ports.Solver.
func (o *OpenAI) ChooseLink(ctx context.Context, req ports.SolveRequest) (ports.Decision, error) {
	candidates, decided, ok, err := prepare(req)
	if err != nil {
		return ports.Decision{}, err
	}
	if !ok {
		return decided, nil
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req, candidates)},
		},
	})
	if err != nil {
		return ports.Decision{}, fmt.Errorf("openai call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ports.Decision{}, fmt.Errorf("openai returned no choices")
	}

	dec, tier := finishDecision(resp.Choices[0].Message.Content, candidates)
	o.logger.Debug("openai choice", "from", req.Current.Title, "link", dec.Link, "tier", tier.String())
	return dec, nil
}
