package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Vedant6oyal/Wiki-Runner/internal/logging"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// NameAnthropic identifies the Anthropic-backed remote solver.
const NameAnthropic = "anthropic"

const (
	anthropicAPIVersion    = "2023-06-01"
	defaultAnthropicURL    = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel  = "claude-3-5-haiku-latest"
	anthropicMaxTokens     = 1024
	anthropicClientTimeout = 60 * time.Second
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Anthropic delegates link choice to an Anthropic messages-API model.
type Anthropic struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *slog.Logger
}

// AnthropicOption configures the Anthropic solver.
type AnthropicOption func(*Anthropic)

// WithAnthropicBaseURL overrides the API endpoint (tests).
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(a *Anthropic) {
		a.baseURL = url
	}
}

// WithAnthropicHTTPClient injects a custom HTTP client.
func WithAnthropicHTTPClient(c *http.Client) AnthropicOption {
	return func(a *Anthropic) {
		a.httpClient = c
	}
}

// NewAnthropic creates the Anthropic remote solver.
func NewAnthropic(apiKey, model string, logger *slog.Logger, opts ...AnthropicOption) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic solver requires an API key")
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	a := &Anthropic{
		httpClient: &http.Client{Timeout: anthropicClientTimeout},
		baseURL:    defaultAnthropicURL,
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name implements ports.Solver.
func (a *Anthropic) Name() string { return NameAnthropic }

// ChooseLink implements ports.Solver.
func (a *Anthropic) ChooseLink(ctx context.Context, req ports.SolveRequest) (ports.Decision, error) {
	candidates, decided, ok, err := prepare(req)
	if err != nil {
		return ports.Decision{}, err
	}
	if !ok {
		return decided, nil
	}

	payload := anthropicRequest{
		Model:  a.model,
		System: systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(req, candidates)},
		},
		MaxTokens: anthropicMaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.Decision{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return ports.Decision{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return ports.Decision{}, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return ports.Decision{}, fmt.Errorf("anthropic API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return ports.Decision{}, fmt.Errorf("failed to parse anthropic response envelope: %w", err)
	}
	if apiResp.Error != nil {
		return ports.Decision{}, fmt.Errorf("anthropic API error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	dec, tier := finishDecision(text, candidates)
	a.logger.Debug("anthropic choice", "from", req.Current.Title, "link", dec.Link, "tier", tier.String())
	return dec, nil
}
