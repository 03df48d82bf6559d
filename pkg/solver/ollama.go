package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Vedant6oyal/Wiki-Runner/internal/logging"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// NameOllama identifies the local-model remote solver (Ollama chat API).
const NameOllama = "ollama"

const (
	defaultOllamaURL     = "http://localhost:11434"
	defaultOllamaModel   = "llama3.1"
	ollamaClientTimeout  = 5 * time.Minute
	ollamaApiChatPath    = "/api/chat"
	ollamaDefaultTempVal = 0.2
)

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  map[string]any      `json:"options,omitempty"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

// Ollama delegates link choice to a locally hosted model behind the Ollama
// chat API.
type Ollama struct {
	httpClient *http.Client
	baseURL    string
	model      string
	logger     *slog.Logger
}

// NewOllama creates the Ollama remote solver. baseURL and model fall back
// to local defaults when empty.
func NewOllama(baseURL, model string, logger *slog.Logger) *Ollama {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ollama{
		httpClient: &http.Client{Timeout: ollamaClientTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		logger:     logger,
	}
}

// Name implements ports.Solver.
func (o *Ollama) Name() string { return NameOllama }

// ChooseLink implements ports.Solver.
func (o *Ollama) ChooseLink(ctx context.Context, req ports.SolveRequest) (ports.Decision, error) {
	candidates, decided, ok, err := prepare(req)
	if err != nil {
		return ports.Decision{}, err
	}
	if !ok {
		return decided, nil
	}

	payload := ollamaChatRequest{
		Model: o.model,
		Messages: []ollamaChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req, candidates)},
		},
		Stream:  false,
		Options: map[string]any{"temperature": ollamaDefaultTempVal},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.Decision{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+ollamaApiChatPath, bytes.NewReader(body))
	if err != nil {
		return ports.Decision{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return ports.Decision{}, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return ports.Decision{}, fmt.Errorf("ollama API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return ports.Decision{}, fmt.Errorf("failed to parse ollama response envelope: %w", err)
	}

	dec, tier := finishDecision(apiResp.Message.Content, candidates)
	o.logger.Debug("ollama choice", "from", req.Current.Title, "link", dec.Link, "tier", tier.String())
	return dec, nil
}
