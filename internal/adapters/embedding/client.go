// Package embedding implements ports.Embedder over an Ollama-compatible
// embedding endpoint, plus the process-wide shared provider used by the
// similarity solver.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

const (
	// DefaultBaseURL is the local Ollama endpoint.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is a small sentence-embedding model with 384
	// dimensions, enough for ranking short article titles.
	DefaultModel = "all-minilm"

	// DefaultDimension is the vector length DefaultModel produces.
	DefaultDimension = 384

	defaultTimeout = 30 * time.Second
)

// Client calls an Ollama /api/embed endpoint.
type Client struct {
	baseURL   string
	model     string
	dimension int
	http      *http.Client
}

var _ ports.Embedder = (*Client)(nil)

type Option func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithModel sets the embedding model name.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithDimension sets the expected vector length. Responses with a
// different length are rejected.
func WithDimension(dim int) Option {
	return func(c *Client) {
		c.dimension = dim
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates an embedding client with options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		model:     DefaultModel,
		dimension: DefaultDimension,
		http:      &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns the vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// BatchEmbed returns one vector per input text, in input order.
func (c *Client) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", domain.ErrEmbedding, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", domain.ErrEmbedding, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", domain.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: provider returned status %d: %s",
			domain.ErrEmbedding, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrEmbedding, err)
	}

	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs",
			domain.ErrEmbedding, len(out.Embeddings), len(texts))
	}
	for i, v := range out.Embeddings {
		if len(v) != c.dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d",
				domain.ErrEmbedding, i, len(v), c.dimension)
		}
	}

	return out.Embeddings, nil
}

// Dimension returns the expected vector length.
func (c *Client) Dimension() int {
	return c.dimension
}
