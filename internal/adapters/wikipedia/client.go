// Package wikipedia implements ports.GraphSource over the MediaWiki
// Action API. Articles are the graph's nodes; the outgoing links of an
// article are its edges.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Vedant6oyal/Wiki-Runner/internal/logging"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// DefaultBaseURL is the English Wikipedia Action API endpoint.
const DefaultBaseURL = "https://en.wikipedia.org/w/api.php"

const (
	userAgent = "Wiki-Runner/1.0 (https://github.com/Vedant6oyal/Wiki-Runner)"

	// linksPageSize is the pl batch size per request; 500 is the API
	// maximum for anonymous clients.
	linksPageSize = 500

	// maxLinkPages caps link-list continuation. Articles with more than
	// maxLinkPages*linksPageSize links are truncated rather than walked
	// to exhaustion.
	maxLinkPages = 4

	searchLimit = 5
)

// Client talks to a MediaWiki instance.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ ports.GraphSource = (*Client)(nil)

type Option func(*Client)

// WithBaseURL points the client at a different MediaWiki endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
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

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Wikipedia client with options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logging.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// queryResponse decodes the Action API's formatversion=2 shape: pages
// are an array and "missing" is a real boolean.
type queryResponse struct {
	Continue map[string]string `json:"continue"`
	Query    struct {
		Random []struct {
			Title string `json:"title"`
		} `json:"random"`
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
		Pages []struct {
			PageID  int    `json:"pageid"`
			Missing bool   `json:"missing"`
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Links   []struct {
				NS    int    `json:"ns"`
				Title string `json:"title"`
			} `json:"links"`
		} `json:"pages"`
	} `json:"query"`
}

// FetchNode resolves a title (following redirects) and returns the
// article with its lead extract and outgoing main-namespace links. A
// missing page yields domain.ErrNotFound.
func (c *Client) FetchNode(ctx context.Context, title string) (*domain.Node, error) {
	params := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
		"redirects":     {"1"},
		"titles":        {title},
		"prop":          {"links|extracts"},
		"plnamespace":   {"0"},
		"pllimit":       {fmt.Sprintf("%d", linksPageSize)},
		"exintro":       {"1"},
		"explaintext":   {"1"},
	}

	node := &domain.Node{}
	for page := 0; page < maxLinkPages; page++ {
		var resp queryResponse
		if err := c.get(ctx, params, &resp); err != nil {
			return nil, err
		}

		if len(resp.Query.Pages) == 0 {
			return nil, fmt.Errorf("article %q: %w", title, domain.ErrNotFound)
		}
		for _, p := range resp.Query.Pages {
			if p.Missing || p.PageID == 0 {
				return nil, fmt.Errorf("article %q: %w", title, domain.ErrNotFound)
			}
			if node.Title == "" {
				node.Title = p.Title
				node.DisplayTitle = p.Title
			}
			if node.Summary == "" {
				node.Summary = strings.TrimSpace(p.Extract)
			}
			for _, l := range p.Links {
				if l.NS == 0 {
					node.Links = append(node.Links, l.Title)
				}
			}
		}

		plcontinue, ok := resp.Continue["plcontinue"]
		if !ok {
			break
		}
		params.Set("plcontinue", plcontinue)
	}

	c.logger.Debug("fetched article",
		"title", node.Title,
		"links", len(node.Links),
	)
	return node, nil
}

// RandomTitle returns a random main-namespace article title.
func (c *Client) RandomTitle(ctx context.Context) (string, error) {
	params := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
		"list":          {"random"},
		"rnnamespace":   {"0"},
		"rnlimit":       {"1"},
	}

	var resp queryResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return "", err
	}
	if len(resp.Query.Random) == 0 {
		return "", fmt.Errorf("random query returned no articles")
	}
	return resp.Query.Random[0].Title, nil
}

// Search returns up to five article titles matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
		"list":          {"search"},
		"srsearch":      {query},
		"srlimit":       {fmt.Sprintf("%d", searchLimit)},
	}

	var resp queryResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(resp.Query.Search))
	for _, s := range resp.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out *queryResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("wikipedia returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode wikipedia response: %w", err)
	}
	return nil
}
