package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestFetchNode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "query" || q.Get("redirects") != "1" {
			t.Errorf("unexpected query params: %v", q)
		}
		if q.Get("formatversion") != "2" {
			t.Error("requests must ask for formatversion=2")
		}
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("missing User-Agent header")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"query": map[string]any{
				"pages": []map[string]any{
					{
						"pageid":  9228,
						"title":   "Moon",
						"extract": "The Moon is Earth's only natural satellite.",
						"links": []map[string]any{
							{"ns": 0, "title": "Earth"},
							{"ns": 0, "title": "Apollo 11"},
							{"ns": 14, "title": "Category:Moons"},
						},
					},
				},
			},
		})
	})

	node, err := client.FetchNode(context.Background(), "moon")
	if err != nil {
		t.Fatalf("FetchNode failed: %v", err)
	}
	if node.Title != "Moon" {
		t.Errorf("title = %q, want resolved %q", node.Title, "Moon")
	}
	if node.Summary == "" {
		t.Error("expected a lead extract")
	}
	if len(node.Links) != 2 {
		t.Fatalf("links = %v, want the 2 main-namespace links only", node.Links)
	}
	if node.Links[0] != "Earth" || node.Links[1] != "Apollo 11" {
		t.Errorf("unexpected links %v", node.Links)
	}
}

func TestFetchNodeMissingPage(t *testing.T) {
	// The exact bytes the live API sends for a missing title under
	// formatversion=2.
	const payload = `{"batchcomplete":true,"query":{"pages":[{"ns":0,"title":"Xyzzy","missing":true}]}}`
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	})

	_, err := client.FetchNode(context.Background(), "Xyzzy")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchNodeEmptyPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"query": map[string]any{"pages": []map[string]any{}},
		})
	})

	_, err := client.FetchNode(context.Background(), "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchNodeFollowsContinuation(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		page := map[string]any{
			"query": map[string]any{
				"pages": []map[string]any{
					{
						"pageid": 1,
						"title":  "Lists",
						"links": []map[string]any{
							{"ns": 0, "title": "Link " + r.URL.Query().Get("plcontinue")},
						},
					},
				},
			},
		}
		if calls == 1 {
			page["continue"] = map[string]string{"plcontinue": "1|0|Next"}
		}
		json.NewEncoder(w).Encode(page)
	})

	node, err := client.FetchNode(context.Background(), "Lists")
	if err != nil {
		t.Fatalf("FetchNode failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 requests, got %d", calls)
	}
	if len(node.Links) != 2 {
		t.Errorf("links = %v, want links merged across pages", node.Links)
	}
}

func TestFetchNodeContinuationCap(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		// Always signals more pages; the client must stop on its own.
		json.NewEncoder(w).Encode(map[string]any{
			"continue": map[string]string{"plcontinue": "1|0|More"},
			"query": map[string]any{
				"pages": []map[string]any{
					{
						"pageid": 1,
						"title":  "Endless",
						"links":  []map[string]any{{"ns": 0, "title": "A"}},
					},
				},
			},
		})
	})

	if _, err := client.FetchNode(context.Background(), "Endless"); err != nil {
		t.Fatalf("FetchNode failed: %v", err)
	}
	if calls != maxLinkPages {
		t.Errorf("made %d requests, want the cap of %d", calls, maxLinkPages)
	}
}

func TestFetchNodeServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream sad", http.StatusBadGateway)
	})

	_, err := client.FetchNode(context.Background(), "Moon")
	if err == nil {
		t.Fatal("expected an error for a 502 response")
	}
}

func TestRandomTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("rnnamespace") != "0" {
			t.Error("random query must be restricted to the main namespace")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"query": map[string]any{
				"random": []map[string]any{{"title": "Banana equivalent dose"}},
			},
		})
	})

	title, err := client.RandomTitle(context.Background())
	if err != nil {
		t.Fatalf("RandomTitle failed: %v", err)
	}
	if title != "Banana equivalent dose" {
		t.Errorf("title = %q", title)
	}
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("srsearch") != "apollo" {
			t.Errorf("srsearch = %q", r.URL.Query().Get("srsearch"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"query": map[string]any{
				"search": []map[string]any{
					{"title": "Apollo 11"},
					{"title": "Apollo program"},
				},
			},
		})
	})

	titles, err := client.Search(context.Background(), "apollo")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(titles) != 2 || titles[0] != "Apollo 11" {
		t.Errorf("titles = %v", titles)
	}
}
