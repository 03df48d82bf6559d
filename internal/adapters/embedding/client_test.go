package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

func embedHandler(t *testing.T, dim int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		vectors := make([][]float32, len(req.Input))
		for i := range vectors {
			v := make([]float32, dim)
			v[0] = float32(i + 1)
			vectors[i] = v
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model":      req.Model,
			"embeddings": vectors,
		})
	}
}

func TestBatchEmbed(t *testing.T) {
	srv := httptest.NewServer(embedHandler(t, 4))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithDimension(4))
	vectors, err := client.BatchEmbed(context.Background(), []string{"moon", "sun", "cheese"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
	for i, v := range vectors {
		if len(v) != 4 {
			t.Errorf("vector %d has dimension %d", i, len(v))
		}
		if v[0] != float32(i+1) {
			t.Errorf("vector %d out of input order", i)
		}
	}
}

func TestBatchEmbedDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(embedHandler(t, 3))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithDimension(4))
	_, err := client.BatchEmbed(context.Background(), []string{"moon"})
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding for a dimension mismatch, got %v", err)
	}
}

func TestBatchEmbedProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Embed(context.Background(), "moon")
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
}

func TestBatchEmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{make([]float32, DefaultDimension)},
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.BatchEmbed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding for a count mismatch, got %v", err)
	}
}

func TestSharedConvergesConcurrentInit(t *testing.T) {
	ResetShared()
	t.Cleanup(ResetShared)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		embedHandler(t, 4)(w, r)
	}))
	defer srv.Close()

	cfg := SharedConfig{BaseURL: srv.URL, Dimension: 4}

	var wg sync.WaitGroup
	clients := make([]*Client, 8)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := Shared(context.Background(), cfg)
			if err != nil {
				t.Errorf("Shared failed: %v", err)
				return
			}
			clients[i] = c
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("warmup ran %d times, want exactly 1", calls.Load())
	}
	for _, c := range clients[1:] {
		if c != clients[0] {
			t.Error("concurrent callers must converge on one client")
		}
	}
}

func TestSharedFailureSticksUntilReset(t *testing.T) {
	ResetShared()
	t.Cleanup(ResetShared)

	healthy := atomic.Bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			http.Error(w, "loading", http.StatusServiceUnavailable)
			return
		}
		embedHandler(t, 4)(w, r)
	}))
	defer srv.Close()

	cfg := SharedConfig{BaseURL: srv.URL, Dimension: 4}

	if _, err := Shared(context.Background(), cfg); err == nil {
		t.Fatal("expected the first init to fail")
	}
	if _, err := Shared(context.Background(), cfg); err == nil {
		t.Fatal("failure must stick without a reset")
	}

	healthy.Store(true)
	ResetShared()

	if _, err := Shared(context.Background(), cfg); err != nil {
		t.Fatalf("Shared after reset failed: %v", err)
	}
}
