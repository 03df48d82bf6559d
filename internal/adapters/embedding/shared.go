package embedding

import (
	"context"
	"fmt"
	"sync"
)

// SharedConfig parameterizes the process-wide shared provider.
type SharedConfig struct {
	BaseURL   string
	Model     string
	Dimension int // 0 means DefaultDimension
}

type sharedState int

const (
	sharedUnloaded sharedState = iota
	sharedLoading
	sharedReady
	sharedFailed
)

// sharedProvider lazily initializes one embedding client per process.
// Concurrent first callers converge on a single initialization; after a
// failure every caller gets the same error until ResetShared.
var shared = struct {
	mu     sync.Mutex
	state  sharedState
	waitCh chan struct{}
	client *Client
	err    error
}{}

// Shared returns the process-wide embedding client, initializing it on
// first use. Initialization probes the provider with a one-text embed so
// a misconfigured endpoint fails here rather than mid-run.
func Shared(ctx context.Context, cfg SharedConfig) (*Client, error) {
	shared.mu.Lock()
	switch shared.state {
	case sharedReady:
		c := shared.client
		shared.mu.Unlock()
		return c, nil
	case sharedFailed:
		err := shared.err
		shared.mu.Unlock()
		return nil, err
	case sharedLoading:
		wait := shared.waitCh
		shared.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return Shared(ctx, cfg)
	}

	// First caller performs the load.
	shared.state = sharedLoading
	shared.waitCh = make(chan struct{})
	shared.mu.Unlock()

	client, err := initShared(ctx, cfg)

	shared.mu.Lock()
	if err != nil {
		shared.state = sharedFailed
		shared.err = fmt.Errorf("embedding provider unavailable: %w", err)
	} else {
		shared.state = sharedReady
		shared.client = client
	}
	close(shared.waitCh)
	shared.waitCh = nil
	result, resultErr := shared.client, shared.err
	shared.mu.Unlock()

	return result, resultErr
}

// ResetShared drops the shared provider so the next Shared call
// re-initializes. Intended for recovery after a transient failure and
// for tests.
func ResetShared() {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.state == sharedLoading {
		return // the in-flight load will publish its own outcome
	}
	shared.state = sharedUnloaded
	shared.client = nil
	shared.err = nil
}

func initShared(ctx context.Context, cfg SharedConfig) (*Client, error) {
	opts := []Option{}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, WithModel(cfg.Model))
	}
	if cfg.Dimension > 0 {
		opts = append(opts, WithDimension(cfg.Dimension))
	}
	client := NewClient(opts...)

	if _, err := client.Embed(ctx, "warmup"); err != nil {
		return nil, err
	}
	return client, nil
}
