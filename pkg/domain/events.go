package domain

import (
	"context"
	"time"
)

// StepEvent describes one committed hop, for observability consumers.
type StepEvent struct {
	RunID     string        `json:"run_id"`
	Index     int           `json:"index"`
	From      string        `json:"from"`
	To        string        `json:"to"`
	Solver    string        `json:"solver"`
	Rationale string        `json:"rationale"`
	Duration  time.Duration `json:"duration"`
}

// RunEvent describes the start or end of a run.
type RunEvent struct {
	RunID    string    `json:"run_id"`
	Start    string    `json:"start"`
	Target   string    `json:"target"`
	Status   RunStatus `json:"status"`
	Steps    int       `json:"steps"`
	Reason   string    `json:"reason,omitempty"`
	Duration time.Duration
}

// LifecycleHooks defines callbacks for runtime observability. All hooks are
// optional and are invoked synchronously from the run goroutine, outside the
// runtime's lock; keep them fast.
type LifecycleHooks struct {
	OnRunStart   func(context.Context, *RunEvent)
	OnStepCommit func(context.Context, *StepEvent)
	OnRunEnd     func(context.Context, *RunEvent)
}
