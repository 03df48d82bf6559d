package domain

import "time"

// RunStatus defines the current mode of the run state machine.
type RunStatus string

const (
	StatusIdle        RunStatus = "idle"         // No run in progress
	StatusStarting    RunStatus = "starting"     // Fetching the start article
	StatusPlaying     RunStatus = "playing"      // Between steps, ready to tick
	StatusLoadingStep RunStatus = "loading_step" // A step is in flight
	StatusPaused      RunStatus = "paused"       // Parked at a step boundary
	StatusSucceeded   RunStatus = "succeeded"    // Target reached (terminal)
	StatusFailed      RunStatus = "failed"       // Run declared failed (terminal)
)

// Terminal reports whether the status is a terminal outcome.
func (s RunStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Step is an immutable record of one committed hop. It is appended to the
// run history only after the destination was confirmed to be an actual
// outgoing edge of the previous article.
type Step struct {
	From      string        `json:"from"`
	To        string        `json:"to"`
	Rationale string        `json:"rationale"`
	Solver    string        `json:"solver"`
	At        time.Time     `json:"at"`
	Duration  time.Duration `json:"duration"`
}

// Run is the mutable aggregate of one mission. Exactly one Run exists per
// runner; the runtime exclusively owns and mutates it, everything else sees
// copies.
type Run struct {
	ID         string        `json:"id"`
	Start      string        `json:"start"`
	Target     string        `json:"target"`
	Current    *Node         `json:"current,omitempty"`
	Status     RunStatus     `json:"status"`
	Steps      []Step        `json:"steps"`
	StepBudget int           `json:"step_budget"`
	WallBudget time.Duration `json:"wall_budget"`
	SolverName string        `json:"solver"`
	StartedAt  time.Time     `json:"started_at,omitempty"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`

	// FailReason carries the human-readable reason when Status is failed.
	FailReason string `json:"fail_reason,omitempty"`
}

// Visited derives the set of canonical keys seen in history plus the
// current article. It is recomputed, never stored.
func (r *Run) Visited() VisitedSet {
	v := NewVisitedSet(r.Start)
	for _, s := range r.Steps {
		v.Add(s.To)
	}
	if r.Current != nil {
		v.Add(r.Current.Title)
	}
	return v
}

// Path returns the ordered article titles traversed so far, starting at the
// start article.
func (r *Run) Path() []string {
	path := make([]string, 0, len(r.Steps)+1)
	path = append(path, r.Start)
	for _, s := range r.Steps {
		path = append(path, s.To)
	}
	return path
}

// Clone returns a deep copy safe to hand to readers outside the runtime.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	out := *r
	out.Steps = append([]Step(nil), r.Steps...)
	if r.Current != nil {
		node := *r.Current
		node.Links = append([]string(nil), r.Current.Links...)
		out.Current = &node
	}
	return &out
}
