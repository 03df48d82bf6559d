package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

func TestRunSummarySuccess(t *testing.T) {
	now := time.Now()
	run := &domain.Run{
		Start:      "Apollo 11",
		Target:     "Cheese",
		Status:     domain.StatusSucceeded,
		SolverName: "similarity",
		StartedAt:  now.Add(-42 * time.Second),
		FinishedAt: now,
		Steps: []domain.Step{
			{From: "Apollo 11", To: "Moon", Rationale: "closest to target"},
			{From: "Moon", To: "Cheese", Rationale: "exact match with target"},
		},
	}

	md := RunSummary(run)
	for _, want := range []string{"Reached Cheese", "Apollo 11", "| 2 | Cheese |", "2 steps"} {
		if !strings.Contains(md, want) {
			t.Errorf("summary missing %q:\n%s", want, md)
		}
	}
}

func TestRunSummaryFailure(t *testing.T) {
	run := &domain.Run{
		Start:      "A",
		Target:     "B",
		Status:     domain.StatusFailed,
		FailReason: "step budget of 40 exhausted",
	}

	md := RunSummary(run)
	if !strings.Contains(md, "Run failed") || !strings.Contains(md, "budget") {
		t.Errorf("failure summary incomplete:\n%s", md)
	}
}

func TestRunSummaryNil(t *testing.T) {
	if md := RunSummary(nil); !strings.Contains(md, "No run") {
		t.Errorf("nil summary = %q", md)
	}
}

func TestRenderMarkdownNeverReturnsEmpty(t *testing.T) {
	md := "## Reached Cheese\n\n| # | Article |\n|---|---------|\n| 1 | Moon |\n"
	out := RenderMarkdown(md)
	if strings.TrimSpace(out) == "" {
		t.Fatal("rendered output is empty")
	}
	if !strings.Contains(out, "Cheese") {
		t.Errorf("rendered output lost its content:\n%s", out)
	}
}
