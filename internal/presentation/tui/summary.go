package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

// RenderMarkdown renders markdown for the terminal, detecting the
// light/dark background. When the renderer cannot be constructed the
// markdown is returned untouched, so callers always get something
// printable.
func RenderMarkdown(markdown string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

// RunSummary formats a finished run as markdown, ready for the glamour
// renderer.
func RunSummary(run *domain.Run) string {
	if run == nil {
		return "## No run\n"
	}

	var b strings.Builder

	switch run.Status {
	case domain.StatusSucceeded:
		fmt.Fprintf(&b, "## Reached %s 🎉\n\n", run.Target)
	case domain.StatusFailed:
		fmt.Fprintf(&b, "## Run failed\n\n> %s\n\n", run.FailReason)
	default:
		fmt.Fprintf(&b, "## Run %s\n\n", run.Status)
	}

	fmt.Fprintf(&b, "**%s** → **%s** · %d steps · solver `%s`\n\n",
		run.Start, run.Target, len(run.Steps), run.SolverName)

	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "Took %s.\n\n", run.FinishedAt.Sub(run.StartedAt).Round(10*time.Millisecond))
	}

	if len(run.Steps) > 0 {
		b.WriteString("| # | Article | Rationale |\n")
		b.WriteString("|---|---------|----------|\n")
		fmt.Fprintf(&b, "| 0 | %s | starting article |\n", run.Start)
		for i, s := range run.Steps {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, s.To, s.Rationale)
		}
	}

	return b.String()
}
