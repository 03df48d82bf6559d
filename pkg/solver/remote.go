package solver

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// systemPrompt frames the task for every remote reasoning solver.
const systemPrompt = `You are playing the Wikipedia game: reach the target article using only links on the current article. Reply with a single JSON object of the form {"link": "<one of the listed links, verbatim>", "rationale": "<one sentence>"} and nothing else.`

// maxSummaryChars bounds how much of the article extract goes into the
// prompt.
const maxSummaryChars = 1200

// buildPrompt renders the user message for a remote model: current article
// summary, target, path so far and the filtered candidate links.
func buildPrompt(req ports.SolveRequest, candidates []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current article: %s\n", req.Current.Title)
	if summary := strings.TrimSpace(req.Current.Summary); summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", truncateSummary(summary))
	}
	fmt.Fprintf(&b, "Target article: %s\n", req.Target)
	if len(req.Path) > 0 {
		fmt.Fprintf(&b, "Path so far: %s\n", strings.Join(req.Path, " -> "))
	}
	b.WriteString("Links on the current article:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("Pick the link most likely to lead toward the target.")

	return b.String()
}

// truncateSummary caps the extract at maxSummaryChars, backing up to a
// rune boundary so the prompt stays valid UTF-8.
func truncateSummary(summary string) string {
	if len(summary) <= maxSummaryChars {
		return summary
	}
	cut := maxSummaryChars
	for cut > 0 && !utf8.RuneStart(summary[cut]) {
		cut--
	}
	return summary[:cut]
}

// prepare runs the shared pre-solve steps for remote strategies: candidate
// filtering and the exact-match short-circuit. ok=false means the decision
// is already final and no model call is needed.
func prepare(req ports.SolveRequest) (candidates []string, decided ports.Decision, ok bool, err error) {
	visited := domain.NewVisitedSet(req.Path...)
	visited.Add(req.Current.Title)

	candidates, _, err = Filter(req.Current, visited)
	if err != nil {
		return nil, ports.Decision{}, false, err
	}

	for _, c := range candidates {
		if domain.SameTitle(c, req.Target) {
			return nil, ports.Decision{Link: c, Rationale: exactMatchRationale}, false, nil
		}
	}
	return candidates, ports.Decision{}, true, nil
}

// finishDecision converts raw model output into a Decision, degrading to
// the first candidate when the response is unusable.
func finishDecision(raw string, candidates []string) (ports.Decision, ParseTier) {
	dec, tier := decodeDecision(raw, candidates[0])
	rationale := strings.TrimSpace(dec.Rationale)
	if rationale == "" {
		rationale = "model gave no rationale"
	}
	return ports.Decision{Link: strings.TrimSpace(dec.Link), Rationale: rationale}, tier
}
