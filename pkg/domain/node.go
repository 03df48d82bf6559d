package domain

// Node is one article in the traversed graph: a canonical title, a short
// summary and the ordered list of outgoing link titles exactly as the source
// returned them (duplicates included). A Node is immutable once fetched for
// a given step.
type Node struct {
	// Title is the resolved article title (after redirect following).
	Title string `json:"title"`

	// DisplayTitle is the human-readable form, if it differs from Title.
	DisplayTitle string `json:"display_title,omitempty"`

	// Summary is the article's lead extract, used as context for solvers.
	Summary string `json:"summary,omitempty"`

	// Links are the outgoing link titles in source order. May contain
	// duplicates; order is significant for candidate truncation.
	Links []string `json:"links"`
}

// HasLink reports whether the node has an outgoing edge to the given title,
// compared canonically.
func (n *Node) HasLink(title string) bool {
	want := CanonicalTitle(title)
	for _, l := range n.Links {
		if CanonicalTitle(l) == want {
			return true
		}
	}
	return false
}
