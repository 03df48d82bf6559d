package solver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ParseTier records how much recovery was needed to turn a model response
// into a decision.
type ParseTier int

const (
	// TierParsed means the raw response was valid JSON as-is.
	TierParsed ParseTier = iota
	// TierRecovered means a well-formed object was extracted from
	// surrounding noise (markdown fences, prose).
	TierRecovered
	// TierDefaulted means nothing usable was found and the caller's
	// fallback link was substituted.
	TierDefaulted
)

func (t ParseTier) String() string {
	switch t {
	case TierParsed:
		return "parsed"
	case TierRecovered:
		return "recovered"
	default:
		return "defaulted"
	}
}

// modelDecision is the shape remote models are asked to reply with.
type modelDecision struct {
	Link      string `json:"link" mapstructure:"link"`
	Rationale string `json:"rationale" mapstructure:"rationale"`
}

// decodeDecision turns raw model output into a (link, rationale) pair.
//
// Tier 1 is strict json.Unmarshal of the whole response. Tier 2 extracts
// the first balanced {...} substring and decodes it loosely, tolerating
// wrong value types. Tier 3 substitutes the fallback link with a rationale
// noting the parse failure. A parse problem never escapes this function;
// edge-membership of the returned link is the runtime's job.
func decodeDecision(raw, fallback string) (modelDecision, ParseTier) {
	trimmed := strings.TrimSpace(raw)

	var dec modelDecision
	if err := json.Unmarshal([]byte(trimmed), &dec); err == nil && dec.Link != "" {
		return dec, TierParsed
	}

	if obj := firstJSONObject(trimmed); obj != "" {
		var loose map[string]any
		if err := json.Unmarshal([]byte(obj), &loose); err == nil {
			var rec modelDecision
			cfg := &mapstructure.DecoderConfig{
				Result:           &rec,
				WeaklyTypedInput: true,
			}
			if d, err := mapstructure.NewDecoder(cfg); err == nil {
				if err := d.Decode(loose); err == nil && rec.Link != "" {
					return rec, TierRecovered
				}
			}
		}
	}

	return modelDecision{
		Link:      fallback,
		Rationale: fmt.Sprintf("model response was unparsable, defaulted to first candidate %q", fallback),
	}, TierDefaulted
}

// firstJSONObject returns the first balanced top-level {...} substring, or
// "" if none exists. Braces inside JSON strings are skipped.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
