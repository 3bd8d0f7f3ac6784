package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

// trailingCommaRe matches a comma (plus optional whitespace) immediately
// before a closing brace or bracket.
var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// RecoverJSON extracts a single JSON object from noisy model output. It
// strips markdown code fences, slices from the first '{' to the last '}',
// removes trailing commas, and as a last resort swaps single quotes for
// double quotes before re-parsing. Returns nil when no object could be
// recovered; callers must keep the original raw text for fallback display.
//
// Known limitation: the slice is a single greedy span, not a brace-matching
// parse. A response that embeds an example object in prose before the real
// answer, or that contains several independent objects, will mis-slice.
// The quote swap is equally heuristic and corrupts genuine apostrophes in
// free text. Both behaviors are intentional and covered by tests.
func RecoverJSON(raw string) map[string]any {
	if raw == "" {
		return nil
	}

	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return nil
	}
	s = s[start : end+1]

	s = trailingCommaRe.ReplaceAllString(s, "$1")

	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj
	}

	fixed := strings.ReplaceAll(s, "'", `"`)
	if err := json.Unmarshal([]byte(fixed), &obj); err == nil {
		return obj
	}

	return nil
}
