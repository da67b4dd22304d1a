// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package advisor

import (
	"regexp"
	"strings"
)

// citationPattern matches inline citations: [id] or [id1; id2].
var citationPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// scrubCitations removes bracket citations referencing papers outside
// the grounding set. The generation service is instructed to cite only
// grounding papers, but a hallucinated reference must never reach the
// caller. Multi-citations keep their known entries; a citation with no
// entry left is dropped entirely. Bracket content that does not look
// like a paper ID (e.g. "[see below]") is left untouched.
func scrubCitations(text string, known map[string]bool) string {
	return citationPattern.ReplaceAllStringFunc(text, func(match string) string {
		inner := match[1 : len(match)-1]

		var kept []string
		citation := false
		for _, part := range strings.Split(inner, ";") {
			id := strings.TrimSpace(part)
			if !looksLikePaperID(id) {
				kept = append(kept, id)
				continue
			}
			citation = true
			if known[id] {
				kept = append(kept, id)
			}
		}

		if !citation {
			return match
		}
		if len(kept) == 0 {
			return ""
		}
		return "[" + strings.Join(kept, "; ") + "]"
	})
}

// looksLikePaperID reports whether a bracket token resembles a paper
// identifier: no spaces and at least one digit, e.g. "2301.07041".
func looksLikePaperID(s string) bool {
	if s == "" || strings.ContainsRune(s, ' ') {
		return false
	}
	return strings.ContainsAny(s, "0123456789")
}
