// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package advisor

import (
	"fmt"
	"strings"
)

// intent is the coarse goal detected in a research question, used to
// pick follow-up prompt templates in degraded mode.
type intent string

const (
	intentSurvey         intent = "survey"
	intentImplementation intent = "implementation"
	intentComparison     intent = "comparison"
	intentExploration    intent = "exploration"
)

// intentMarkers maps an intent to question phrases that signal it.
// First match wins in the order below.
var intentMarkers = []struct {
	intent  intent
	markers []string
}{
	{intentComparison, []string{"compare", " versus ", " vs ", " vs.", "difference between", "better than", "trade-off", "tradeoff"}},
	{intentImplementation, []string{"implement", "build", "deploy", "production", "code for", "apply", "mobile", "on-device", "real-time"}},
	{intentSurvey, []string{"survey", "overview", "state of the art", "state-of-the-art", "review of", "landscape", "researching", "getting started"}},
}

// detectIntent classifies a question by keyword markers.
func detectIntent(question string) intent {
	q := " " + strings.ToLower(question) + " "
	for _, im := range intentMarkers {
		for _, m := range im.markers {
			if strings.Contains(q, m) {
				return im.intent
			}
		}
	}
	return intentExploration
}

// templatedFollowUps returns canned follow-up prompts for an intent.
// Used when synthesis is degraded or returned no prompts of its own.
func templatedFollowUps(it intent, question string) []string {
	topic := strings.TrimSpace(question)
	switch it {
	case intentSurvey:
		return []string{
			fmt.Sprintf("Which of these papers on %q are most cited?", topic),
			"Show only papers with released code.",
			"What are the emerging topics in this area?",
		}
	case intentImplementation:
		return []string{
			"Show only papers with released code.",
			fmt.Sprintf("Which benchmarks do papers on %q evaluate against?", topic),
			"Filter to beginner or intermediate difficulty.",
		}
	case intentComparison:
		return []string{
			fmt.Sprintf("Find papers that directly compare the approaches in %q.", topic),
			"Find papers that cite these works.",
			"Restrict to the last two years.",
		}
	default:
		return []string{
			"Find papers that cite these works.",
			"Show only papers with released code.",
			"Restrict to the last two years.",
		}
	}
}
