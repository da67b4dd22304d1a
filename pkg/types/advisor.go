// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AdvisorRequest is a freeform research question.
type AdvisorRequest struct {
	Question string `json:"question" yaml:"question"`
}

// Briefing is the advisor's response: a synthesized answer grounded in
// retrieved papers, or a degraded quick brief when synthesis failed.
type Briefing struct {
	// Question echoes the request.
	Question string `json:"question" yaml:"question"`

	// Briefing is the synthesized text, nil in degraded mode.
	Briefing *string `json:"briefing" yaml:"briefing"`

	// Degraded is true when synthesis failed and the response carries
	// only the retrieved papers and templated follow-ups.
	Degraded bool `json:"degraded" yaml:"degraded"`

	// Papers lists the grounding papers. The briefing text never cites a
	// paper outside this set.
	Papers []PaperRef `json:"papers" yaml:"papers"`

	// FollowUps are suggested next questions.
	FollowUps []string `json:"follow_ups" yaml:"follow_ups"`
}
