// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ai wraps the external embedding and generation services. Both
// are fallible, latency-bearing remote calls: every client carries a
// request timeout, client-side rate limiting, and retry with backoff,
// and callers treat failures as degradation signals rather than hangs.
package ai

import (
	"context"

	"github.com/pdiddy/paperscope/pkg/types"
)

// Embedder turns query text into a vector in the same space as the
// corpus embeddings. Implementations must be safe for concurrent use.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// SynthesisResult is the structured output of a synthesis call.
type SynthesisResult struct {
	// Briefing is the generated text.
	Briefing string `json:"briefing"`

	// Citations lists the paper IDs the briefing references. The advisor
	// filters this against the grounding set before returning anything.
	Citations []string `json:"citations"`

	// FollowUps are model-suggested next questions.
	FollowUps []string `json:"follow_ups"`
}

// Synthesizer produces a research briefing grounded in the supplied
// papers. Implementations must be safe for concurrent use.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, grounding []types.PaperRef) (SynthesisResult, error)
}
