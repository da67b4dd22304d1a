// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval implements the two query executors over the paper
// index: a lexical BM25 retriever and an embedding-based semantic
// retriever. Both return scored candidate lists restricted to an
// allowed-row bitmap computed by the facet engine, and both fail with
// ErrRetrievalUnavailable instead of hanging or silently returning
// nothing when their backend is down.
package retrieval

import (
	"context"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pdiddy/paperscope/pkg/types"
)

// Candidate is one scored retrieval hit. Raw scores are comparable only
// within a single retriever's list; fusion normalizes before merging.
type Candidate struct {
	Row     uint32
	PaperID string
	Score   float64
	Mode    types.RetrievalMode
}

// Retriever executes a query against the paper index.
type Retriever interface {
	// Mode identifies the retriever in candidates and error reports.
	Mode() types.RetrievalMode

	// Retrieve returns up to k candidates among the allowed rows, ordered
	// by score descending. A nil allowed bitmap means no restriction.
	Retrieve(ctx context.Context, query string, allowed *roaring.Bitmap, k int) ([]Candidate, error)
}

// sortCandidates orders by score descending with paper ID ascending as
// the tie-break, so a retriever's output is deterministic.
func sortCandidates(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].PaperID < cands[j].PaperID
	})
}

// truncate caps the candidate list at k.
func truncate(cands []Candidate, k int) []Candidate {
	if k > 0 && len(cands) > k {
		return cands[:k]
	}
	return cands
}
