// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pdiddy/paperscope/internal/corpus"
	"github.com/pdiddy/paperscope/pkg/types"
)

// BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

type posting struct {
	row   uint32
	count int
}

// KeywordRetriever scores papers with BM25 over their lexical terms.
// The inverted index is built once per snapshot and never mutated, so
// concurrent queries share it without locking.
type KeywordRetriever struct {
	snap        *corpus.Snapshot
	inverted    map[string][]posting
	docLengths  []int
	totalLength int64
}

// NewKeywordRetriever builds the inverted index from the snapshot's
// lexical terms.
func NewKeywordRetriever(snap *corpus.Snapshot) *KeywordRetriever {
	r := &KeywordRetriever{
		snap:       snap,
		inverted:   make(map[string][]posting),
		docLengths: make([]int, snap.Len()),
	}

	papers := snap.Papers()
	for i := range papers {
		row := uint32(i)
		terms := papers[i].LexicalTerms
		r.docLengths[i] = len(terms)
		r.totalLength += int64(len(terms))

		tf := make(map[string]int, len(terms))
		for _, t := range terms {
			tf[t]++
		}
		for t, count := range tf {
			r.inverted[t] = append(r.inverted[t], posting{row: row, count: count})
		}
	}
	return r
}

// Mode returns the retriever identifier.
func (r *KeywordRetriever) Mode() types.RetrievalMode { return types.ModeKeyword }

// Retrieve scores the query terms against the inverted index, restricted
// to the allowed rows.
func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, allowed *roaring.Bitmap, k int) ([]Candidate, error) {
	if r.snap == nil || r.snap.Len() == 0 {
		return nil, fmt.Errorf("%w: keyword index is empty", types.ErrRetrievalUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRetrievalUnavailable, err)
	}

	tokens := corpus.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	avgDL := float64(r.totalLength) / float64(r.snap.Len())
	scores := make(map[uint32]float64)

	for _, t := range tokens {
		postings, ok := r.inverted[t]
		if !ok {
			continue
		}

		idf := r.idf(len(postings))
		for _, p := range postings {
			if allowed != nil && !allowed.Contains(p.row) {
				continue
			}
			tf := float64(p.count)
			docLen := float64(r.docLengths[p.row])
			num := tf * (bm25K1 + 1)
			denom := tf + bm25K1*(1-bm25B+bm25B*(docLen/avgDL))
			scores[p.row] += idf * (num / denom)
		}
	}

	cands := make([]Candidate, 0, len(scores))
	for row, score := range scores {
		cands = append(cands, Candidate{
			Row:     row,
			PaperID: r.snap.Paper(row).ID,
			Score:   score,
			Mode:    types.ModeKeyword,
		})
	}
	sortCandidates(cands)
	return truncate(cands, k), nil
}

// idf computes log(1 + (N - n + 0.5) / (n + 0.5)).
func (r *KeywordRetriever) idf(df int) float64 {
	N := float64(r.snap.Len())
	n := float64(df)
	return math.Log(1 + (N-n+0.5)/(n+0.5))
}
