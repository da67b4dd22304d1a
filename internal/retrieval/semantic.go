// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pdiddy/paperscope/internal/ai"
	"github.com/pdiddy/paperscope/internal/corpus"
	"github.com/pdiddy/paperscope/pkg/types"
)

// SemanticRetriever embeds the query through the external embedding
// service and ranks papers by cosine similarity against the snapshot's
// embedding matrix. The embedding call runs under its own timeout
// budget; exceeding it is a retrieval failure, not a hang.
type SemanticRetriever struct {
	snap     *corpus.Snapshot
	embedder ai.Embedder
	timeout  time.Duration

	// norms caches the vector norm per row; zero marks rows without an
	// embedding, which semantic retrieval skips.
	norms []float64
}

// NewSemanticRetriever precomputes the per-row embedding norms.
func NewSemanticRetriever(snap *corpus.Snapshot, embedder ai.Embedder, timeout time.Duration) *SemanticRetriever {
	r := &SemanticRetriever{
		snap:     snap,
		embedder: embedder,
		timeout:  timeout,
		norms:    make([]float64, snap.Len()),
	}
	papers := snap.Papers()
	for i := range papers {
		r.norms[i] = vectorNorm(papers[i].Embedding)
	}
	return r
}

// Mode returns the retriever identifier.
func (r *SemanticRetriever) Mode() types.RetrievalMode { return types.ModeSemantic }

// Retrieve embeds the query and returns the top-k nearest papers among
// the allowed rows.
func (r *SemanticRetriever) Retrieve(ctx context.Context, query string, allowed *roaring.Bitmap, k int) ([]Candidate, error) {
	if r.snap == nil || r.snap.EmbeddingDim() == 0 {
		return nil, fmt.Errorf("%w: corpus carries no embeddings", types.ErrRetrievalUnavailable)
	}
	if r.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", types.ErrRetrievalUnavailable)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	qv, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", types.ErrRetrievalUnavailable, err)
	}
	if len(qv) != r.snap.EmbeddingDim() {
		return nil, fmt.Errorf("%w: query embedding has %d dimensions, corpus has %d",
			types.ErrRetrievalUnavailable, len(qv), r.snap.EmbeddingDim())
	}
	qnorm := vectorNorm(qv)
	if qnorm == 0 {
		return nil, fmt.Errorf("%w: embedding service returned a zero vector", types.ErrRetrievalUnavailable)
	}

	var cands []Candidate
	score := func(row uint32) {
		if r.norms[row] == 0 {
			return
		}
		p := r.snap.Paper(row)
		sim := dot(qv, p.Embedding) / (qnorm * r.norms[row])
		cands = append(cands, Candidate{
			Row:     row,
			PaperID: p.ID,
			Score:   sim,
			Mode:    types.ModeSemantic,
		})
	}

	if allowed != nil {
		it := allowed.Iterator()
		for it.HasNext() {
			score(it.Next())
		}
	} else {
		for row := uint32(0); row < uint32(r.snap.Len()); row++ {
			score(row)
		}
	}

	sortCandidates(cands)
	return truncate(cands, k), nil
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
