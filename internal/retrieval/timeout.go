// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pdiddy/paperscope/pkg/types"
)

// WithTimeout wraps a retriever with a per-call timeout budget. A zero
// duration returns the retriever unwrapped.
func WithTimeout(r Retriever, d time.Duration) Retriever {
	if d <= 0 {
		return r
	}
	return &timeoutRetriever{inner: r, timeout: d}
}

type timeoutRetriever struct {
	inner   Retriever
	timeout time.Duration
}

func (t *timeoutRetriever) Mode() types.RetrievalMode { return t.inner.Mode() }

func (t *timeoutRetriever) Retrieve(ctx context.Context, query string, allowed *roaring.Bitmap, k int) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Retrieve(ctx, query, allowed, k)
}
