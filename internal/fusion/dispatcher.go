// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fusion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pdiddy/paperscope/internal/retrieval"
	"github.com/pdiddy/paperscope/pkg/types"
)

// Dispatcher fans a query out to the retrievers concurrently and joins
// both outcomes. Every dispatch takes a monotonically increasing
// sequence number; a dispatch that is no longer the latest when its
// retrievers finish is discarded with ErrSuperseded, and issuing a new
// dispatch cancels the in-flight one, so stale responses never clobber
// newer results.
type Dispatcher struct {
	retrievers []retrieval.Retriever
	topK       int

	seq atomic.Uint64

	mu         sync.Mutex
	cancelPrev context.CancelFunc
}

// NewDispatcher builds a dispatcher over the given retrievers. topK is
// the per-retriever candidate budget.
func NewDispatcher(topK int, retrievers ...retrieval.Retriever) *Dispatcher {
	return &Dispatcher{retrievers: retrievers, topK: topK}
}

// Outcome collects the joined retrieval results of one dispatch.
type Outcome struct {
	// Lists holds each successful retriever's candidates by mode.
	Lists map[types.RetrievalMode][]retrieval.Candidate

	// Errors lists failed retrievers as "mode: message".
	Errors []string

	// Degraded is true when at least one retriever failed while another
	// succeeded.
	Degraded bool
}

// Dispatch runs the query against every retriever concurrently and
// waits for all of them. One retriever failing degrades the outcome;
// all failing returns ErrRetrievalUnavailable. Zero matches with every
// retriever healthy is a valid empty outcome, not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, query string, allowed *roaring.Bitmap) (Outcome, error) {
	if strings.TrimSpace(query) == "" {
		return Outcome{}, types.ErrEmptyQuery
	}

	seq := d.seq.Add(1)

	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	if d.cancelPrev != nil {
		d.cancelPrev()
	}
	d.cancelPrev = cancel
	d.mu.Unlock()

	type retrieverResult struct {
		mode  types.RetrievalMode
		cands []retrieval.Candidate
		err   error
	}

	ch := make(chan retrieverResult, len(d.retrievers))
	var wg sync.WaitGroup

	for _, r := range d.retrievers {
		wg.Add(1)
		go func(r retrieval.Retriever) {
			defer wg.Done()
			cands, err := r.Retrieve(ctx, query, allowed, d.topK)
			ch <- retrieverResult{mode: r.Mode(), cands: cands, err: err}
		}(r)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	out := Outcome{Lists: make(map[types.RetrievalMode][]retrieval.Candidate, len(d.retrievers))}
	failed := 0
	for rr := range ch {
		if rr.err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", rr.mode, rr.err))
			failed++
			continue
		}
		out.Lists[rr.mode] = rr.cands
	}

	// A dispatch superseded while in flight must not surface its results.
	if seq != d.seq.Load() {
		return Outcome{}, types.ErrSuperseded
	}

	if failed == len(d.retrievers) {
		return Outcome{}, fmt.Errorf("%w: all retrievers failed: %s",
			types.ErrRetrievalUnavailable, strings.Join(out.Errors, "; "))
	}
	out.Degraded = failed > 0
	return out, nil
}
