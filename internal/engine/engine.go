// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine is the front door of the retrieval core. It wires the
// corpus snapshot, facet engine, retrievers, fusion dispatcher, trending
// calculator, and advisor into the three operations the surrounding
// product calls: Search, Advise, and Trending.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/paperscope/internal/advisor"
	"github.com/pdiddy/paperscope/internal/ai"
	"github.com/pdiddy/paperscope/internal/corpus"
	"github.com/pdiddy/paperscope/internal/facet"
	"github.com/pdiddy/paperscope/internal/fusion"
	"github.com/pdiddy/paperscope/internal/retrieval"
	"github.com/pdiddy/paperscope/internal/trending"
	"github.com/pdiddy/paperscope/pkg/types"
)

// Engine serves queries against one immutable corpus snapshot.
type Engine struct {
	snap     *corpus.Snapshot
	facets   *facet.Engine
	trending *trending.Calculator
	advisor  *advisor.Orchestrator
	cfg      types.EngineConfig

	// Search and advisor each get their own dispatcher so an advisor
	// request never supersedes an in-flight search.
	searchDisp  *fusion.Dispatcher
	advisorDisp *fusion.Dispatcher
}

// New wires an engine over a loaded snapshot. embedder and synth may be
// nil; the affected paths then fail or degrade per their contracts.
func New(snap *corpus.Snapshot, embedder ai.Embedder, synth ai.Synthesizer, cfg types.EngineConfig) (*Engine, error) {
	if snap == nil || snap.Len() == 0 {
		return nil, types.ErrCorpusNotLoaded
	}

	keyword := retrieval.WithTimeout(retrieval.NewKeywordRetriever(snap), cfg.Retrieval.KeywordTimeout)
	semantic := retrieval.NewSemanticRetriever(snap, embedder, cfg.Retrieval.SemanticTimeout)

	e := &Engine{
		snap:        snap,
		facets:      facet.NewEngine(snap),
		trending:    trending.NewCalculator(snap, cfg.Trending),
		cfg:         cfg,
		searchDisp:  fusion.NewDispatcher(cfg.Retrieval.TopK, keyword, semantic),
		advisorDisp: fusion.NewDispatcher(cfg.Retrieval.TopK, keyword, semantic),
	}
	e.advisor = advisor.NewOrchestrator(e.advisorRetrieve, synth, cfg.Advisor)
	return e, nil
}

// Snapshot returns the corpus snapshot the engine serves.
func (e *Engine) Snapshot() *corpus.Snapshot { return e.snap }

// Search runs one hybrid query: facet evaluation, concurrent retrieval,
// fusion, and pagination. Facet counts are computed concurrently with
// retrieval and joined before the response is assembled.
func (e *Engine) Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error) {
	start := time.Now()

	allowed, rejected := e.facets.Apply(req.Filters)

	var counts types.FacetCounts
	countsDone := make(chan struct{})
	go func() {
		counts = e.facets.Counts(req.Filters)
		close(countsDone)
	}()

	out, err := e.searchDisp.Dispatch(ctx, req.Query, allowed)
	<-countsDone
	if err != nil {
		return types.SearchResponse{}, err
	}

	fused := fusion.Fuse(e.snap, out.Lists, e.cfg.Fusion)

	return types.SearchResponse{
		Results:         fusion.Paginate(fused, req.Page, req.PageSize, e.cfg.Fusion),
		TotalCount:      len(fused),
		FacetCounts:     counts,
		Degraded:        out.Degraded,
		RetrieverErrors: out.Errors,
		RejectedFilters: rejected,
		LatencyMs:       time.Since(start).Milliseconds(),
	}, nil
}

// Advise answers a freeform research question through the advisor.
func (e *Engine) Advise(ctx context.Context, req types.AdvisorRequest) (types.Briefing, error) {
	return e.advisor.Advise(ctx, req)
}

// advisorRetrieve is the advisor's view of the retrieval pipeline:
// unfiltered hybrid search truncated to the grounding budget.
func (e *Engine) advisorRetrieve(ctx context.Context, question string, limit int) ([]types.FusedResult, error) {
	out, err := e.advisorDisp.Dispatch(ctx, question, nil)
	if err != nil {
		return nil, err
	}
	fused := fusion.Fuse(e.snap, out.Lists, e.cfg.Fusion)
	if limit > 0 && len(fused) > limit {
		fused = fused[:limit]
	}
	return fused, nil
}

// Trending returns the requested bucket of the current trending table.
func (e *Engine) Trending(req types.TrendingRequest) (types.TrendingResponse, error) {
	if !req.Bucket.Valid() {
		return types.TrendingResponse{}, fmt.Errorf("%w: unknown trending bucket %q", types.ErrInvalidFilter, req.Bucket)
	}
	return e.trending.Topics(req.Bucket), nil
}

// RunTrending refreshes the trending table on the configured interval
// until ctx is cancelled. Callers run it in a goroutine.
func (e *Engine) RunTrending(ctx context.Context) {
	e.trending.Run(ctx)
}
