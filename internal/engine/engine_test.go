// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscope/internal/ai"
	"github.com/pdiddy/paperscope/internal/corpus"
	"github.com/pdiddy/paperscope/internal/facet"
	"github.com/pdiddy/paperscope/pkg/types"
)

// --- test fixtures ---

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func testPapers() []types.Paper {
	return []types.Paper{
		{ID: "att-1", Title: "Attention Is All You Need",
			Abstract:    "attention transformer encoder decoder",
			PublishedAt: date(2017, 6, 12), Categories: []string{"cs.CL"},
			CitationCount: 90000, ImpactScore: 10, Difficulty: types.DifficultyIntermediate,
			Embedding: []float32{1, 0, 0}},
		{ID: "att-2", Title: "Efficient Attention Mechanisms",
			Abstract:    "attention linear approximation transformer",
			PublishedAt: date(2023, 1, 17), Categories: []string{"cs.LG"},
			CitationCount: 412, ImpactScore: 8.4, Difficulty: types.DifficultyAdvanced,
			CodeURLs:  []string{"https://github.com/x/eff"},
			Embedding: []float32{0.9, 0.1, 0}},
		{ID: "diff-1", Title: "Denoising Diffusion Models",
			Abstract:    "diffusion denoising generative images",
			PublishedAt: date(2020, 6, 19), Categories: []string{"cs.CV"},
			CitationCount: 9000, ImpactScore: 9.5, Difficulty: types.DifficultyAdvanced,
			Embedding: []float32{0, 1, 0}},
	}
}

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return s.vec, s.err
}

type stubSynthesizer struct {
	result ai.SynthesisResult
	err    error
}

func (s *stubSynthesizer) Synthesize(_ context.Context, _ string, _ []types.PaperRef) (ai.SynthesisResult, error) {
	return s.result, s.err
}

func newTestEngine(t *testing.T, embedder ai.Embedder, synth ai.Synthesizer) *Engine {
	t.Helper()
	snap, summary := corpus.NewSnapshot(testPapers(), 0, io.Discard)
	require.Equal(t, 3, summary.Loaded)

	eng, err := New(snap, embedder, synth, types.DefaultEngineConfig())
	require.NoError(t, err)
	return eng
}

func resultIDs(results []types.FusedResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Paper.ID
	}
	return ids
}

// --- construction ---

func TestNew_RequiresLoadedCorpus(t *testing.T) {
	_, err := New(nil, nil, nil, types.DefaultEngineConfig())
	assert.ErrorIs(t, err, types.ErrCorpusNotLoaded)

	empty, _ := corpus.NewSnapshot(nil, 0, io.Discard)
	_, err = New(empty, nil, nil, types.DefaultEngineConfig())
	assert.ErrorIs(t, err, types.ErrCorpusNotLoaded)
}

// --- search ---

func TestSearch_HybridMerge(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{vec: []float32{1, 0, 0}}, nil)

	resp, err := eng.Search(context.Background(), types.SearchRequest{Query: "attention transformer"})
	require.NoError(t, err)

	assert.False(t, resp.Degraded)
	assert.Empty(t, resp.RetrieverErrors)
	require.NotEmpty(t, resp.Results)

	// Both attention papers appear once each, surfaced by both retrievers.
	ids := resultIDs(resp.Results)
	assert.Contains(t, ids, "att-1")
	assert.Contains(t, ids, "att-2")
	seen := make(map[string]int)
	for _, id := range ids {
		seen[id]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "paper %s appears %d times", id, n)
	}

	// Both attention papers rank above the unrelated diffusion paper, and
	// the top result was surfaced by both retrievers.
	top := resp.Results[0]
	assert.Contains(t, []string{"att-1", "att-2"}, top.Paper.ID)
	assert.Len(t, top.Modes, 2)
	assert.Equal(t, "diff-1", ids[len(ids)-1])
}

func TestSearch_EmbedderDownDegrades(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{err: errors.New("connection refused")}, nil)

	resp, err := eng.Search(context.Background(), types.SearchRequest{Query: "attention"})
	require.NoError(t, err)

	assert.True(t, resp.Degraded)
	require.Len(t, resp.RetrieverErrors, 1)
	assert.Contains(t, resp.RetrieverErrors[0], "semantic")
	// Keyword-only results still come back.
	assert.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		assert.Equal(t, []types.RetrievalMode{types.ModeKeyword}, r.Modes)
	}
}

func TestSearch_FiltersRestrictResults(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{vec: []float32{1, 0, 0}}, nil)

	hasCode := true
	resp, err := eng.Search(context.Background(), types.SearchRequest{
		Query:   "attention",
		Filters: types.FilterSet{HasCode: &hasCode},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"att-2"}, resultIDs(resp.Results))
}

func TestSearch_ResponseCarriesFacetCounts(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{vec: []float32{1, 0, 0}}, nil)

	resp, err := eng.Search(context.Background(), types.SearchRequest{Query: "attention"})
	require.NoError(t, err)

	require.NotNil(t, resp.FacetCounts)
	assert.Equal(t, 1, resp.FacetCounts[facet.FacetCategory]["cs.CL"])
	assert.Equal(t, 1, resp.FacetCounts[facet.FacetCategory]["cs.LG"])
	assert.Equal(t, 1, resp.FacetCounts[facet.FacetHasCode]["true"])
	assert.Equal(t, 2, resp.FacetCounts[facet.FacetHasCode]["false"])
}

func TestSearch_MalformedFacetReported(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{vec: []float32{1, 0, 0}}, nil)

	badImpact := 42.0
	resp, err := eng.Search(context.Background(), types.SearchRequest{
		Query:   "attention",
		Filters: types.FilterSet{MinImpact: &badImpact},
	})
	require.NoError(t, err)

	require.Len(t, resp.RejectedFilters, 1)
	assert.Contains(t, resp.RejectedFilters[0], facet.FacetImpact)
	// The malformed facet is dropped, not fatal.
	assert.NotEmpty(t, resp.Results)
}

func TestSearch_EmptyQuery(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{vec: []float32{1, 0, 0}}, nil)

	_, err := eng.Search(context.Background(), types.SearchRequest{Query: "   "})
	assert.ErrorIs(t, err, types.ErrEmptyQuery)
}

func TestSearch_ZeroMatchesIsValid(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{err: errors.New("down")}, nil)

	resp, err := eng.Search(context.Background(), types.SearchRequest{Query: "nonexistent vocabulary"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.TotalCount)
}

func TestSearch_Pagination(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{vec: []float32{1, 0, 0}}, nil)

	page1, err := eng.Search(context.Background(), types.SearchRequest{
		Query: "attention", Page: 1, PageSize: 1,
	})
	require.NoError(t, err)
	page2, err := eng.Search(context.Background(), types.SearchRequest{
		Query: "attention", Page: 2, PageSize: 1,
	})
	require.NoError(t, err)

	require.Len(t, page1.Results, 1)
	require.Len(t, page2.Results, 1)
	assert.NotEqual(t, page1.Results[0].Paper.ID, page2.Results[0].Paper.ID)
	assert.Equal(t, page1.TotalCount, page2.TotalCount)
}

// --- advisor ---

func TestAdvise_EndToEnd(t *testing.T) {
	synth := &stubSynthesizer{result: ai.SynthesisResult{
		Briefing:  "The transformer [att-1] started it all.",
		FollowUps: []string{"Which variants reduce the quadratic cost?"},
	}}
	eng := newTestEngine(t, &stubEmbedder{vec: []float32{1, 0, 0}}, synth)

	briefing, err := eng.Advise(context.Background(), types.AdvisorRequest{Question: "attention transformer"})
	require.NoError(t, err)

	require.NotNil(t, briefing.Briefing)
	assert.Contains(t, *briefing.Briefing, "[att-1]")
	assert.False(t, briefing.Degraded)
	assert.NotEmpty(t, briefing.Papers)
}

func TestAdvise_DegradesWithoutSynthesizer(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{vec: []float32{1, 0, 0}}, nil)

	briefing, err := eng.Advise(context.Background(), types.AdvisorRequest{Question: "attention"})
	require.NoError(t, err)

	assert.True(t, briefing.Degraded)
	assert.Nil(t, briefing.Briefing)
	assert.NotEmpty(t, briefing.Papers)
	assert.NotEmpty(t, briefing.FollowUps)
}

func TestAdvise_DoesNotSupersedeSearch(t *testing.T) {
	eng := newTestEngine(t, &stubEmbedder{vec: []float32{1, 0, 0}}, nil)

	// A search issued before an advisor request must still return its
	// results afterwards; the two pipelines dispatch independently.
	resp, err := eng.Search(context.Background(), types.SearchRequest{Query: "attention"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)

	_, err = eng.Advise(context.Background(), types.AdvisorRequest{Question: "diffusion"})
	require.NoError(t, err)

	again, err := eng.Search(context.Background(), types.SearchRequest{Query: "attention"})
	require.NoError(t, err)
	assert.Equal(t, resultIDs(resp.Results), resultIDs(again.Results))
}

// --- trending ---

func TestTrending_ValidBucket(t *testing.T) {
	eng := newTestEngine(t, nil, nil)

	resp, err := eng.Trending(types.TrendingRequest{Bucket: types.BucketHot})
	require.NoError(t, err)
	assert.False(t, resp.ComputedAt.IsZero())
}

func TestTrending_UnknownBucket(t *testing.T) {
	eng := newTestEngine(t, nil, nil)

	_, err := eng.Trending(types.TrendingRequest{Bucket: "lukewarm"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}
