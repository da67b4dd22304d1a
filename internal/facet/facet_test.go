// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package facet

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscope/internal/corpus"
	"github.com/pdiddy/paperscope/pkg/types"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func boolPtr(b bool) *bool      { return &b }
func f64Ptr(f float64) *float64 { return &f }

// testEngine builds a facet engine over a small fixed corpus.
//
// Row order is by ID:
//
//	p1: cs.CL, intermediate, code, impact 9.0, 2023-06-01
//	p2: cs.CL+cs.LG, advanced, no code, impact 7.0, 2022-01-15
//	p3: cs.LG, beginner, code, impact 4.0, 2024-03-10
//	p4: cs.CV, advanced, no code, impact 8.5, 2023-11-20
func testEngine(t *testing.T) (*Engine, *corpus.Snapshot) {
	t.Helper()
	papers := []types.Paper{
		{ID: "p1", Title: "One", PublishedAt: date(2023, 6, 1), Categories: []string{"cs.CL"},
			Difficulty: types.DifficultyIntermediate, CodeURLs: []string{"https://github.com/x/one"}, ImpactScore: 9.0},
		{ID: "p2", Title: "Two", PublishedAt: date(2022, 1, 15), Categories: []string{"cs.CL", "cs.LG"},
			Difficulty: types.DifficultyAdvanced, ImpactScore: 7.0},
		{ID: "p3", Title: "Three", PublishedAt: date(2024, 3, 10), Categories: []string{"cs.LG"},
			Difficulty: types.DifficultyBeginner, CodeURLs: []string{"https://github.com/x/three"}, ImpactScore: 4.0},
		{ID: "p4", Title: "Four", PublishedAt: date(2023, 11, 20), Categories: []string{"cs.CV"},
			Difficulty: types.DifficultyAdvanced, ImpactScore: 8.5},
	}
	snap, summary := corpus.NewSnapshot(papers, 0, io.Discard)
	require.Equal(t, 4, summary.Loaded)
	return NewEngine(snap), snap
}

func matchedIDs(t *testing.T, e *Engine, snap *corpus.Snapshot, f types.FilterSet) []string {
	t.Helper()
	bm, rejected := e.Apply(f)
	require.Empty(t, rejected)
	var ids []string
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, snap.Paper(it.Next()).ID)
	}
	return ids
}

func TestApply_NoFiltersMatchesEverything(t *testing.T) {
	e, snap := testEngine(t)
	ids := matchedIDs(t, e, snap, types.FilterSet{})
	assert.ElementsMatch(t, []string{"p1", "p2", "p3", "p4"}, ids)
}

func TestApply_CategoriesUnionWithinFacet(t *testing.T) {
	e, snap := testEngine(t)
	ids := matchedIDs(t, e, snap, types.FilterSet{Categories: []string{"cs.CL", "cs.CV"}})
	assert.ElementsMatch(t, []string{"p1", "p2", "p4"}, ids)
}

func TestApply_FacetsIntersectAcrossFacets(t *testing.T) {
	e, snap := testEngine(t)
	ids := matchedIDs(t, e, snap, types.FilterSet{
		Categories:   []string{"cs.CL"},
		Difficulties: []types.Difficulty{types.DifficultyAdvanced},
	})
	assert.Equal(t, []string{"p2"}, ids)
}

func TestApply_HasCode(t *testing.T) {
	e, snap := testEngine(t)

	withCode := matchedIDs(t, e, snap, types.FilterSet{HasCode: boolPtr(true)})
	assert.ElementsMatch(t, []string{"p1", "p3"}, withCode)

	noCode := matchedIDs(t, e, snap, types.FilterSet{HasCode: boolPtr(false)})
	assert.ElementsMatch(t, []string{"p2", "p4"}, noCode)
}

func TestApply_MinImpactInclusive(t *testing.T) {
	e, snap := testEngine(t)

	// Threshold equal to a paper's score keeps that paper.
	ids := matchedIDs(t, e, snap, types.FilterSet{MinImpact: f64Ptr(8.5)})
	assert.ElementsMatch(t, []string{"p1", "p4"}, ids)
}

func TestApply_DateRangeInclusive(t *testing.T) {
	e, snap := testEngine(t)

	tests := []struct {
		name string
		f    types.FilterSet
		want []string
	}{
		{"both bounds", types.FilterSet{DateFrom: date(2023, 6, 1), DateTo: date(2023, 11, 20)}, []string{"p1", "p4"}},
		{"from only", types.FilterSet{DateFrom: date(2023, 11, 20)}, []string{"p3", "p4"}},
		{"to only", types.FilterSet{DateTo: date(2022, 1, 15)}, []string{"p2"}},
		{"empty window", types.FilterSet{DateFrom: date(2025, 1, 1), DateTo: date(2025, 12, 31)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, matchedIDs(t, e, snap, tt.f))
		})
	}
}

func TestApply_RejectsMalformedFacetAndKeepsRest(t *testing.T) {
	e, snap := testEngine(t)

	bm, rejected := e.Apply(types.FilterSet{
		Categories: []string{"cs.CL"},
		MinImpact:  f64Ptr(42), // out of [0, 10]
	})

	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0], FacetImpact)

	// The malformed facet is skipped, the valid one still applies.
	var ids []string
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, snap.Paper(it.Next()).ID)
	}
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
}

func TestApply_RejectsInvertedDateRange(t *testing.T) {
	e, _ := testEngine(t)
	_, rejected := e.Apply(types.FilterSet{DateFrom: date(2024, 1, 1), DateTo: date(2023, 1, 1)})
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0], FacetDateRange)
}

func TestApply_RejectsUnknownDifficulty(t *testing.T) {
	e, _ := testEngine(t)
	_, rejected := e.Apply(types.FilterSet{Difficulties: []types.Difficulty{"wizard"}})
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0], FacetDifficulty)
}

func TestApply_UnknownCategoryValueMatchesNothing(t *testing.T) {
	e, snap := testEngine(t)
	// Unknown but well-formed value: zero matches, not a rejection.
	ids := matchedIDs(t, e, snap, types.FilterSet{Categories: []string{"q-bio.GN"}})
	assert.Empty(t, ids)
}

func TestApply_AddingFacetsNeverGrowsResults(t *testing.T) {
	e, _ := testEngine(t)

	base, _ := e.Apply(types.FilterSet{Categories: []string{"cs.CL"}})
	narrowed, _ := e.Apply(types.FilterSet{
		Categories: []string{"cs.CL"},
		HasCode:    boolPtr(true),
	})

	assert.LessOrEqual(t, narrowed.GetCardinality(), base.GetCardinality())
}

func TestCounts_NoActiveFilters(t *testing.T) {
	e, _ := testEngine(t)
	counts := e.Counts(types.FilterSet{})

	assert.Equal(t, 2, counts[FacetCategory]["cs.CL"])
	assert.Equal(t, 2, counts[FacetCategory]["cs.LG"])
	assert.Equal(t, 1, counts[FacetCategory]["cs.CV"])
	assert.Equal(t, 2, counts[FacetDifficulty][string(types.DifficultyAdvanced)])
	assert.Equal(t, 2, counts[FacetHasCode]["true"])
	assert.Equal(t, 2, counts[FacetHasCode]["false"])
}

func TestCounts_LeaveOneOut(t *testing.T) {
	e, _ := testEngine(t)

	// With cs.CL selected, category counts ignore the category filter
	// itself (so the other choices show what they would add), while the
	// other facets are counted inside the cs.CL selection.
	counts := e.Counts(types.FilterSet{Categories: []string{"cs.CL"}})

	assert.Equal(t, 2, counts[FacetCategory]["cs.CL"])
	assert.Equal(t, 2, counts[FacetCategory]["cs.LG"])
	assert.Equal(t, 1, counts[FacetCategory]["cs.CV"])

	// Within cs.CL: p1 has code, p2 does not.
	assert.Equal(t, 1, counts[FacetHasCode]["true"])
	assert.Equal(t, 1, counts[FacetHasCode]["false"])

	// Within cs.CL: p1 intermediate, p2 advanced.
	assert.Equal(t, 1, counts[FacetDifficulty][string(types.DifficultyIntermediate)])
	assert.Equal(t, 1, counts[FacetDifficulty][string(types.DifficultyAdvanced)])
	assert.Equal(t, 0, counts[FacetDifficulty][string(types.DifficultyBeginner)])
}

func TestCounts_NonCategoryFacetNarrowsCategoryCounts(t *testing.T) {
	e, _ := testEngine(t)

	counts := e.Counts(types.FilterSet{HasCode: boolPtr(true)})

	// Only p1 (cs.CL) and p3 (cs.LG) have code.
	assert.Equal(t, 1, counts[FacetCategory]["cs.CL"])
	assert.Equal(t, 1, counts[FacetCategory]["cs.LG"])
	assert.Equal(t, 0, counts[FacetCategory]["cs.CV"])
}
