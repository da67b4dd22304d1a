// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package facet evaluates facet predicates against a corpus snapshot and
// maintains live per-facet-value counts. Each facet value is backed by a
// precomputed roaring bitmap so filter toggles intersect bitmaps instead
// of rescanning the corpus; numeric and date thresholds binary-search
// rows presorted by the facet key.
package facet

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paperscope/internal/corpus"
	"github.com/pdiddy/paperscope/pkg/types"
)

// Facet names used in counts and rejection reports.
const (
	FacetCategory   = "category"
	FacetDifficulty = "difficulty"
	FacetHasCode    = "has_code"
	FacetImpact     = "min_impact"
	FacetDateRange  = "date_range"
)

// Engine holds the precomputed facet indexes for one snapshot. Indexes
// are built once at load and never mutated, so concurrent queries share
// them without locking.
type Engine struct {
	snap *corpus.Snapshot

	all          *roaring.Bitmap
	categories   map[string]*roaring.Bitmap
	difficulties map[types.Difficulty]*roaring.Bitmap
	hasCode      *roaring.Bitmap
	noCode       *roaring.Bitmap

	byImpact []uint32 // rows sorted by ImpactScore ascending
	byDate   []uint32 // rows sorted by PublishedAt ascending
}

// NewEngine builds the facet indexes for a snapshot.
func NewEngine(snap *corpus.Snapshot) *Engine {
	e := &Engine{
		snap:         snap,
		all:          roaring.New(),
		categories:   make(map[string]*roaring.Bitmap),
		difficulties: make(map[types.Difficulty]*roaring.Bitmap),
		hasCode:      roaring.New(),
		noCode:       roaring.New(),
	}

	papers := snap.Papers()
	e.byImpact = make([]uint32, len(papers))
	e.byDate = make([]uint32, len(papers))

	for i := range papers {
		row := uint32(i)
		p := &papers[i]
		e.all.Add(row)
		e.byImpact[i] = row
		e.byDate[i] = row

		for _, c := range p.Categories {
			bm, ok := e.categories[c]
			if !ok {
				bm = roaring.New()
				e.categories[c] = bm
			}
			bm.Add(row)
		}
		if p.Difficulty != "" {
			bm, ok := e.difficulties[p.Difficulty]
			if !ok {
				bm = roaring.New()
				e.difficulties[p.Difficulty] = bm
			}
			bm.Add(row)
		}
		if p.HasCode() {
			e.hasCode.Add(row)
		} else {
			e.noCode.Add(row)
		}
	}

	sort.Slice(e.byImpact, func(i, j int) bool {
		return papers[e.byImpact[i]].ImpactScore < papers[e.byImpact[j]].ImpactScore
	})
	sort.Slice(e.byDate, func(i, j int) bool {
		return papers[e.byDate[i]].PublishedAt.Before(papers[e.byDate[j]].PublishedAt)
	})

	return e
}

// Apply evaluates the filter set and returns the bitmap of matching rows
// plus the names of facets rejected as malformed. A rejected facet is
// skipped; it never fails the whole query.
func (e *Engine) Apply(f types.FilterSet) (*roaring.Bitmap, []string) {
	result := e.all.Clone()
	var rejected []string

	for _, name := range []string{FacetCategory, FacetDifficulty, FacetHasCode, FacetImpact, FacetDateRange} {
		bm, active, err := e.facetBitmap(f, name)
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if active {
			result.And(bm)
		}
	}
	return result, rejected
}

// facetBitmap returns the bitmap for one facet of the filter set.
// active is false when the facet is not present in f.
func (e *Engine) facetBitmap(f types.FilterSet, name string) (bm *roaring.Bitmap, active bool, err error) {
	switch name {
	case FacetCategory:
		if len(f.Categories) == 0 {
			return nil, false, nil
		}
		union := roaring.New()
		for _, c := range f.Categories {
			if c == "" {
				return nil, false, fmt.Errorf("%w: empty category value", types.ErrInvalidFilter)
			}
			if vbm, ok := e.categories[c]; ok {
				union.Or(vbm)
			}
		}
		return union, true, nil

	case FacetDifficulty:
		if len(f.Difficulties) == 0 {
			return nil, false, nil
		}
		union := roaring.New()
		for _, d := range f.Difficulties {
			if d.Rank() < 0 {
				return nil, false, fmt.Errorf("%w: unknown difficulty %q", types.ErrInvalidFilter, d)
			}
			if vbm, ok := e.difficulties[d]; ok {
				union.Or(vbm)
			}
		}
		return union, true, nil

	case FacetHasCode:
		if f.HasCode == nil {
			return nil, false, nil
		}
		if *f.HasCode {
			return e.hasCode, true, nil
		}
		return e.noCode, true, nil

	case FacetImpact:
		if f.MinImpact == nil {
			return nil, false, nil
		}
		min := *f.MinImpact
		if min < 0 || min > 10 {
			return nil, false, fmt.Errorf("%w: min impact %.2f outside [0, 10]", types.ErrInvalidFilter, min)
		}
		return e.impactBitmap(min), true, nil

	case FacetDateRange:
		if f.DateFrom.IsZero() && f.DateTo.IsZero() {
			return nil, false, nil
		}
		if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateFrom.After(f.DateTo) {
			return nil, false, fmt.Errorf("%w: date range start after end", types.ErrInvalidFilter)
		}
		return e.dateBitmap(f), true, nil
	}
	return nil, false, nil
}

// impactBitmap returns rows with ImpactScore >= min (inclusive bound).
func (e *Engine) impactBitmap(min float64) *roaring.Bitmap {
	papers := e.snap.Papers()
	first := sort.Search(len(e.byImpact), func(i int) bool {
		return papers[e.byImpact[i]].ImpactScore >= min
	})
	bm := roaring.New()
	bm.AddMany(e.byImpact[first:])
	return bm
}

// dateBitmap returns rows with PublishedAt inside the inclusive range.
func (e *Engine) dateBitmap(f types.FilterSet) *roaring.Bitmap {
	papers := e.snap.Papers()
	lo := 0
	if !f.DateFrom.IsZero() {
		lo = sort.Search(len(e.byDate), func(i int) bool {
			return !papers[e.byDate[i]].PublishedAt.Before(f.DateFrom)
		})
	}
	hi := len(e.byDate)
	if !f.DateTo.IsZero() {
		hi = sort.Search(len(e.byDate), func(i int) bool {
			return papers[e.byDate[i]].PublishedAt.After(f.DateTo)
		})
	}
	bm := roaring.New()
	if lo < hi {
		bm.AddMany(e.byDate[lo:hi])
	}
	return bm
}

// Counts computes live counts for every value of the enumerable facets.
// The count for a value is the number of papers matching that value
// together with every other active facet. The value's own facet is left
// out of the base so multi-select toggles show what each choice adds.
// The three facet groups are computed concurrently; they carry no
// ordering requirement relative to each other.
func (e *Engine) Counts(f types.FilterSet) types.FacetCounts {
	counts := make(types.FacetCounts, 3)
	var g errgroup.Group

	category := make(map[string]int, len(e.categories))
	g.Go(func() error {
		base := e.baseExcluding(f, FacetCategory)
		for c, bm := range e.categories {
			category[c] = int(roaring.And(base, bm).GetCardinality())
		}
		return nil
	})

	difficulty := make(map[string]int, len(e.difficulties))
	g.Go(func() error {
		base := e.baseExcluding(f, FacetDifficulty)
		for d, bm := range e.difficulties {
			difficulty[string(d)] = int(roaring.And(base, bm).GetCardinality())
		}
		return nil
	})

	hasCode := make(map[string]int, 2)
	g.Go(func() error {
		base := e.baseExcluding(f, FacetHasCode)
		hasCode["true"] = int(roaring.And(base, e.hasCode).GetCardinality())
		hasCode["false"] = int(roaring.And(base, e.noCode).GetCardinality())
		return nil
	})

	g.Wait()

	counts[FacetCategory] = category
	counts[FacetDifficulty] = difficulty
	counts[FacetHasCode] = hasCode
	return counts
}

// baseExcluding intersects every active, well-formed facet except the
// named one.
func (e *Engine) baseExcluding(f types.FilterSet, exclude string) *roaring.Bitmap {
	base := e.all.Clone()
	for _, name := range []string{FacetCategory, FacetDifficulty, FacetHasCode, FacetImpact, FacetDateRange} {
		if name == exclude {
			continue
		}
		bm, active, err := e.facetBitmap(f, name)
		if err != nil || !active {
			continue
		}
		base.And(bm)
	}
	return base
}
