// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RetrievalMode identifies which retriever produced a candidate.
type RetrievalMode string

const (
	ModeKeyword  RetrievalMode = "keyword"
	ModeSemantic RetrievalMode = "semantic"
)

// FilterSet is a conjunction of facet predicates. Facets combine by AND;
// values within a multi-valued facet combine by OR. Numeric and date
// bounds are inclusive. Zero values mean the facet is inactive.
type FilterSet struct {
	// Categories restricts results to papers tagged with at least one of
	// the listed categories.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Difficulties restricts results to the listed difficulty levels.
	Difficulties []Difficulty `json:"difficulties,omitempty" yaml:"difficulties,omitempty"`

	// HasCode, when set, restricts results by code availability.
	HasCode *bool `json:"has_code,omitempty" yaml:"has_code,omitempty"`

	// MinImpact, when set, restricts results to ImpactScore >= MinImpact.
	MinImpact *float64 `json:"min_impact,omitempty" yaml:"min_impact,omitempty"`

	// DateFrom and DateTo bound the publication date (inclusive).
	DateFrom time.Time `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo   time.Time `json:"date_to,omitempty" yaml:"date_to,omitempty"`
}

// IsEmpty reports whether no facet is active.
func (f FilterSet) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Difficulties) == 0 &&
		f.HasCode == nil && f.MinImpact == nil &&
		f.DateFrom.IsZero() && f.DateTo.IsZero()
}

// FusedResult is one entry of the ranked, deduplicated result list.
type FusedResult struct {
	Paper Paper `json:"paper" yaml:"paper"`

	// Score is the fused relevance score on [0, 1].
	Score float64 `json:"score" yaml:"score"`

	// Modes lists the retrievers that surfaced this paper.
	Modes []RetrievalMode `json:"modes" yaml:"modes"`
}

// SearchRequest is a single hybrid search invocation.
type SearchRequest struct {
	Query    string    `json:"query" yaml:"query"`
	Filters  FilterSet `json:"filters" yaml:"filters"`
	Page     int       `json:"page" yaml:"page"`
	PageSize int       `json:"page_size" yaml:"page_size"`
}

// FacetCounts maps facet name to value to the number of papers that
// would match if that value were selected in addition to the filters
// already active.
type FacetCounts map[string]map[string]int

// SearchResponse is the externally visible outcome of a search.
type SearchResponse struct {
	// Results is the requested page of the fused ranking.
	Results []FusedResult `json:"results" yaml:"results"`

	// TotalCount is the number of matches across all pages.
	TotalCount int `json:"total_count" yaml:"total_count"`

	// FacetCounts holds live per-facet-value counts.
	FacetCounts FacetCounts `json:"facet_counts" yaml:"facet_counts"`

	// Degraded is true when one retriever failed and results come from
	// the survivor alone. Distinct from an empty result set.
	Degraded bool `json:"degraded" yaml:"degraded"`

	// RetrieverErrors lists failed backends as "mode: message" strings.
	RetrieverErrors []string `json:"retriever_errors,omitempty" yaml:"retriever_errors,omitempty"`

	// RejectedFilters lists facets dropped as malformed.
	RejectedFilters []string `json:"rejected_filters,omitempty" yaml:"rejected_filters,omitempty"`

	// LatencyMs is the wall-clock duration of the search in milliseconds.
	LatencyMs int64 `json:"latency_ms" yaml:"latency_ms"`
}
