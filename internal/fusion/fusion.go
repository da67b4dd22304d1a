// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fusion merges the keyword and semantic candidate lists into
// one ranked, deduplicated result sequence. The two retrievers score on
// incomparable scales, so each list is normalized onto [0, 1] before a
// weighted combination; the weights live in configuration, not here.
package fusion

import (
	"sort"

	"github.com/pdiddy/paperscope/internal/corpus"
	"github.com/pdiddy/paperscope/internal/retrieval"
	"github.com/pdiddy/paperscope/pkg/types"
)

// Fuse combines per-mode candidate lists into the fused ranking.
// Ordering is total and deterministic: fused score descending, then
// citation count descending, then paper ID ascending, so identical
// inputs always produce the identical sequence.
func Fuse(snap *corpus.Snapshot, lists map[types.RetrievalMode][]retrieval.Candidate, cfg types.FusionConfig) []types.FusedResult {
	weights := map[types.RetrievalMode]float64{
		types.ModeKeyword:  cfg.KeywordWeight,
		types.ModeSemantic: cfg.SemanticWeight,
	}

	type merged struct {
		row    uint32
		scores map[types.RetrievalMode]float64
	}
	byRow := make(map[uint32]*merged)

	for mode, cands := range lists {
		normalized := normalize(cands)
		for i, c := range cands {
			m, ok := byRow[c.Row]
			if !ok {
				m = &merged{row: c.Row, scores: make(map[types.RetrievalMode]float64, 2)}
				byRow[c.Row] = m
			}
			m.scores[mode] = normalized[i]
		}
	}

	results := make([]types.FusedResult, 0, len(byRow))
	for _, m := range byRow {
		paper := snap.Paper(m.row)

		var score float64
		var modes []types.RetrievalMode
		if len(m.scores) == 1 {
			// Single-source papers keep their normalized score directly;
			// weighting applies only when both retrievers contribute.
			for mode, s := range m.scores {
				score = s
				modes = []types.RetrievalMode{mode}
			}
		} else {
			var weightSum float64
			for _, mode := range []types.RetrievalMode{types.ModeKeyword, types.ModeSemantic} {
				if s, ok := m.scores[mode]; ok {
					score += weights[mode] * s
					weightSum += weights[mode]
					modes = append(modes, mode)
				}
			}
			if weightSum > 0 {
				score /= weightSum
			}
		}

		results = append(results, types.FusedResult{
			Paper: *paper,
			Score: score,
			Modes: modes,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Paper.CitationCount != results[j].Paper.CitationCount {
			return results[i].Paper.CitationCount > results[j].Paper.CitationCount
		}
		return results[i].Paper.ID < results[j].Paper.ID
	})

	return results
}

// normalize maps a candidate list's raw scores onto [0, 1] with min-max
// scaling within the list. A list with a single score level maps to 1.0.
func normalize(cands []retrieval.Candidate) []float64 {
	normalized := make([]float64, len(cands))
	if len(cands) == 0 {
		return normalized
	}

	min, max := cands[0].Score, cands[0].Score
	for _, c := range cands[1:] {
		if c.Score < min {
			min = c.Score
		}
		if c.Score > max {
			max = c.Score
		}
	}

	if max == min {
		for i := range normalized {
			normalized[i] = 1.0
		}
		return normalized
	}

	for i, c := range cands {
		normalized[i] = (c.Score - min) / (max - min)
	}
	return normalized
}

// Paginate slices the fused ranking to the requested page. Pages are
// 1-based; zero values fall back to config defaults.
func Paginate(results []types.FusedResult, page, pageSize int, cfg types.FusionConfig) []types.FusedResult {
	if pageSize <= 0 {
		pageSize = cfg.DefaultPageSize
	}
	if cfg.MaxPageSize > 0 && pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start >= len(results) {
		return nil
	}
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}
