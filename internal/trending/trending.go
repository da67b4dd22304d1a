// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trending computes topic velocity: for each category label, the
// mention count in a recent window versus a prior baseline window, and a
// growth rate bucketed into hot, rising, and emerging. The table is
// recomputed periodically, never per query, and swapped atomically so
// readers never observe a partial update.
package trending

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/pdiddy/paperscope/internal/corpus"
	"github.com/pdiddy/paperscope/pkg/types"
)

// Table is one immutable trending computation.
type Table struct {
	ComputedAt time.Time
	Topics     []types.TrendingTopic
}

// Calculator recomputes the trending table from corpus statistics.
type Calculator struct {
	snap  *corpus.Snapshot
	cfg   types.TrendingConfig
	table atomic.Pointer[Table]

	// now is replaceable in tests.
	now func() time.Time
}

// NewCalculator builds a calculator and computes the initial table.
func NewCalculator(snap *corpus.Snapshot, cfg types.TrendingConfig) *Calculator {
	c := &Calculator{snap: snap, cfg: cfg, now: time.Now}
	c.Recompute()
	return c
}

// Recompute rebuilds the trending table from the snapshot and publishes
// it atomically.
func (c *Calculator) Recompute() {
	now := c.now().UTC()
	recentStart := now.Add(-c.cfg.RecentWindow)
	baselineStart := recentStart.Add(-c.cfg.BaselineWindow)

	recent := make(map[string]int)
	baseline := make(map[string]int)

	papers := c.snap.Papers()
	for i := range papers {
		p := &papers[i]
		published := p.PublishedAt
		switch {
		case published.After(now):
			// Ingestion occasionally carries preprints dated ahead of the
			// wall clock; count them as recent.
			fallthrough
		case !published.Before(recentStart):
			for _, label := range p.Categories {
				recent[label]++
			}
		case !published.Before(baselineStart):
			for _, label := range p.Categories {
				baseline[label]++
			}
		}
	}

	labels := make(map[string]struct{}, len(recent)+len(baseline))
	for l := range recent {
		labels[l] = struct{}{}
	}
	for l := range baseline {
		labels[l] = struct{}{}
	}

	topics := make([]types.TrendingTopic, 0, len(labels))
	for label := range labels {
		t := types.TrendingTopic{
			Label:            label,
			RecentMentions:   recent[label],
			BaselineMentions: baseline[label],
		}
		t.Growth = c.growth(t.RecentMentions, t.BaselineMentions)
		t.Bucket = c.bucket(t)
		topics = append(topics, t)
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].RecentMentions != topics[j].RecentMentions {
			return topics[i].RecentMentions > topics[j].RecentMentions
		}
		return topics[i].Label < topics[j].Label
	})

	c.table.Store(&Table{ComputedAt: now, Topics: topics})
}

// growth divides recent volume by the floored baseline and clamps the
// ratio. The floor keeps near-zero baselines from producing unbounded
// percentages; the division never sees a divisor below it.
func (c *Calculator) growth(recent, baseline int) float64 {
	if recent == 0 {
		return 0
	}
	floor := c.cfg.BaselineFloor
	if floor < 1 {
		floor = 1
	}
	divisor := baseline
	if divisor < floor {
		divisor = floor
	}
	g := float64(recent) / float64(divisor)
	if c.cfg.MaxGrowth > 0 && g > c.cfg.MaxGrowth {
		g = c.cfg.MaxGrowth
	}
	return g
}

// bucket classifies a topic. A topic new to the corpus (zero baseline,
// nonzero recent) is always emerging, even at hot-level volume: its
// growth ratio against an empty baseline is meaningless, and a label
// that did not exist a window ago is news regardless of how loud it is.
// For established topics hot wins over rising.
func (c *Calculator) bucket(t types.TrendingTopic) types.TrendingBucket {
	if t.RecentMentions == 0 {
		return ""
	}
	if t.BaselineMentions == 0 {
		return types.BucketEmerging
	}
	if t.RecentMentions >= c.cfg.HotMinMentions {
		return types.BucketHot
	}
	if t.RecentMentions <= c.cfg.EmergingMaxMentions && t.Growth >= c.cfg.EmergingGrowth {
		return types.BucketEmerging
	}
	if t.Growth >= c.cfg.RisingGrowth {
		return types.BucketRising
	}
	return ""
}

// Current returns the latest published table.
func (c *Calculator) Current() *Table {
	return c.table.Load()
}

// Topics returns the topics of one bucket from the current table,
// preserving the table's volume-descending order.
func (c *Calculator) Topics(bucket types.TrendingBucket) types.TrendingResponse {
	table := c.table.Load()
	resp := types.TrendingResponse{ComputedAt: table.ComputedAt}
	for _, t := range table.Topics {
		if t.Bucket == bucket {
			resp.Topics = append(resp.Topics, t)
		}
	}
	return resp
}

// Run recomputes the table on the configured interval until the context
// is cancelled.
func (c *Calculator) Run(ctx context.Context) {
	interval := c.cfg.RecomputeInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Recompute()
		}
	}
}
