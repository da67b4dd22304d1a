// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TrendingBucket classifies a topic's growth profile.
type TrendingBucket string

const (
	// BucketHot marks topics with high absolute recent volume.
	BucketHot TrendingBucket = "hot"

	// BucketRising marks topics growing past the configured multiplier.
	BucketRising TrendingBucket = "rising"

	// BucketEmerging marks low-volume topics with very high growth,
	// including topics with no baseline presence at all.
	BucketEmerging TrendingBucket = "emerging"
)

// Valid reports whether b is a known bucket.
func (b TrendingBucket) Valid() bool {
	switch b {
	case BucketHot, BucketRising, BucketEmerging:
		return true
	}
	return false
}

// TrendingTopic is one topic's velocity measurement over the rolling
// windows, recomputed periodically from corpus statistics.
type TrendingTopic struct {
	// Label is the topic label (a category tag).
	Label string `json:"label" yaml:"label"`

	// RecentMentions counts papers mentioning the topic in the recent window.
	RecentMentions int `json:"recent_mentions" yaml:"recent_mentions"`

	// BaselineMentions counts papers in the prior baseline window.
	BaselineMentions int `json:"baseline_mentions" yaml:"baseline_mentions"`

	// Growth is recent volume over the floored baseline, clamped to the
	// configured maximum so near-zero baselines never produce absurd
	// percentages.
	Growth float64 `json:"growth" yaml:"growth"`

	// Bucket is the classification of this topic, empty when the topic
	// qualifies for none.
	Bucket TrendingBucket `json:"bucket,omitempty" yaml:"bucket,omitempty"`
}

// TrendingRequest selects one bucket of the current trending table.
type TrendingRequest struct {
	Bucket TrendingBucket `json:"bucket" yaml:"bucket"`
}

// TrendingResponse holds the topics of the requested bucket, ordered by
// recent volume descending then label ascending.
type TrendingResponse struct {
	Topics     []TrendingTopic `json:"topics" yaml:"topics"`
	ComputedAt time.Time       `json:"computed_at" yaml:"computed_at"`
}
