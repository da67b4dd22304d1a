// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that call external services.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperscope/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestsPerSecond caps the client-side request rate (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// CorpusConfig holds settings for loading the paper index.
type CorpusConfig struct {
	// DBPath is the SQLite database written by the ingestion pipeline
	// (default "corpus/papers.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// EmbeddingDim is the expected embedding dimensionality. Zero skips
	// the dimension check.
	EmbeddingDim int `json:"embedding_dim" yaml:"embedding_dim"`
}

// RetrievalConfig holds settings shared by the two retrievers.
type RetrievalConfig struct {
	// TopK is the candidate list length each retriever returns (default 50).
	TopK int `json:"top_k" yaml:"top_k"`

	// KeywordTimeout bounds a keyword retrieval (default 2s).
	KeywordTimeout time.Duration `json:"keyword_timeout" yaml:"keyword_timeout"`

	// SemanticTimeout bounds a semantic retrieval including the external
	// embedding call (default 5s).
	SemanticTimeout time.Duration `json:"semantic_timeout" yaml:"semantic_timeout"`
}

// FusionConfig holds the ranking policy. Weights are configuration, not
// logic: ranking behavior is tuned here without code changes.
type FusionConfig struct {
	// KeywordWeight scales normalized keyword scores (default 0.4).
	KeywordWeight float64 `json:"keyword_weight" yaml:"keyword_weight"`

	// SemanticWeight scales normalized semantic scores (default 0.6).
	SemanticWeight float64 `json:"semantic_weight" yaml:"semantic_weight"`

	// DefaultPageSize applies when a request leaves PageSize unset (default 20).
	DefaultPageSize int `json:"default_page_size" yaml:"default_page_size"`

	// MaxPageSize caps the page size a request may ask for (default 100).
	MaxPageSize int `json:"max_page_size" yaml:"max_page_size"`
}

// TrendingConfig holds the velocity computation policy. The thresholds
// are deliberately tunable; no fixed constants live in the calculator.
type TrendingConfig struct {
	// RecentWindow is the measurement window (default 30 days).
	RecentWindow time.Duration `json:"recent_window" yaml:"recent_window"`

	// BaselineWindow is the comparison window immediately before the
	// recent window (default 90 days).
	BaselineWindow time.Duration `json:"baseline_window" yaml:"baseline_window"`

	// RecomputeInterval is the period of the background refresh (default 1h).
	RecomputeInterval time.Duration `json:"recompute_interval" yaml:"recompute_interval"`

	// BaselineFloor is the minimum baseline count used as a divisor when
	// computing growth (default 5). Baselines below the floor are raised
	// to it so near-zero baselines cannot produce unbounded ratios.
	BaselineFloor int `json:"baseline_floor" yaml:"baseline_floor"`

	// MaxGrowth clamps the reported growth ratio (default 99).
	MaxGrowth float64 `json:"max_growth" yaml:"max_growth"`

	// HotMinMentions is the recent-volume threshold for the hot bucket (default 50).
	HotMinMentions int `json:"hot_min_mentions" yaml:"hot_min_mentions"`

	// RisingGrowth is the growth multiplier for the rising bucket (default 1.5).
	RisingGrowth float64 `json:"rising_growth" yaml:"rising_growth"`

	// EmergingMaxMentions is the recent-volume ceiling for the emerging
	// bucket (default 10).
	EmergingMaxMentions int `json:"emerging_max_mentions" yaml:"emerging_max_mentions"`

	// EmergingGrowth is the growth multiplier for the emerging bucket (default 3).
	EmergingGrowth float64 `json:"emerging_growth" yaml:"emerging_growth"`
}

// EmbeddingConfig holds settings for the external embedding service.
type EmbeddingConfig struct {
	AIConfig `yaml:",inline"`

	// Endpoint is the embeddings API URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// AdvisorConfig holds settings for the research advisor.
type AdvisorConfig struct {
	AIConfig `yaml:",inline"`

	// SynthesisTimeout bounds the generation call (default 30s).
	SynthesisTimeout time.Duration `json:"synthesis_timeout" yaml:"synthesis_timeout"`

	// MaxPapers is the grounding set size passed to synthesis (default 8).
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// MaxFollowUps caps the suggested follow-up prompts (default 3).
	MaxFollowUps int `json:"max_follow_ups" yaml:"max_follow_ups"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
	Corpus    CorpusConfig    `json:"corpus" yaml:"corpus"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Fusion    FusionConfig    `json:"fusion" yaml:"fusion"`
	Trending  TrendingConfig  `json:"trending" yaml:"trending"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Advisor   AdvisorConfig   `json:"advisor" yaml:"advisor"`
}

// DefaultEngineConfig returns the engine defaults. Callers overlay
// config-file and flag values on top.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "paperscope/0.1",
		},
		Corpus: CorpusConfig{
			DBPath: "corpus/papers.db",
		},
		Retrieval: RetrievalConfig{
			TopK:            50,
			KeywordTimeout:  2 * time.Second,
			SemanticTimeout: 5 * time.Second,
		},
		Fusion: FusionConfig{
			KeywordWeight:   0.4,
			SemanticWeight:  0.6,
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Trending: TrendingConfig{
			RecentWindow:        30 * 24 * time.Hour,
			BaselineWindow:      90 * 24 * time.Hour,
			RecomputeInterval:   time.Hour,
			BaselineFloor:       5,
			MaxGrowth:           99,
			HotMinMentions:      50,
			RisingGrowth:        1.5,
			EmergingMaxMentions: 10,
			EmergingGrowth:      3,
		},
		Embedding: EmbeddingConfig{
			AIConfig: AIConfig{MaxRetries: 3, RequestsPerSecond: 2},
		},
		Advisor: AdvisorConfig{
			AIConfig:         AIConfig{MaxRetries: 3, RequestsPerSecond: 2},
			SynthesisTimeout: 30 * time.Second,
			MaxPapers:        8,
			MaxFollowUps:     3,
		},
	}
}
