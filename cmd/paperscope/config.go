// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/viper"

	"github.com/pdiddy/paperscope/internal/ai"
	"github.com/pdiddy/paperscope/internal/corpus"
	"github.com/pdiddy/paperscope/internal/engine"
	"github.com/pdiddy/paperscope/pkg/types"
)

// engineConfig overlays config-file and environment values onto the
// engine defaults. API keys fall back to loaded secrets.
func engineConfig() types.EngineConfig {
	cfg := types.DefaultEngineConfig()

	if viper.IsSet("http.timeout") {
		cfg.HTTP.Timeout = viper.GetDuration("http.timeout")
	}
	if viper.IsSet("http.user_agent") {
		cfg.HTTP.UserAgent = viper.GetString("http.user_agent")
	}

	if viper.IsSet("corpus.db_path") {
		cfg.Corpus.DBPath = viper.GetString("corpus.db_path")
	}
	if viper.IsSet("corpus.embedding_dim") {
		cfg.Corpus.EmbeddingDim = viper.GetInt("corpus.embedding_dim")
	}

	if viper.IsSet("retrieval.top_k") {
		cfg.Retrieval.TopK = viper.GetInt("retrieval.top_k")
	}
	if viper.IsSet("retrieval.keyword_timeout") {
		cfg.Retrieval.KeywordTimeout = viper.GetDuration("retrieval.keyword_timeout")
	}
	if viper.IsSet("retrieval.semantic_timeout") {
		cfg.Retrieval.SemanticTimeout = viper.GetDuration("retrieval.semantic_timeout")
	}

	if viper.IsSet("fusion.keyword_weight") {
		cfg.Fusion.KeywordWeight = viper.GetFloat64("fusion.keyword_weight")
	}
	if viper.IsSet("fusion.semantic_weight") {
		cfg.Fusion.SemanticWeight = viper.GetFloat64("fusion.semantic_weight")
	}
	if viper.IsSet("fusion.default_page_size") {
		cfg.Fusion.DefaultPageSize = viper.GetInt("fusion.default_page_size")
	}
	if viper.IsSet("fusion.max_page_size") {
		cfg.Fusion.MaxPageSize = viper.GetInt("fusion.max_page_size")
	}

	if viper.IsSet("trending.recent_window") {
		cfg.Trending.RecentWindow = viper.GetDuration("trending.recent_window")
	}
	if viper.IsSet("trending.baseline_window") {
		cfg.Trending.BaselineWindow = viper.GetDuration("trending.baseline_window")
	}
	if viper.IsSet("trending.recompute_interval") {
		cfg.Trending.RecomputeInterval = viper.GetDuration("trending.recompute_interval")
	}
	if viper.IsSet("trending.baseline_floor") {
		cfg.Trending.BaselineFloor = viper.GetInt("trending.baseline_floor")
	}
	if viper.IsSet("trending.max_growth") {
		cfg.Trending.MaxGrowth = viper.GetFloat64("trending.max_growth")
	}
	if viper.IsSet("trending.hot_min_mentions") {
		cfg.Trending.HotMinMentions = viper.GetInt("trending.hot_min_mentions")
	}
	if viper.IsSet("trending.rising_growth") {
		cfg.Trending.RisingGrowth = viper.GetFloat64("trending.rising_growth")
	}
	if viper.IsSet("trending.emerging_max_mentions") {
		cfg.Trending.EmergingMaxMentions = viper.GetInt("trending.emerging_max_mentions")
	}
	if viper.IsSet("trending.emerging_growth") {
		cfg.Trending.EmergingGrowth = viper.GetFloat64("trending.emerging_growth")
	}

	if viper.IsSet("embedding.endpoint") {
		cfg.Embedding.Endpoint = viper.GetString("embedding.endpoint")
	}
	if viper.IsSet("embedding.model") {
		cfg.Embedding.Model = viper.GetString("embedding.model")
	}
	cfg.Embedding.APIKey = secretDefault("embeddings-api-key", viper.GetString("embedding.api_key"))

	if viper.IsSet("advisor.model") {
		cfg.Advisor.Model = viper.GetString("advisor.model")
	}
	if viper.IsSet("advisor.synthesis_timeout") {
		cfg.Advisor.SynthesisTimeout = viper.GetDuration("advisor.synthesis_timeout")
	}
	if viper.IsSet("advisor.max_papers") {
		cfg.Advisor.MaxPapers = viper.GetInt("advisor.max_papers")
	}
	if viper.IsSet("advisor.max_follow_ups") {
		cfg.Advisor.MaxFollowUps = viper.GetInt("advisor.max_follow_ups")
	}
	cfg.Advisor.APIKey = secretDefault("anthropic-api-key", viper.GetString("advisor.api_key"))

	return cfg
}

// loadEngine loads the corpus and wires the engine with whatever
// external services are configured. Missing services leave the affected
// paths to fail or degrade per their contracts.
func loadEngine(ctx context.Context) (*engine.Engine, error) {
	cfg := engineConfig()

	snap, summary, err := corpus.Load(ctx, cfg.Corpus, os.Stderr)
	if err != nil {
		return nil, err
	}
	if summary.Excluded > 0 {
		os.Stderr.WriteString("warning: some corpus records were excluded; run `paperscope corpus validate` for details\n")
	}

	var embedder ai.Embedder
	if cfg.Embedding.Endpoint != "" {
		embedder = ai.NewEmbeddingsClient(cfg.Embedding, cfg.HTTP)
	}

	var synth ai.Synthesizer
	if cfg.Advisor.APIKey != "" {
		synth = ai.NewClaudeSynthesizer(cfg.Advisor)
	}

	return engine.New(snap, embedder, synth, cfg)
}
