// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paperscope/internal/httputil"
	"github.com/pdiddy/paperscope/pkg/types"
)

// EmbeddingsClient calls an OpenAI-compatible embeddings endpoint, the
// same service the ingestion pipeline used to embed the corpus.
type EmbeddingsClient struct {
	endpoint   string
	model      string
	apiKey     string
	userAgent  string
	maxRetries int
	client     *http.Client
	limiter    *rate.Limiter
}

// NewEmbeddingsClient builds a client from config. The rate limiter is
// client-side protection for the shared service quota.
func NewEmbeddingsClient(cfg types.EmbeddingConfig, httpCfg types.HTTPConfig) *EmbeddingsClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	return &EmbeddingsClient{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		userAgent:  httpCfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: httpCfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Embeddings API JSON structures.
type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedQuery embeds a single query string.
func (c *EmbeddingsClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("embeddings endpoint not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	bodyBytes, err := json.Marshal(embeddingsRequest{Model: c.model, Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("embeddings API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings API returned %d: %s", resp.StatusCode, string(body))
	}

	var er embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing embeddings response: %w", err)
	}
	if len(er.Data) == 0 || len(er.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embeddings API returned no vector")
	}
	return er.Data[0].Embedding, nil
}
