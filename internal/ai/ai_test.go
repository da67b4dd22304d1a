// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscope/pkg/types"
)

func testGrounding() []types.PaperRef {
	return []types.PaperRef{
		{ID: "2301.07041", Title: "Efficient Attention",
			PublishedAt: time.Date(2023, 1, 17, 0, 0, 0, 0, time.UTC), CitationCount: 412},
		{ID: "1706.03762", Title: "Attention Is All You Need",
			PublishedAt: time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC), CitationCount: 90000},
	}
}

// --- embeddings client ---

func newEmbeddingsTestClient(endpoint string) *EmbeddingsClient {
	return NewEmbeddingsClient(types.EmbeddingConfig{
		AIConfig: types.AIConfig{
			Model:             "test-embed",
			APIKey:            "test-key",
			RequestsPerSecond: 1000,
		},
		Endpoint: endpoint,
	}, types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "paperscope-test"})
}

func TestEmbedQuery_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-embed", req.Model)
		require.Len(t, req.Input, 1)
		assert.Equal(t, "efficient attention", req.Input[0])

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer ts.Close()

	c := newEmbeddingsTestClient(ts.URL)
	vec, err := c.EmbedQuery(context.Background(), "efficient attention")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedQuery_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newEmbeddingsTestClient(ts.URL)
	_, err := c.EmbedQuery(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestEmbedQuery_EmptyVector(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))
	defer ts.Close()

	c := newEmbeddingsTestClient(ts.URL)
	_, err := c.EmbedQuery(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no vector")
}

func TestEmbedQuery_NoEndpoint(t *testing.T) {
	c := newEmbeddingsTestClient("")
	_, err := c.EmbedQuery(context.Background(), "query")
	assert.Error(t, err)
}

// --- Claude synthesizer ---

func newClaudeTestClient(t *testing.T, url string) *ClaudeSynthesizer {
	t.Helper()
	old := claudeAPIURL
	claudeAPIURL = url
	t.Cleanup(func() { claudeAPIURL = old })

	return NewClaudeSynthesizer(types.AdvisorConfig{
		AIConfig: types.AIConfig{
			Model:             "claude-sonnet-4-5",
			APIKey:            "test-key",
			RequestsPerSecond: 1000,
		},
		SynthesisTimeout: 5 * time.Second,
	})
}

func TestSynthesize_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-5", req.Model)
		require.Len(t, req.Messages, 1)
		// The prompt carries the question and every grounding paper.
		assert.Contains(t, req.Messages[0].Content, "efficient attention")
		assert.Contains(t, req.Messages[0].Content, "2301.07041")
		assert.Contains(t, req.Messages[0].Content, "1706.03762")

		inner, _ := json.Marshal(SynthesisResult{
			Briefing:  "Attention mechanisms [2301.07041] dominate.",
			Citations: []string{"2301.07041"},
			FollowUps: []string{"What about linear attention?"},
		})
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": string(inner)}},
		})
	}))
	defer ts.Close()

	c := newClaudeTestClient(t, ts.URL)
	result, err := c.Synthesize(context.Background(), "efficient attention", testGrounding())
	require.NoError(t, err)

	assert.Contains(t, result.Briefing, "[2301.07041]")
	assert.Equal(t, []string{"2301.07041"}, result.Citations)
	assert.Equal(t, []string{"What about linear attention?"}, result.FollowUps)
}

func TestSynthesize_NoGrounding(t *testing.T) {
	c := newClaudeTestClient(t, "http://unused.invalid")
	_, err := c.Synthesize(context.Background(), "question", nil)
	assert.Error(t, err)
}

func TestSynthesize_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newClaudeTestClient(t, ts.URL)
	_, err := c.Synthesize(context.Background(), "question", testGrounding())
	require.ErrorIs(t, err, types.ErrSynthesisUnavailable)
	assert.Contains(t, err.Error(), "500")
}

func TestSynthesize_MalformedModelOutput(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "not json at all"}},
		})
	}))
	defer ts.Close()

	c := newClaudeTestClient(t, ts.URL)
	_, err := c.Synthesize(context.Background(), "question", testGrounding())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing synthesis JSON")
}

func TestSynthesize_NoTextContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "tool_use", "text": ""}},
		})
	}))
	defer ts.Close()

	c := newClaudeTestClient(t, ts.URL)
	_, err := c.Synthesize(context.Background(), "question", testGrounding())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text content")
}

func TestRenderSynthesisPrompt(t *testing.T) {
	prompt, err := renderSynthesisPrompt("what is attention?", testGrounding())
	require.NoError(t, err)

	assert.Contains(t, prompt, "what is attention?")
	assert.Contains(t, prompt, "[2301.07041] Efficient Attention (2023, 412 citations)")
	assert.Contains(t, prompt, "[1706.03762] Attention Is All You Need (2017, 90000 citations)")
	// The example citation uses the first grounding paper.
	assert.Contains(t, prompt, "e.g. [2301.07041]")
}
