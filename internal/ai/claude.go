// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paperscope/internal/httputil"
	"github.com/pdiddy/paperscope/pkg/types"
)

// synthesisPromptTmpl is the prompt sent to the Claude API for one
// advisor question. The grounding papers are the only works the model
// may cite; the advisor still filters the returned citations against the
// grounding set in case the model strays.
var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`You are a research advisor. A user asked the following research question:

{{.Question}}

You are given the retrieved papers below as grounding context. Write a concise briefing (3-6 paragraphs) answering the question using ONLY these papers. Cite papers inline by their ID in square brackets, e.g. [{{.ExampleID}}]. Never reference any work outside this list.

Grounding papers:
{{range .Papers}}- [{{.ID}}] {{.Title}} ({{.PublishedAt.Year}}, {{.CitationCount}} citations)
{{end}}
Respond with a JSON object and no other text:
{"briefing": "...", "citations": ["id", ...], "follow_ups": ["next question", ...]}

citations must list only IDs from the grounding papers that the briefing actually uses. follow_ups must contain 2-3 short follow-up research questions.
`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeSynthesizer calls the Claude Messages API to synthesize a
// briefing from the grounding papers.
type ClaudeSynthesizer struct {
	model      string
	apiKey     string
	maxRetries int
	client     *http.Client
	limiter    *rate.Limiter
}

// NewClaudeSynthesizer builds a synthesizer from advisor config. The
// HTTP client timeout is the synthesis timeout budget.
func NewClaudeSynthesizer(cfg types.AdvisorConfig) *ClaudeSynthesizer {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	return &ClaudeSynthesizer{
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: cfg.SynthesisTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Claude Messages API JSON structures.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Synthesize renders the synthesis prompt and calls the Claude API.
func (c *ClaudeSynthesizer) Synthesize(ctx context.Context, question string, grounding []types.PaperRef) (SynthesisResult, error) {
	if len(grounding) == 0 {
		return SynthesisResult{}, fmt.Errorf("no grounding papers")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return SynthesisResult{}, err
	}

	prompt, err := renderSynthesisPrompt(question, grounding)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.maxRetries)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("%w: calling Claude API: %v", types.ErrSynthesisUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return SynthesisResult{}, fmt.Errorf("%w: Claude API returned %d: %s",
			types.ErrSynthesisUnavailable, resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return SynthesisResult{}, fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		var result SynthesisResult
		if err := json.Unmarshal([]byte(block.Text), &result); err != nil {
			return SynthesisResult{}, fmt.Errorf("parsing synthesis JSON: %w", err)
		}
		return result, nil
	}

	return SynthesisResult{}, fmt.Errorf("no text content in Claude API response")
}

func renderSynthesisPrompt(question string, grounding []types.PaperRef) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Question  string
		ExampleID string
		Papers    []types.PaperRef
	}{
		Question:  question,
		ExampleID: grounding[0].ID,
		Papers:    grounding,
	}
	if err := synthesisPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
