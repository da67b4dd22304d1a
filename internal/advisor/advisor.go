// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package advisor turns a freeform research question into a synthesized
// briefing backed by retrieved papers. Retrieval reuses the hybrid
// search pipeline; synthesis is an external generation call that may
// fail, in which case the advisor degrades to a quick brief (the
// retrieved papers plus templated follow-up prompts) rather than
// returning nothing.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paperscope/internal/ai"
	"github.com/pdiddy/paperscope/pkg/types"
)

// State is one step of the advisor state machine.
type State string

const (
	StateReceived          State = "received"
	StateRetrieving        State = "retrieving"
	StateRetrievalFailed   State = "retrieval_failed"
	StateRetrieved         State = "retrieved"
	StateSynthesizing      State = "synthesizing"
	StateSynthesized       State = "synthesized"
	StateSynthesisDegraded State = "synthesis_degraded"
	StateCompleted         State = "completed"
)

// RetrieveFunc runs the hybrid retrieval pipeline for a question and
// returns up to limit fused results.
type RetrieveFunc func(ctx context.Context, question string, limit int) ([]types.FusedResult, error)

// Orchestrator drives one advisor request through retrieval and synthesis.
type Orchestrator struct {
	retrieve RetrieveFunc
	synth    ai.Synthesizer
	cfg      types.AdvisorConfig
}

// NewOrchestrator builds an orchestrator. synth may be nil, in which
// case every request takes the degraded path.
func NewOrchestrator(retrieve RetrieveFunc, synth ai.Synthesizer, cfg types.AdvisorConfig) *Orchestrator {
	return &Orchestrator{retrieve: retrieve, synth: synth, cfg: cfg}
}

// Session records the state transitions of one advisor request. Created
// per invocation and discarded with the response.
type Session struct {
	Question string
	States   []State
	Briefing types.Briefing
}

func (s *Session) transition(st State) {
	s.States = append(s.States, st)
}

// Advise answers a research question.
func (o *Orchestrator) Advise(ctx context.Context, req types.AdvisorRequest) (types.Briefing, error) {
	session, err := o.Run(ctx, req)
	if err != nil {
		return types.Briefing{}, err
	}
	return session.Briefing, nil
}

// Run executes the advisor state machine and returns the full session.
func (o *Orchestrator) Run(ctx context.Context, req types.AdvisorRequest) (*Session, error) {
	session := &Session{Question: req.Question}
	session.transition(StateReceived)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return session, types.ErrEmptyQuery
	}

	maxPapers := o.cfg.MaxPapers
	if maxPapers <= 0 {
		maxPapers = 8
	}

	session.transition(StateRetrieving)
	results, err := o.retrieve(ctx, question, maxPapers)
	if err != nil {
		session.transition(StateRetrievalFailed)
		return session, fmt.Errorf("advisor retrieval: %w", err)
	}
	session.transition(StateRetrieved)

	grounding := make([]types.PaperRef, 0, len(results))
	for i := range results {
		grounding = append(grounding, results[i].Paper.Ref())
	}

	intent := detectIntent(question)

	// Zero matches is a valid outcome distinct from any failure: there is
	// nothing to synthesize from, so return an empty, non-degraded brief
	// with follow-ups that help reshape the question.
	if len(grounding) == 0 {
		session.Briefing = types.Briefing{
			Question:  req.Question,
			Papers:    []types.PaperRef{},
			FollowUps: o.followUps(intent, question, nil),
		}
		session.transition(StateCompleted)
		return session, nil
	}

	session.transition(StateSynthesizing)
	briefing := o.synthesize(ctx, session, question, grounding, intent)
	briefing.Question = req.Question
	briefing.Papers = grounding
	session.Briefing = briefing
	session.transition(StateCompleted)
	return session, nil
}

// synthesize calls the generation service and shapes the outcome,
// degrading on any failure.
func (o *Orchestrator) synthesize(ctx context.Context, session *Session, question string, grounding []types.PaperRef, intent intent) types.Briefing {
	degraded := func() types.Briefing {
		session.transition(StateSynthesisDegraded)
		return types.Briefing{
			Degraded:  true,
			FollowUps: o.followUps(intent, question, nil),
		}
	}

	if o.synth == nil {
		return degraded()
	}

	if o.cfg.SynthesisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.SynthesisTimeout)
		defer cancel()
	}

	result, err := o.synth.Synthesize(ctx, question, grounding)
	if err != nil || strings.TrimSpace(result.Briefing) == "" {
		return degraded()
	}

	known := make(map[string]bool, len(grounding))
	for _, ref := range grounding {
		known[ref.ID] = true
	}

	text := scrubCitations(result.Briefing, known)
	session.transition(StateSynthesized)
	return types.Briefing{
		Briefing:  &text,
		FollowUps: o.followUps(intent, question, result.FollowUps),
	}
}

// followUps returns the model's prompts when present, topped up from
// intent templates, capped at the configured maximum.
func (o *Orchestrator) followUps(it intent, question string, fromModel []string) []string {
	max := o.cfg.MaxFollowUps
	if max <= 0 {
		max = 3
	}

	var prompts []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] || len(prompts) >= max {
			return
		}
		seen[p] = true
		prompts = append(prompts, p)
	}

	for _, p := range fromModel {
		add(p)
	}
	for _, p := range templatedFollowUps(it, question) {
		add(p)
	}
	return prompts
}
