// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperscope engine:
// the paper index record, search and advisor request/response shapes,
// trending topics, and per-stage configuration.
package types

import (
	"fmt"
	"time"
)

// Difficulty grades how much background a paper assumes of its reader.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// difficultyOrder fixes the ordering of difficulty levels.
var difficultyOrder = map[Difficulty]int{
	DifficultyBeginner:     0,
	DifficultyIntermediate: 1,
	DifficultyAdvanced:     2,
	DifficultyExpert:       3,
}

// Rank returns the position of d in the difficulty ordering, or -1 for
// an unknown value.
func (d Difficulty) Rank() int {
	if r, ok := difficultyOrder[d]; ok {
		return r
	}
	return -1
}

// Paper is one record of the paper index. Records are produced by the
// offline ingestion pipeline (crawl, abstract extraction, embedding,
// code-link detection) and are immutable once loaded into a snapshot.
type Paper struct {
	// ID is the stable paper identifier (e.g. an arXiv ID such as "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PublishedAt is the validated publication date. Ingestion guarantees
	// it is present and well-formed; records with a zero date are excluded
	// at load time.
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`

	// Categories are topic tags (e.g. "cs.LG", "cs.CL").
	Categories []string `json:"categories" yaml:"categories"`

	// CodeURLs lists detected code repository links. Empty when no code
	// release is known.
	CodeURLs []string `json:"code_urls,omitempty" yaml:"code_urls,omitempty"`

	// CitationCount is non-negative and non-decreasing over the corpus lifetime.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// ImpactScore is a bounded score on [0, 10] assigned by ingestion.
	ImpactScore float64 `json:"impact_score" yaml:"impact_score"`

	// Difficulty is the assumed-background grade.
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`

	// Embedding is the fixed-dimension vector used by the semantic retriever.
	Embedding []float32 `json:"embedding,omitempty" yaml:"embedding,omitempty"`

	// LexicalTerms is the tokenization used by the keyword retriever.
	// Derived from title and abstract when ingestion does not supply it.
	LexicalTerms []string `json:"lexical_terms,omitempty" yaml:"lexical_terms,omitempty"`
}

// HasCode reports whether the paper has at least one code link.
func (p *Paper) HasCode() bool {
	return len(p.CodeURLs) > 0
}

// Validate checks the integrity constraints a record must satisfy before
// it may enter a snapshot. Violations wrap ErrDataIntegrity.
func (p *Paper) Validate(embeddingDim int) error {
	if p.ID == "" {
		return fmt.Errorf("%w: paper has no id", ErrDataIntegrity)
	}
	if p.Title == "" {
		return fmt.Errorf("%w: paper %s has no title", ErrDataIntegrity, p.ID)
	}
	if p.PublishedAt.IsZero() {
		return fmt.Errorf("%w: paper %s has no publication date", ErrDataIntegrity, p.ID)
	}
	if p.CitationCount < 0 {
		return fmt.Errorf("%w: paper %s has negative citation count %d", ErrDataIntegrity, p.ID, p.CitationCount)
	}
	if p.ImpactScore < 0 || p.ImpactScore > 10 {
		return fmt.Errorf("%w: paper %s impact score %.2f outside [0, 10]", ErrDataIntegrity, p.ID, p.ImpactScore)
	}
	if p.Difficulty != "" && p.Difficulty.Rank() < 0 {
		return fmt.Errorf("%w: paper %s has unknown difficulty %q", ErrDataIntegrity, p.ID, p.Difficulty)
	}
	if embeddingDim > 0 && len(p.Embedding) > 0 && len(p.Embedding) != embeddingDim {
		return fmt.Errorf("%w: paper %s embedding has %d dimensions, want %d",
			ErrDataIntegrity, p.ID, len(p.Embedding), embeddingDim)
	}
	return nil
}

// PaperRef is the citation-level view of a paper returned by the advisor
// and used as grounding context for synthesis.
type PaperRef struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	PublishedAt   time.Time `json:"published_at" yaml:"published_at"`
	CitationCount int       `json:"citation_count" yaml:"citation_count"`
	CodeURL       string    `json:"code_url,omitempty" yaml:"code_url,omitempty"`
}

// Ref returns the citation-level view of the paper.
func (p *Paper) Ref() PaperRef {
	ref := PaperRef{
		ID:            p.ID,
		Title:         p.Title,
		PublishedAt:   p.PublishedAt,
		CitationCount: p.CitationCount,
	}
	if len(p.CodeURLs) > 0 {
		ref.CodeURL = p.CodeURLs[0]
	}
	return ref
}
