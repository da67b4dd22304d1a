// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads the paper index produced by the offline ingestion
// pipeline and exposes it as an immutable in-memory snapshot. Query
// handling only ever reads a snapshot; ingestion runs as a separate
// process and hands over a SQLite database or a YAML dump.
package corpus

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/paperscope/pkg/types"
)

// Snapshot is a read-only view of the paper index. Rows are dense
// indexes into the paper slice, assigned in ID order so snapshots built
// from the same records are identical.
type Snapshot struct {
	papers   []types.Paper
	rows     map[string]uint32
	dim      int
	loadedAt time.Time
}

// LoadSummary counts the outcome of building a snapshot.
type LoadSummary struct {
	Loaded   int
	Excluded int
}

// NewSnapshot validates records and builds a snapshot. Records failing
// validation are excluded and reported to w, never loaded with sentinel
// values. embeddingDim zero means "infer from the first embedded record".
func NewSnapshot(papers []types.Paper, embeddingDim int, w io.Writer) (*Snapshot, LoadSummary) {
	if embeddingDim == 0 {
		for i := range papers {
			if len(papers[i].Embedding) > 0 {
				embeddingDim = len(papers[i].Embedding)
				break
			}
		}
	}

	var summary LoadSummary
	kept := make([]types.Paper, 0, len(papers))
	for i := range papers {
		p := papers[i]
		if err := p.Validate(embeddingDim); err != nil {
			fmt.Fprintf(w, "excluded %s: %v\n", displayID(p), err)
			summary.Excluded++
			continue
		}
		if len(p.LexicalTerms) == 0 {
			p.LexicalTerms = Tokenize(p.Title + " " + p.Abstract)
		}
		kept = append(kept, p)
		summary.Loaded++
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].ID < kept[j].ID })

	rows := make(map[string]uint32, len(kept))
	for i := range kept {
		rows[kept[i].ID] = uint32(i)
	}

	return &Snapshot{
		papers:   kept,
		rows:     rows,
		dim:      embeddingDim,
		loadedAt: time.Now().UTC(),
	}, summary
}

func displayID(p types.Paper) string {
	if p.ID != "" {
		return p.ID
	}
	return "(no id)"
}

// Len returns the number of papers in the snapshot.
func (s *Snapshot) Len() int { return len(s.papers) }

// EmbeddingDim returns the embedding dimensionality, zero when the
// corpus carries no embeddings.
func (s *Snapshot) EmbeddingDim() int { return s.dim }

// LoadedAt returns the snapshot build time.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Paper returns the record at row. The returned pointer aliases
// snapshot-owned memory and must be treated as read-only.
func (s *Snapshot) Paper(row uint32) *types.Paper {
	return &s.papers[row]
}

// Row returns the row of the paper with the given ID.
func (s *Snapshot) Row(id string) (uint32, bool) {
	row, ok := s.rows[id]
	return row, ok
}

// ByID returns the paper with the given ID.
func (s *Snapshot) ByID(id string) (*types.Paper, bool) {
	row, ok := s.rows[id]
	if !ok {
		return nil, false
	}
	return &s.papers[row], true
}

// Papers returns the snapshot's records in row order. Read-only.
func (s *Snapshot) Papers() []types.Paper { return s.papers }

// Tokenize lowercases text, strips punctuation, and splits into terms.
// It is the shared tokenization for indexed lexical terms and query text,
// so the keyword retriever scores both in the same vocabulary.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}
