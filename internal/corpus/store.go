// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperscope/pkg/types"
)

// Load reads every paper record from the ingestion database and builds a
// snapshot. Records failing validation are excluded and reported to w.
func Load(ctx context.Context, cfg types.CorpusConfig, w io.Writer) (*Snapshot, LoadSummary, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?mode=ro&_journal_mode=WAL")
	if err != nil {
		return nil, LoadSummary{}, fmt.Errorf("opening corpus database: %w", err)
	}
	defer db.Close()

	papers, malformed, err := scanPapers(ctx, db, w)
	if err != nil {
		return nil, LoadSummary{}, err
	}

	snap, summary := NewSnapshot(papers, cfg.EmbeddingDim, w)
	summary.Excluded += malformed
	return snap, summary, nil
}

func scanPapers(ctx context.Context, db *sql.DB, w io.Writer) ([]types.Paper, int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, abstract, published_at, categories, code_urls,
			citation_count, impact_score, difficulty, embedding, lexical_terms
		FROM papers`)
	if err != nil {
		return nil, 0, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var (
		papers   []types.Paper
		excluded int
	)
	for rows.Next() {
		var (
			p             types.Paper
			publishedAt   sql.NullString
			categoriesJS  sql.NullString
			codeURLsJS    sql.NullString
			difficulty    sql.NullString
			embeddingBlob []byte
			lexicalJS     sql.NullString
		)

		if err := rows.Scan(
			&p.ID, &p.Title, &p.Abstract, &publishedAt, &categoriesJS, &codeURLsJS,
			&p.CitationCount, &p.ImpactScore, &difficulty, &embeddingBlob, &lexicalJS,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning paper row: %w", err)
		}

		// Malformed dates are left zero here; snapshot validation excludes
		// the record with a data-integrity report instead of surfacing a
		// raw unparseable value.
		if publishedAt.Valid && publishedAt.String != "" {
			if t, parseErr := time.Parse(time.RFC3339, publishedAt.String); parseErr == nil {
				p.PublishedAt = t
			} else if t, parseErr := time.Parse("2006-01-02", publishedAt.String); parseErr == nil {
				p.PublishedAt = t
			}
		}

		// A corrupt JSON column is the same integrity failure as a bad
		// date: the record is excluded and counted, never loaded with the
		// field silently blanked.
		var colErr error
		if err := decodeJSONColumn(categoriesJS, &p.Categories); err != nil {
			colErr = fmt.Errorf("malformed categories: %w", err)
		} else if err := decodeJSONColumn(codeURLsJS, &p.CodeURLs); err != nil {
			colErr = fmt.Errorf("malformed code_urls: %w", err)
		} else if err := decodeJSONColumn(lexicalJS, &p.LexicalTerms); err != nil {
			colErr = fmt.Errorf("malformed lexical_terms: %w", err)
		}
		if colErr != nil {
			fmt.Fprintf(w, "excluded %s: %v: %v\n", displayID(p), types.ErrDataIntegrity, colErr)
			excluded++
			continue
		}

		if difficulty.Valid {
			p.Difficulty = types.Difficulty(difficulty.String)
		}
		p.Embedding = decodeEmbedding(embeddingBlob)

		papers = append(papers, p)
	}
	return papers, excluded, rows.Err()
}

// decodeJSONColumn parses an optional JSON string-array column. NULL and
// empty values decode to nil.
func decodeJSONColumn(col sql.NullString, dst *[]string) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}

// Save writes papers into a fresh ingestion-format database at dbPath.
// Used by `paperscope corpus import` to convert a YAML dump.
func Save(ctx context.Context, dbPath string, papers []types.Paper) error {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("opening corpus database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			published_at TEXT,
			categories TEXT,
			code_urls TEXT,
			citation_count INTEGER,
			impact_score REAL,
			difficulty TEXT,
			embedding BLOB,
			lexical_terms TEXT
		)`); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, abstract, published_at, categories, code_urls,
			citation_count, impact_score, difficulty, embedding, lexical_terms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract,
			published_at=excluded.published_at, categories=excluded.categories,
			code_urls=excluded.code_urls, citation_count=excluded.citation_count,
			impact_score=excluded.impact_score, difficulty=excluded.difficulty,
			embedding=excluded.embedding, lexical_terms=excluded.lexical_terms`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range papers {
		p := &papers[i]
		categoriesJS, _ := json.Marshal(p.Categories)
		codeURLsJS, _ := json.Marshal(p.CodeURLs)
		lexicalJS, _ := json.Marshal(p.LexicalTerms)
		dateStr := ""
		if !p.PublishedAt.IsZero() {
			dateStr = p.PublishedAt.UTC().Format(time.RFC3339)
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Title, p.Abstract, dateStr, string(categoriesJS), string(codeURLsJS),
			p.CitationCount, p.ImpactScore, string(p.Difficulty),
			encodeEmbedding(p.Embedding), string(lexicalJS),
		); err != nil {
			return fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// Embeddings are stored as little-endian float32 blobs, the layout the
// ingestion pipeline writes.

func encodeEmbedding(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeEmbedding(buf []byte) []float32 {
	if len(buf) == 0 || len(buf)%4 != 0 {
		return nil
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return v
}
