// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Failure taxonomy shared across the engine. Components wrap these
// sentinels with fmt.Errorf("%w: ...") so callers can branch with
// errors.Is without parsing messages.
var (
	// ErrRetrievalUnavailable indicates a retrieval backend is down or
	// timed out. A single failed retriever degrades the query; both
	// failing propagates this error to the caller.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrSynthesisUnavailable indicates the generation service failed,
	// timed out, or returned empty output. Advisor requests degrade to a
	// quick brief instead of failing.
	ErrSynthesisUnavailable = errors.New("synthesis unavailable")

	// ErrInvalidFilter indicates a malformed facet predicate. The facet
	// is rejected individually; the rest of the query proceeds.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrDataIntegrity indicates a paper record failed validation and
	// was excluded from the snapshot.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrSuperseded indicates a newer query replaced this one while it
	// was in flight; its results were discarded.
	ErrSuperseded = errors.New("query superseded")

	// ErrCorpusNotLoaded indicates the paper index has not been loaded.
	ErrCorpusNotLoaded = errors.New("corpus not loaded")

	// ErrEmptyQuery indicates a request with no searchable text.
	ErrEmptyQuery = errors.New("query is empty")
)
