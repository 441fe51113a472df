package search

import "errors"

var (
	// ErrInvalidQuery is returned for empty or whitespace-only query text.
	// Callers render it as "no results", not as a failure.
	ErrInvalidQuery = errors.New("invalid query: empty search text")

	// ErrUnavailable wraps any failure of the full-text query or a filter
	// lookup, including deadline overruns. Retryable by the caller.
	ErrUnavailable = errors.New("search unavailable")

	// ErrHistoryWrite marks a failed history append. It is only ever logged.
	ErrHistoryWrite = errors.New("search history write failed")
)
