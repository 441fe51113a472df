// rank.go orders raw full-text hits into the final result sequence.
//
// Separated from the store because bm25 alone is not a total order: equal
// scores would otherwise come back in whatever order SQLite visits rows.
//
// Design: Scores are quantised before comparison so two notes whose bm25
// values differ only by floating point noise are treated as tied and fall
// through to the recency tie-break.

package search

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/jpl-au/kbase/internal/store"
)

// scoreScale is the quantisation step for relevance scores (1e-6).
const scoreScale = 1e6

// relevance converts a bm25 value (lower is better) into a quantised score
// where higher is better.
func relevance(bm25 float64) float64 {
	return math.Round(-bm25*scoreScale) / scoreScale
}

// Rank validates the query and orders hits for userID.
//
// Hits owned by any other user are dropped, whatever the index returned.
// A note that appears more than once keeps its best score. The result is
// ordered by relevance desc, then updated_at desc, then id asc, so the same
// input always produces the same order.
func Rank(userID, query string, hits []store.Hit) ([]store.Note, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}

	type scored struct {
		note  store.Note
		score float64
	}

	index := make(map[string]int, len(hits))
	ranked := make([]scored, 0, len(hits))
	for _, h := range hits {
		if h.UserID != userID {
			slog.Warn("search dropped foreign row", "user", userID, "note", h.ID)
			continue
		}
		s := relevance(h.Score)
		if i, ok := index[h.ID]; ok {
			if s > ranked[i].score {
				ranked[i].score = s
			}
			continue
		}
		index[h.ID] = len(ranked)
		ranked = append(ranked, scored{note: h.Note, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.note.UpdatedAt != b.note.UpdatedAt {
			return a.note.UpdatedAt > b.note.UpdatedAt
		}
		return a.note.ID < b.note.ID
	})

	notes := make([]store.Note, len(ranked))
	for i, r := range ranked {
		notes[i] = r.note
	}
	return notes, nil
}
