// history.go implements the fire-and-forget search history recorder.
//
// Separated from search.go because history is a side effect of a search,
// not part of producing its result. The request path launches a write and
// returns immediately; nothing on that path ever observes the outcome.
//
// Design: Each write runs in its own goroutine under a context detached from
// the request (context.WithoutCancel) so a client disconnecting right after
// the response does not abort the insert. A per-write timeout bounds how
// long a stuck database can hold the goroutine. Failures go to the audit
// log, slog and a counter, and are then dropped.

package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/store"
)

// DefaultHistoryTimeout bounds a single history write.
const DefaultHistoryTimeout = 5 * time.Second

// Appender is the store surface the recorder writes to.
type Appender interface {
	AppendHistory(ctx context.Context, e store.HistoryEntry) error
}

// RecorderOptions configures a Recorder.
type RecorderOptions struct {
	Timeout  time.Duration // per-write deadline, DefaultHistoryTimeout if zero
	Disabled bool          // Record becomes a no-op
}

// Recorder appends search history asynchronously. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	dst      Appender
	timeout  time.Duration
	disabled bool
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewRecorder creates a recorder writing to dst.
func NewRecorder(dst Appender, opts RecorderOptions) *Recorder {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultHistoryTimeout
	}
	return &Recorder{
		dst:      dst,
		timeout:  timeout,
		disabled: opts.Disabled,
		now:      time.Now,
	}
}

// Record launches the history write and returns without waiting for it.
// ctx supplies values only; its cancellation is ignored.
func (r *Recorder) Record(ctx context.Context, userID, query string, count int) {
	if r == nil || r.disabled {
		return
	}

	e := store.HistoryEntry{
		UserID:       userID,
		Query:        query,
		ResultsCount: count,
		CreatedAt:    r.now().Unix(),
	}
	ctx = context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.write(ctx, e)
	}()
}

func (r *Recorder) write(ctx context.Context, e store.HistoryEntry) {
	// A panicking store must not take the process down with it.
	defer func() {
		if p := recover(); p != nil {
			r.fail(e, fmt.Errorf("%w: panic: %v", ErrHistoryWrite, p))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.dst.AppendHistory(ctx, e); err != nil {
		r.fail(e, fmt.Errorf("%w: %w", ErrHistoryWrite, err))
		return
	}
	HistoryWrites.WithLabelValues("ok").Inc()
}

func (r *Recorder) fail(e store.HistoryEntry, err error) {
	HistoryWrites.WithLabelValues("failed").Inc()
	slog.Warn("search history not recorded", "user", e.UserID, "error", err)
	log.Event("search:history", "append").
		User(e.UserID).
		Detail("query", e.Query).
		Detail("count", e.ResultsCount).
		Write(err)
}

// Wait blocks until every launched write has finished. Servers call it on
// shutdown; tests call it before asserting on stored history.
func (r *Recorder) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}
