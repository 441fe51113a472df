// checkpoint.go folds the WAL back into the main database file.
//
// kbase calls it from Service.Close, after pending history writes have
// drained, so a closed repository is a single kbase.db file. TRUNCATE mode
// also empties the -wal file on disk.

package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrCheckpointBusy means another connection held the WAL open past the busy
// timeout, so only part of it was copied back. The data is safe; the next
// checkpoint finishes the job.
var ErrCheckpointBusy = errors.New("WAL checkpoint incomplete: database busy")

// Checkpoint copies the WAL into the database file and truncates it.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	var busy, logFrames, copied int
	err := s.db.QueryRowContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`).Scan(&busy, &logFrames, &copied)
	if err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	if busy != 0 {
		return fmt.Errorf("%w: %d of %d frames copied", ErrCheckpointBusy, copied, logFrames)
	}
	return nil
}
