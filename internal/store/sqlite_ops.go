// sqlite_ops.go provides SQLite connection management and low-level operations.
//
// Separated to isolate SQLite-specific concerns (pragmas, connection pooling,
// driver registration, row scanning) from the query files. This is the only
// file that imports the SQLite driver.
//
// Design: WAL mode with busy timeout balances concurrency and durability.
// WAL allows concurrent readers during writes, which the search path relies
// on when it fans out its filter lookups while the history recorder inserts.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite with WAL mode and an FTS5 index.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// Compile-time interface compliance check.
var _ Store = (*SQLiteStore)(nil)

// Open opens the SQLite database file at path and returns a configured
// SQLiteStore. The caller should call Close on the returned store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// WAL mode: concurrent readers while writing.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Busy timeout: wait up to 5s for a competing writer instead of failing
	// immediately with "database is locked".
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Synchronous NORMAL is safe against corruption under WAL.
	if _, err := db.Exec(`PRAGMA synchronous=NORMAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting synchronous mode: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Init brings the schema up to date. Safe to call multiple times.
func (s *SQLiteStore) Init() error {
	return s.migrate(context.Background())
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for extensions that need custom tables.
// Extensions should not modify core tables directly.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// SetClock replaces the time source used for created_at/updated_at. Used by
// tests and importers that need to control timestamps.
func (s *SQLiteStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SQLiteStore) unix() int64 {
	return s.now().Unix()
}

// scanner abstracts sql.Row and sql.Rows, enabling a single scan function
// to handle both single-row and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// noteColumns is the column list scanNote expects, prefixed with alias n.
const noteColumns = `n.id, n.user_id, n.title, n.body, n.tags, n.folder_id,
	n.is_favorite, n.is_archived, n.created_at, n.updated_at`

// scanNote extracts a Note from a database row, handling nullable fields and
// the JSON tag array. Extra destinations are scanned after the note columns.
func scanNote(sc scanner, extra ...any) (Note, error) {
	var n Note
	var tags string
	var folder sql.NullString
	var fav, arch int

	dest := []any{&n.ID, &n.UserID, &n.Title, &n.Body, &tags, &folder,
		&fav, &arch, &n.CreatedAt, &n.UpdatedAt}
	dest = append(dest, extra...)
	if err := sc.Scan(dest...); err != nil {
		return n, err
	}

	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
			return n, fmt.Errorf("decode tags of note %s: %w", n.ID, err)
		}
	}
	if folder.Valid {
		f := folder.String
		n.FolderID = &f
	}
	n.Favorite = fav != 0
	n.Archived = arch != 0
	return n, nil
}

// scanNotes iterates over query results, collecting notes into a slice.
func scanNotes(rows *sql.Rows) ([]Note, error) {
	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// scanIDs collects a single string column.
func scanIDs(rows *sql.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// notFound converts sql.ErrNoRows to ErrNotFound for consistent error handling.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Tx executes fn within a database transaction, handling Begin/Commit/Rollback
// automatically. If fn returns an error the transaction is rolled back.
// Context cancellation aborts the transaction at the next database call.
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// newID returns a random identifier for notes, folders, tags and history rows.
func newID() string {
	return uuid.NewString()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

// nullString maps nil to SQL NULL.
func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*3)
	for i := range n {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, '?')
	}
	return string(b)
}
