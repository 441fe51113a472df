// schema.go applies the embedded kbase schema.
//
// The sql/ files are numbered and applied in name order. The number of files
// applied so far is kept in PRAGMA user_version, so opening an existing
// database only runs files added since it was created. Each file runs in its
// own transaction together with the version bump, and every statement uses
// IF NOT EXISTS so databases created before versioning was recorded (version
// 0 with tables present) are brought forward without error.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed sql/*.sql
var schemas embed.FS

var (
	// ErrNotFound indicates the requested note, folder, tag or profile does not
	// exist for the calling user. Rows owned by other users are reported the
	// same way so callers cannot probe for them.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique name (tag, plugin) is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSchemaTooNew means the database was written by a newer kbase.
	ErrSchemaTooNew = errors.New("database schema is newer than this kbase")
)

// schemaFiles lists the embedded schema files in application order.
func schemaFiles() ([]string, error) {
	names, err := fs.Glob(schemas, "sql/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list schema files: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// SchemaVersion reports how many schema files have been applied.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// migrate applies every schema file past the recorded version.
func (s *SQLiteStore) migrate(ctx context.Context) error {
	files, err := schemaFiles()
	if err != nil {
		return err
	}
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > len(files) {
		return fmt.Errorf("%w: version %d, known %d", ErrSchemaTooNew, current, len(files))
	}

	for i := current; i < len(files); i++ {
		if err := s.applySchemaFile(ctx, files[i], i+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) applySchemaFile(ctx context.Context, name string, version int) error {
	data, err := schemas.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply %s: %w", path.Base(name), err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, version)); err != nil {
			return fmt.Errorf("record schema version %d: %w", version, err)
		}
		return nil
	})
}
