// Package repo provides repository initialisation and discovery for kbase.
//
// A kbase repository is a .kbase directory holding the SQLite database and,
// optionally, a local config.yaml. Discovery mirrors git: starting from the
// working directory (or KBASE_DIR), walk up until a .kbase directory with
// the target database is found. KBASE_DB names a database file directly and
// skips discovery altogether.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/store"
)

const (
	// Dir is the directory name for the kbase repository.
	Dir = ".kbase"
	// DBFile is the default database filename.
	DBFile = "kbase.db"
)

// ErrNotInitialised is returned when no kbase repository is found.
var ErrNotInitialised = errors.New("kbase not initialised (run 'kbase init')")

// DBFileName returns the database filename for a given name.
// Empty name returns "kbase.db"; "work" returns "kbase-work.db"; a name
// already ending in ".db" is returned as-is.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return "kbase-" + name + ".db"
}

// Init creates .kbase/ under dir (current directory when empty) and an
// initialised database inside it. An existing database is only replaced
// when force is set. With local, the database file is gitignored.
//
// Init does not write config; that is `kbase config`.
func Init(force bool, db string, local bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	kbDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(kbDir, DBFileName(db))

	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(db))
		}
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove database: %w", err)
			}
		}
	}

	if err := os.MkdirAll(kbDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	if err := writeGitignore(kbDir); err != nil {
		return err
	}
	if local {
		if err := IgnoreDB(db, kbDir); err != nil {
			return fmt.Errorf("ignore database: %w", err)
		}
	}
	return nil
}

// Discover returns the path of the database to use. KBASE_DB wins when set
// and must point at an existing file.
func Discover(db string) (string, error) {
	if p := os.Getenv(config.EnvDB); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", config.EnvDB, p, err)
		}
		return p, nil
	}

	dbFile := DBFileName(db)
	dir, err := startDir()
	if err != nil {
		return "", err
	}

	for {
		dbPath := filepath.Join(dir, Dir, dbFile)
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DiscoverDir finds the .kbase directory, walking up the tree.
func DiscoverDir() (string, error) {
	dir, err := startDir()
	if err != nil {
		return "", err
	}

	for {
		kbDir := filepath.Join(dir, Dir)
		if info, err := os.Stat(kbDir); err == nil && info.IsDir() {
			return kbDir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

func startDir() (string, error) {
	if d := os.Getenv(config.EnvDir); d != "" {
		return filepath.Abs(d)
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}
