// repo_gitignore.go maintains .kbase/.gitignore.
//
// Separated from repo.go because it is plain file editing with no database
// involvement. The database is committed by default so a notes repository can
// travel with its project; `kbase init --local` keeps it out of git instead.
//
// Design: Existing content is preserved. Local databases are appended under
// a header line so hand-written entries are never rewritten.

package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const localDBHeader = "# Local databases (not committed)"

const defaultGitignore = `# kbase - local config and SQLite sidecar files are never committed
config.yaml
*.db-wal
*.db-shm
`

// writeGitignore creates the default .gitignore on first init only.
func writeGitignore(kbDir string) error {
	path := filepath.Join(kbDir, ".gitignore")
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := os.WriteFile(path, []byte(defaultGitignore), 0644); err != nil {
		return fmt.Errorf("write gitignore: %w", err)
	}
	return nil
}

func gitignoreLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines, nil
}

// IgnoreDB adds a database to .gitignore. If dir is empty the .kbase
// directory is discovered from the working directory.
func IgnoreDB(name, dir string) error {
	if dir == "" {
		var err error
		if dir, err = DiscoverDir(); err != nil {
			return err
		}
	}

	dbFile := DBFileName(name)
	path := filepath.Join(dir, ".gitignore")

	lines, err := gitignoreLines(path)
	if err != nil {
		return err
	}
	if slices.Contains(lines, dbFile) {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s := string(content)
	if !slices.Contains(lines, localDBHeader) {
		s += "\n" + localDBHeader + "\n"
	}
	s += dbFile + "\n"
	return os.WriteFile(path, []byte(s), 0644)
}

// IsIgnored reports whether a database is listed in .gitignore.
func IsIgnored(name, dir string) (bool, error) {
	if dir == "" {
		var err error
		if dir, err = DiscoverDir(); err != nil {
			return false, err
		}
	}
	lines, err := gitignoreLines(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return false, err
	}
	return slices.Contains(lines, DBFileName(name)), nil
}
