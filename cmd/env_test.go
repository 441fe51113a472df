// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full stack:
// command parsing -> extension -> note service -> search pipeline -> SQLite.
//
// Each test builds an isolated world: a temp project directory holding the
// .kbase store and a temp HOME so the global config and the audit log never
// touch the developer's real ones. The acting user comes from KBASE_USER,
// which lets a single test switch between alice and bob against one store.
//
// The ranking, filtering and reconciliation rules have unit tests in their own
// packages; these tests prove the pieces are wired together.

package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the kbase binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "kbase-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "kbase"
		if os.PathSeparator == '\\' {
			binaryName = "kbase.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	user   string
	binary string
}

// newTestEnv creates a temporary project with an initialised kbase store,
// acting as alice.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		user:   "alice",
		binary: buildBinary(t),
	}
	env.run("init")
	return env
}

// as returns an environment sharing the same store and HOME but acting as
// another user. An empty id runs with no user at all.
func (e *testEnv) as(user string) *testEnv {
	c := *e
	c.user = user
	return &c
}

func (e *testEnv) command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(),
		"HOME="+e.home,
		"USERPROFILE="+e.home,
		"KBASE_USER="+e.user,
		"KBASE_DB=",
		"KBASE_DIR=",
		"KBASE_JWT_SECRET=",
	)
	return cmd
}

// run executes kbase with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("kbase %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes kbase and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	out, err := e.command(args...).CombinedOutput()
	return string(out), err
}

// runStdin executes kbase with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.runStdinErr(input, args...)
	if err != nil {
		e.t.Fatalf("kbase %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes kbase with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()
	cmd := e.command(args...)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runJSON executes kbase with -o json and decodes stdout into v.
func (e *testEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	out, err := e.command(append(args, "-o", "json")...).Output()
	require.NoError(e.t, err, "kbase %v", args)
	require.NoError(e.t, json.Unmarshal(out, v), "kbase %v: %s", args, out)
}

// add creates a note and returns its id.
func (e *testEnv) add(title, body string, flags ...string) string {
	e.t.Helper()
	var n struct {
		ID string `json:"id"`
	}
	e.runJSON(&n, append([]string{"add", title, body}, flags...)...)
	require.NotEmpty(e.t, n.ID)
	return n.ID
}

// folder creates a folder and returns its id.
func (e *testEnv) folder(name string, flags ...string) string {
	e.t.Helper()
	var f struct {
		ID string `json:"id"`
	}
	e.runJSON(&f, append([]string{"folder", "create", name}, flags...)...)
	require.NotEmpty(e.t, f.ID)
	return f.ID
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// notContains checks that output does not contain s.
func (e *testEnv) notContains(output, s string) {
	e.t.Helper()
	assert.NotContains(e.t, output, s)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// lines splits output into non-empty trimmed lines.
func lines(out string) []string {
	var l []string
	for _, s := range strings.Split(out, "\n") {
		if s = strings.TrimSpace(s); s != "" {
			l = append(l, s)
		}
	}
	return l
}

// noteJSON mirrors the fields tests read from note output.
type noteJSON struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	FolderID *string  `json:"folder_id"`
	Favorite bool     `json:"is_favorite"`
	Archived bool     `json:"is_archived"`
}

// Shared fixture bodies.
const (
	testBodyRunbook = `# Deploy runbook

1. Tag the release
2. Run the migration
3. Roll the fleet`

	testBodyRecipe = `Preheat the oven.
Mix flour and butter.
Bake for twenty minutes.`
)

// jsonDecode decodes JSON printed by a command run through runStdin.
func jsonDecode(out string, v any) error {
	return json.Unmarshal([]byte(out), v)
}
