package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into a fresh project directory and points HOME at a
// separate one so the two scopes resolve to different files and neither
// touches the real user config.
func chdirTemp(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefaults(t *testing.T) {
	c := &Config{}
	assert.Equal(t, DefaultSearchLimit, c.SearchLimit())
	assert.True(t, c.HistoryEnabled())
	assert.Equal(t, DefaultHistoryTimeout, c.HistoryTimeout())
	assert.False(t, c.RegisterObservedTags())
	assert.Equal(t, DefaultServerAddr, c.ServerAddr())
	assert.Equal(t, int64(DefaultMaxBody), c.MaxBody())
}

func TestSetGet(t *testing.T) {
	c := &Config{}

	require.NoError(t, c.Set("search.limit", "20"))
	v, err := c.Get("search.limit")
	require.NoError(t, err)
	assert.Equal(t, "20", v)

	require.NoError(t, c.Set("history.timeout", "250ms"))
	assert.Equal(t, 250*time.Millisecond, c.HistoryTimeout())

	require.NoError(t, c.Set("history.enabled", "FALSE"))
	assert.False(t, c.HistoryEnabled())

	assert.ErrorIs(t, c.Set("search.limit", "0"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("search.limit", "5000"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("history.timeout", "soon"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("tags.register_observed", "yes"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("user.id", " "), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("nope", "1"), ErrUnknownKey)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestIsSetAndAll(t *testing.T) {
	c := &Config{}
	assert.False(t, c.IsSet("search.limit"))
	require.NoError(t, c.Set("search.limit", "10"))
	assert.True(t, c.IsSet("search.limit"))

	require.NoError(t, c.Set("server.jwt_secret", "s3cret"))
	all := c.All()
	assert.Len(t, all, len(ValidKeys()))
	assert.Equal(t, "********", all["server.jwt_secret"])
	assert.Equal(t, "10", all["search.limit"])
}

func TestEnvOverrides(t *testing.T) {
	c := &Config{User: User{ID: "from-file"}, Server: Server{JWTSecret: "file-secret"}}
	assert.Equal(t, "from-file", c.UserID())

	t.Setenv(EnvUser, "from-env")
	t.Setenv(EnvJWTSecret, "env-secret")
	assert.Equal(t, "from-env", c.UserID())
	assert.Equal(t, "env-secret", c.JWTSecret())
}

func TestLoadPrefersLocal(t *testing.T) {
	chdirTemp(t)

	global := &Config{User: User{ID: "global"}}
	require.NoError(t, global.SaveScope(ScopeGlobal))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "global", cfg.User.ID)
	assert.Equal(t, ScopeGlobal, cfg.Scope())

	local := &Config{User: User{ID: "local"}}
	require.NoError(t, local.SaveScope(ScopeLocal))

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.User.ID)
	assert.Equal(t, ScopeLocal, cfg.Scope())
}

func TestLoadRejectsInvalid(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.MkdirAll(".kbase", 0755))

	require.NoError(t, os.WriteFile(LocalPath(), []byte("search:\n  limit: 0\n"), 0644))
	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidValue)

	require.NoError(t, os.WriteFile(LocalPath(), []byte("search: [\n"), 0644))
	_, err = Load()
	assert.ErrorContains(t, err, "malformed config file")
}

func TestLoadEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, LoadEnv(), "missing .env is fine")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("KBASE_TEST_VALUE=hello\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("KBASE_TEST_VALUE") })
	require.NoError(t, LoadEnv())
	assert.Equal(t, "hello", os.Getenv("KBASE_TEST_VALUE"))
}
