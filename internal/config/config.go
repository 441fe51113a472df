// Package config provides reading and writing of kbase configuration.
// Supports both global (~/.kbase/config.yaml) and local (.kbase/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
//
// A few values can also come from the environment (see env.go), which wins
// over both files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.kbase/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is repository-specific config in .kbase/config.yaml
	ScopeLocal
)

// User identifies who the CLI and MCP server act as.
type User struct {
	ID   string `yaml:"id,omitempty"`
	Name string `yaml:"name,omitempty"`
}

// Search holds search options.
type Search struct {
	Limit *int `yaml:"limit,omitempty"`
}

// History holds search history options. Timeout is a Go duration string.
type History struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// Tags holds tag registry options.
type Tags struct {
	RegisterObserved *bool `yaml:"register_observed,omitempty"`
}

// Limits holds size limit configuration options.
type Limits struct {
	MaxTitle *int   `yaml:"max_title,omitempty"`
	MaxBody  *int64 `yaml:"max_body,omitempty"`
}

// Server holds HTTP API options.
type Server struct {
	Addr      string `yaml:"addr,omitempty"`
	JWTSecret string `yaml:"jwt_secret,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultSearchLimit    = 50
	DefaultHistoryTimeout = 5 * time.Second
	DefaultMaxTitle       = 500
	DefaultMaxBody        = 10 * 1024 * 1024 // 10 MB
	DefaultServerAddr     = "127.0.0.1:8787"
)

// Validation bounds for configuration values.
const (
	MinSearchLimit = 1
	MaxSearchLimit = 1000
	MinMaxTitle    = 1
	MaxMaxTitle    = 500
	MinMaxBody     = 1
	MaxMaxBody     = 1024 * 1024 * 1024 // 1 GB
)

// Config contains configuration for kbase.
type Config struct {
	User    User    `yaml:"user,omitempty"`
	Search  Search  `yaml:"search,omitempty"`
	History History `yaml:"history,omitempty"`
	Tags    Tags    `yaml:"tags,omitempty"`
	Limits  Limits  `yaml:"limits,omitempty"`
	Server  Server  `yaml:"server,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Search.Limit != nil {
		v := *c.Search.Limit
		if v < MinSearchLimit || v > MaxSearchLimit {
			return fmt.Errorf("%w: search.limit must be between %d and %d, got %d",
				ErrInvalidValue, MinSearchLimit, MaxSearchLimit, v)
		}
	}
	if c.History.Timeout != "" {
		d, err := time.ParseDuration(c.History.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: history.timeout must be a positive duration such as 5s, got %q",
				ErrInvalidValue, c.History.Timeout)
		}
	}
	if c.Limits.MaxTitle != nil {
		v := *c.Limits.MaxTitle
		if v < MinMaxTitle || v > MaxMaxTitle {
			return fmt.Errorf("%w: max_title must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxTitle, MaxMaxTitle, v)
		}
	}
	if c.Limits.MaxBody != nil {
		v := *c.Limits.MaxBody
		if v < MinMaxBody || v > MaxMaxBody {
			return fmt.Errorf("%w: max_body must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxBody, MaxMaxBody, v)
		}
	}
	return nil
}

// UserID returns the acting user: KBASE_USER if set, else user.id.
func (c *Config) UserID() string {
	if v := os.Getenv(EnvUser); v != "" {
		return v
	}
	return c.User.ID
}

// SearchLimit returns the default number of search and list results.
func (c *Config) SearchLimit() int {
	if c.Search.Limit == nil {
		return DefaultSearchLimit
	}
	return *c.Search.Limit
}

// HistoryEnabled returns whether searches are recorded (defaults to true).
func (c *Config) HistoryEnabled() bool {
	if c.History.Enabled == nil {
		return true
	}
	return *c.History.Enabled
}

// HistoryTimeout returns the per-write deadline for history appends.
func (c *Config) HistoryTimeout() time.Duration {
	if c.History.Timeout == "" {
		return DefaultHistoryTimeout
	}
	d, err := time.ParseDuration(c.History.Timeout)
	if err != nil || d <= 0 {
		return DefaultHistoryTimeout
	}
	return d
}

// RegisterObservedTags returns whether tag listings persist unregistered
// names into the registry (defaults to false).
func (c *Config) RegisterObservedTags() bool {
	if c.Tags.RegisterObserved == nil {
		return false
	}
	return *c.Tags.RegisterObserved
}

// MaxTitle returns the maximum title length in characters.
func (c *Config) MaxTitle() int {
	if c.Limits.MaxTitle == nil {
		return DefaultMaxTitle
	}
	return *c.Limits.MaxTitle
}

// MaxBody returns the maximum note body size in bytes.
func (c *Config) MaxBody() int64 {
	if c.Limits.MaxBody == nil {
		return DefaultMaxBody
	}
	return *c.Limits.MaxBody
}

// ServerAddr returns the HTTP listen address.
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// JWTSecret returns the HMAC secret for bearer tokens: KBASE_JWT_SECRET if
// set, else server.jwt_secret. Empty means the HTTP API cannot start.
func (c *Config) JWTSecret() string {
	if v := os.Getenv(EnvJWTSecret); v != "" {
		return v
	}
	return c.Server.JWTSecret
}

// LocalPath returns the path to the local (repository) config file.
func LocalPath() string {
	return filepath.Join(".kbase", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.kbase/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kbase", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to path, creating parent directories.
// The file may hold a JWT secret, so it is written owner-only.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
