// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by `kbase config` and the MCP config tool, where keys
// are dotted strings such as "search.limit".
//
// Design: Pointers are used for optional fields so we can distinguish between
// "not set" (nil) and "explicitly set to zero/false". Defaults only apply
// when the user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// secretKeys are masked by All so `kbase config` never prints them.
var secretKeys = []string{"server.jwt_secret"}

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"user.id", "user.name",
		"search.limit",
		"history.enabled", "history.timeout",
		"tags.register_observed",
		"limits.max_title", "limits.max_body",
		"server.addr", "server.jwt_secret",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "user.id":
		return c.User.ID, nil
	case "user.name":
		return c.User.Name, nil
	case "search.limit":
		return strconv.Itoa(c.SearchLimit()), nil
	case "history.enabled":
		return strconv.FormatBool(c.HistoryEnabled()), nil
	case "history.timeout":
		return c.HistoryTimeout().String(), nil
	case "tags.register_observed":
		return strconv.FormatBool(c.RegisterObservedTags()), nil
	case "limits.max_title":
		return strconv.Itoa(c.MaxTitle()), nil
	case "limits.max_body":
		return strconv.FormatInt(c.MaxBody(), 10), nil
	case "server.addr":
		return c.ServerAddr(), nil
	case "server.jwt_secret":
		return c.Server.JWTSecret, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "user.id":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: user.id cannot be empty", ErrInvalidValue)
		}
		c.User.ID = value
	case "user.name":
		c.User.Name = value
	case "search.limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinSearchLimit || n > MaxSearchLimit {
			return fmt.Errorf("%w: search.limit must be between %d and %d", ErrInvalidValue, MinSearchLimit, MaxSearchLimit)
		}
		c.Search.Limit = &n
	case "history.enabled":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.History.Enabled = &b
	case "history.timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: history.timeout must be a positive duration such as 5s", ErrInvalidValue)
		}
		c.History.Timeout = d.String()
	case "tags.register_observed":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Tags.RegisterObserved = &b
	case "limits.max_title":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinMaxTitle || n > MaxMaxTitle {
			return fmt.Errorf("%w: limits.max_title must be between %d and %d", ErrInvalidValue, MinMaxTitle, MaxMaxTitle)
		}
		c.Limits.MaxTitle = &n
	case "limits.max_body":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: limits.max_body must be a positive integer", ErrInvalidValue)
		}
		c.Limits.MaxBody = &n
	case "server.addr":
		c.Server.Addr = value
	case "server.jwt_secret":
		c.Server.JWTSecret = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
}

// All returns all configuration values as a map. Secrets are masked.
func (c *Config) All() map[string]string {
	out := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		v, _ := c.Get(k)
		if slices.Contains(secretKeys, k) && v != "" {
			v = "********"
		}
		out[k] = v
	}
	return out
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "user.id":
		return c.User.ID != ""
	case "user.name":
		return c.User.Name != ""
	case "search.limit":
		return c.Search.Limit != nil
	case "history.enabled":
		return c.History.Enabled != nil
	case "history.timeout":
		return c.History.Timeout != ""
	case "tags.register_observed":
		return c.Tags.RegisterObserved != nil
	case "limits.max_title":
		return c.Limits.MaxTitle != nil
	case "limits.max_body":
		return c.Limits.MaxBody != nil
	case "server.addr":
		return c.Server.Addr != ""
	case "server.jwt_secret":
		return c.Server.JWTSecret != ""
	default:
		return false
	}
}
