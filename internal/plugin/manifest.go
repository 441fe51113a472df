// Package plugin parses and validates plugin manifests.
//
// A plugin in kbase is declarative: a YAML manifest naming the permissions,
// commands and panels it would contribute. Installing one records the
// manifest; nothing is loaded or executed.
package plugin

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jpl-au/kbase/internal/store"
)

// ErrInvalidManifest is returned for a manifest that fails validation.
var ErrInvalidManifest = errors.New("invalid plugin manifest")

// MaxManifestSize bounds how much of a manifest file is read.
const MaxManifestSize = 64 * 1024

// Permissions a manifest may request.
const (
	PermNotesRead   = "notes:read"
	PermNotesWrite  = "notes:write"
	PermTagsRead    = "tags:read"
	PermTagsWrite   = "tags:write"
	PermFoldersRead = "folders:read"
	PermSearch      = "search"
	PermAI          = "ai"
)

var knownPermissions = []string{
	PermNotesRead, PermNotesWrite, PermTagsRead, PermTagsWrite,
	PermFoldersRead, PermSearch, PermAI,
}

var (
	nameRe    = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)
	versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+([-+][0-9A-Za-z.-]+)?$`)
)

// Manifest is the on-disk plugin declaration.
type Manifest struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description,omitempty"`
	Permissions []string `yaml:"permissions,omitempty"`
	Commands    []string `yaml:"commands,omitempty"`
	Panels      []string `yaml:"panels,omitempty"`
}

// Parse decodes and validates a YAML manifest. Unknown fields are rejected.
func Parse(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxManifestSize+1))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(data) > MaxManifestSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidManifest, MaxManifestSize)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load parses the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks name, version and permissions, and that commands and
// panels are non-empty and unique.
func (m *Manifest) Validate() error {
	if !nameRe.MatchString(m.Name) {
		return fmt.Errorf("%w: name %q must be lowercase letters, digits and dashes", ErrInvalidManifest, m.Name)
	}
	if !versionRe.MatchString(m.Version) {
		return fmt.Errorf("%w: version %q is not semver", ErrInvalidManifest, m.Version)
	}
	for _, p := range m.Permissions {
		if !slices.Contains(knownPermissions, p) {
			return fmt.Errorf("%w: unknown permission %q", ErrInvalidManifest, p)
		}
	}
	if err := unique("command", m.Commands); err != nil {
		return err
	}
	return unique("panel", m.Panels)
}

func unique(kind string, items []string) error {
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: empty %s", ErrInvalidManifest, kind)
		}
		if seen[s] {
			return fmt.Errorf("%w: duplicate %s %q", ErrInvalidManifest, kind, s)
		}
		seen[s] = true
	}
	return nil
}

// Record converts the manifest to a store record. Plugins install disabled.
func (m *Manifest) Record() store.Plugin {
	return store.Plugin{
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Manifest: store.PluginManifest{
			Permissions: m.Permissions,
			Commands:    m.Commands,
			Panels:      m.Panels,
		},
	}
}
