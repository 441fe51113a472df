// context.go defines the Context interface for extension access to kbase
// internals.
//
// Separated from extension.go to isolate dependency injection concerns.
// The Context provides a controlled surface area for extensions: they get the
// note service, the database, configuration and the acting user, and nothing
// else.
//
// Design: Extensions receive Context during Init(), not at construction, to
// support the two-phase initialisation where extensions register before the
// service is available.

package extension

import (
	"database/sql"

	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/service"
)

// Context provides extensions controlled access to kbase internals.
type Context interface {
	// Service returns the note service.
	Service() service.Service

	// DB exposes the database for extensions needing custom tables.
	// Extensions should create their own tables, not modify core tables.
	DB() *sql.DB

	// Config returns the loaded configuration.
	Config() *config.Config

	// User returns the id of the user CLI and MCP operations act as.
	User() string
}

type extContext struct {
	svc  service.Service
	db   *sql.DB
	cfg  *config.Config
	user string
}

// NewContext creates a new extension context.
func NewContext(svc service.Service, db *sql.DB, cfg *config.Config, user string) Context {
	return &extContext{svc: svc, db: db, cfg: cfg, user: user}
}

func (c *extContext) Service() service.Service { return c.svc }
func (c *extContext) DB() *sql.DB              { return c.db }
func (c *extContext) Config() *config.Config   { return c.cfg }
func (c *extContext) User() string             { return c.user }
