// Package log provides centralised audit logging for kbase operations.
// Entries are stored in ~/.kbase/log/kbase-log.db and record CLI commands,
// MCP tool calls and HTTP requests across repositories.
//
// # Fluent API
//
// Build an entry with [Event], chain setters, then call [Builder.Write]:
//
//	log.Event("note:add", "create").
//		User(userID).
//		Target(n.ID).
//		Write(err)
//
//	log.Event("search:find", "search").
//		User(userID).
//		Detail("query", query).
//		Detail("count", len(results)).
//		Write(err)
//
// The source is "{extension}:{command}" for CLI commands, "mcp:{tool}" for
// MCP tools and "http:{route}" for API requests. Background work uses its
// own prefix, e.g. "search:history".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g. "note:cat", "mcp:kbase_search"
	User   string // who performed the action
	Action string // verb: read, create, update, delete, search, ...
	Target string // id of the note, folder, tag or plugin acted on

	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool
	Error   string
	Detail  map[string]any
}

// Builder constructs a log entry using a fluent API.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// User sets who performed the operation.
func (b *Builder) User(id string) *Builder {
	b.entry.User = id
	return b
}

// Target sets the id of the entity the operation affects. Leave unset for
// operations without a single target (listings, searches, config).
func (b *Builder) Target(id string) *Builder {
	b.entry.Target = id
	return b
}

// Detail adds a key-value pair to the entry's detail map. Use it for
// operation-specific data such as queries, counts and filter values.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write records the entry, deriving success from err.
//
//	n, err := svc.Note(ctx, user, id)
//	log.Event("note:cat", "read").User(user).Target(id).Write(err)
//	if err != nil {
//		return err
//	}
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}
	// Background history writes log concurrently with the request path.
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent log entries.
// The dir should be the absolute path to the .kbase directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if the logger is not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
