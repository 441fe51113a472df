// Package note provides the kbase Service: note, tag, folder, search,
// privacy and plugin operations on top of a store.SQLiteStore.
//
// The service owns policy the store does not: configured limits, the search
// pipeline and its history recorder, tag reconciliation, folder cycle checks,
// the privacy gate and extension events.
package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/ai"
	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/privacy"
	"github.com/jpl-au/kbase/internal/repo"
	"github.com/jpl-au/kbase/internal/search"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/store"
)

var (
	// ErrFolderNotEmpty is returned when deleting a folder that still has
	// subfolders or notes.
	ErrFolderNotEmpty = errors.New("folder is not empty")
	// ErrFolderCycle is returned when re-parenting would make a folder its
	// own ancestor.
	ErrFolderCycle = errors.New("folder cannot be moved into its own subtree")
)

// Compile-time interface compliance check.
var _ service.Service = (*Service)(nil)

// Service implements service.Service.
type Service struct {
	store    *store.SQLiteStore
	dbPath   string
	cfg      *config.Config
	pipeline *search.Pipeline
	gate     *privacy.Gate
	ai       *ai.Guarded
	extCtx   extension.Context // for firing events to extensions
}

// New discovers the database by walking up from the working directory and
// opens a Service on it. The db parameter names the database (empty for the
// default). Returns repo.ErrNotInitialised if none is found.
func New(db string) (*Service, error) {
	dbPath, err := repo.Discover(db)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return Open(dbPath, cfg)
}

// Open creates a Service on the database at dbPath using cfg.
func Open(dbPath string, cfg *config.Config) (*Service, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	rec := search.NewRecorder(s, search.RecorderOptions{
		Timeout:  cfg.HistoryTimeout(),
		Disabled: !cfg.HistoryEnabled(),
	})
	gate := privacy.NewGate(s)

	return &Service{
		store:    s,
		dbPath:   dbPath,
		cfg:      cfg,
		pipeline: search.New(s, rec),
		gate:     gate,
		ai:       ai.NewGuarded(gate, nil),
	}, nil
}

// Init initialises a new kbase repository. See repo.Init.
func Init(force bool, db string, local bool, dir string) error {
	return repo.Init(force, db, local, dir)
}

// Close drains pending history writes, checkpoints the WAL and closes the
// database.
func (s *Service) Close() error {
	s.pipeline.Recorder().Wait()
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").
			Detail("error", err.Error()).
			Write(err)
	}
	return s.store.Close()
}

// SetExtensionContext sets the extension context for firing events.
// Called from cmd/root.go after creating the context.
func (s *Service) SetExtensionContext(ctx extension.Context) {
	s.extCtx = ctx
}

// SetAssistant plugs in an AI collaborator. Without one, Assist reports
// ai.ErrNoAssistant to users who have AI enabled.
func (s *Service) SetAssistant(a ai.Assistant) {
	s.ai = ai.NewGuarded(s.gate, a)
}

// Config returns the configuration the service was opened with.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// fireEvent notifies all registered extension event handlers.
//
// Handler errors are logged, not propagated: events are notifications, not
// veto points.
func (s *Service) fireEvent(e extension.Event) {
	if s.extCtx == nil {
		return
	}
	for _, h := range extension.Implementing[extension.EventHandler]() {
		if err := h.HandleEvent(s.extCtx, e); err != nil {
			name := "unknown"
			if ext, ok := h.(extension.Extension); ok {
				name = ext.Name()
			}
			log.Event("event:error", "error").
				User(e.EventUser()).
				Target(e.EventTarget()).
				Detail("ext", name).
				Detail("event", string(e.EventType())).
				Write(err)
		}
	}
}

// DB returns the underlying database connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// DBPath returns the path to the database file.
func (s *Service) DBPath() string {
	return s.dbPath
}

// Tx runs fn within a database transaction.
func (s *Service) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := s.store.Tx(ctx, fn); err != nil {
		return fmt.Errorf("transaction rolled back: %w", err)
	}
	return nil
}

// Checkpoint flushes the WAL to the main database file.
func (s *Service) Checkpoint(ctx context.Context) error {
	return s.store.Checkpoint(ctx)
}
