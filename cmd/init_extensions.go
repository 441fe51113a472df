/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Separated from root.go to isolate the initialisation logic that discovers
// the store, loads config, and wires up extensions.
//
// Design: Extensions register during init() but aren't initialised until
// first command execution. This two-phase pattern allows extensions to
// declare commands before the store exists. The service is created once
// and shared across all extensions via the Context.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/repo"
)

// noStoreCommands lists commands that bypass automatic store initialisation.
// Built dynamically from bootstrap commands plus extension-declared storeless commands.
var noStoreCommands map[string]bool

// buildNoStoreCommands creates the set of commands that skip store initialisation.
//
// Most commands need the note store, but some must work without it:
//
//  1. Bootstrap commands (init, config, help, completion) set up kbase
//     before a store exists.
//
//  2. Extension-declared storeless commands manage their own service
//     lifecycle (serve, api) or never touch the database (version, token).
//
// When adding a new command: If it's a core bootstrap command, add it here.
// Otherwise, implement extension.Storeless in your extension.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		"init":       true,
		"config":     true,
		"help":       true,
		"completion": true,
	}

	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extService *note.Service
	initOnce   sync.Once
	initErr    error
)

// OpenService opens the note service for the database selected by the
// global flags: --dir skips discovery, otherwise the working directory (or
// KBASE_DIR) is searched upwards. Storeless commands that manage their own
// lifecycle use this too.
func OpenService() (*note.Service, error) {
	if Dir() == "" {
		return note.New(DB())
	}

	dbPath := filepath.Join(Dir(), repo.Dir, repo.DBFileName(DB()))
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%s: %w", dbPath, repo.ErrNotInitialised)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return note.Open(dbPath, cfg)
}

// initExtensions creates the note service and injects it into extensions.
//
// sync.Once guarantees a single service per process: it owns the database
// handle and the background history recorder, both of which must be shared
// and closed exactly once.
//
// ErrNotInitialised is returned as-is so first-time users see the
// "run 'kbase init'" hint.
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := OpenService()
		if err != nil {
			initErr = err
			return
		}
		extService = svc

		// Audit entries are grouped by repository.
		log.SetProject(filepath.Dir(svc.DBPath()))

		extContext = extension.NewContext(svc, svc.DB(), svc.Config(), User())
		svc.SetExtensionContext(extContext)

		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

// closeService drains and closes the shared service if one was opened.
func closeService() {
	if extService == nil {
		return
	}
	if err := extService.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing service: %v\n", err)
	}
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		noStoreCommands = buildNoStoreCommands()
	})
}
