// Package mcp implements the Model Context Protocol server, exposing kbase
// operations to LLMs. Assistants can search, read, write and organise a
// user's notes through a standardised protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/repo"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/version"
)

// ErrNotInitialised is returned by tools when the store has not been initialised.
// The LLM should call kbase_init to create a store before using other tools.
const ErrNotInitialised = "store not initialised - call kbase_init first"

// ErrNoUser is returned by tools when no acting user is configured.
const ErrNoUser = "no user configured - set user.id or KBASE_USER"

// Serve starts the MCP server over stdio, acting as user.
// Uses stdio transport for compatibility with Claude Desktop and other MCP clients.
//
// Design: The server starts successfully even if no store exists. This allows
// LLMs to call kbase_init to create a store, rather than failing with an opaque
// error. Tools that require a store return ErrNotInitialised.
func Serve(db, user string) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{db: db, user: user}

	svc, err := note.New(db)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open store", "error", err)
		return err
	}
	if err == nil {
		h.attach(svc)
		defer svc.Close()
	} else {
		slog.Info("kbase not initialised, starting in uninitialised mode - call kbase_init to create store")
	}

	s := newServer(h)

	slog.Info("kbase MCP server ready", "version", version.Short(), "transport", "stdio", "user", user)

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// newServer builds the MCP server with every core and extension tool.
func newServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"kbase",
		version.Short(),
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)
	registerResources(s, h)
	registerTools(s, h)
	registerExtensionTools(s, h)
	return s
}

// handlers provides MCP request handlers with access to the note service.
// The svc field is nil until a store exists.
type handlers struct {
	db     string          // database name for init
	user   string          // acting user for every tool call
	svc    service.Service // nil if not initialised
	extCtx extension.Context
}

// attach wires an opened service into the handlers and the extension
// event system.
func (h *handlers) attach(svc *note.Service) {
	h.svc = svc
	h.extCtx = extension.NewContext(svc, svc.DB(), svc.Config(), h.user)
	svc.SetExtensionContext(h.extCtx)
}

// requireInit returns an error result if the store is not initialised or
// there is nobody to act as. Tools that require a store call this first.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	if h.user == "" {
		return mcp.NewToolResultError(ErrNoUser)
	}
	return nil
}

// registerResources adds URI-based resource access for direct note reading.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"kbase://notes/{id}",
			"Note",
			mcp.WithTemplateDescription("Read a note's body by id"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readNoteResource,
	)
}

// registerTools exposes kbase operations as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	// Init - works without existing store
	s.AddTool(
		mcp.NewTool("kbase_init",
			mcp.WithDescription("Initialise a new kbase store. Call this first if other tools return 'store not initialised'."),
			mcp.WithBoolean("local", mcp.Description("If true, database is gitignored (not committed to version control)")),
		),
		h.initStore,
	)

	// Guide - works without existing store
	s.AddTool(
		mcp.NewTool("kbase_guide",
			mcp.WithDescription("Read the kbase usage guide. Call with no topic for the overview."),
			mcp.WithString("topic", mcp.Description("Guide topic (search, tags, folders, config, api)")),
		),
		h.readGuide,
	)

	// Notes
	s.AddTool(
		mcp.NewTool("kbase_list",
			mcp.WithDescription("List notes, most recently updated first"),
			mcp.WithString("folder_id", mcp.Description("Only notes filed directly in this folder")),
			mcp.WithString("tag", mcp.Description("Only notes carrying this tag")),
			mcp.WithBoolean("favorite", mcp.Description("true for favourites only, false for non-favourites only")),
			mcp.WithString("archived", mcp.Description("exclude (default), only or all")),
			mcp.WithNumber("limit", mcp.Description("Maximum notes to return (default: search.limit)")),
			mcp.WithNumber("offset", mcp.Description("Notes to skip")),
		),
		h.listNotes,
	)

	s.AddTool(
		mcp.NewTool("kbase_read",
			mcp.WithDescription("Read one or more notes including their bodies"),
			mcp.WithArray("ids", mcp.Required(), mcp.WithStringItems(), mcp.Description("Note ids")),
			mcp.WithNumber("start_line", mcp.Description("First body line to return (1-indexed)")),
			mcp.WithNumber("end_line", mcp.Description("Last body line to return (1-indexed)")),
		),
		h.readNotes,
	)

	s.AddTool(
		mcp.NewTool("kbase_create",
			mcp.WithDescription("Create a note"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
			mcp.WithString("body", mcp.Description("Note body (markdown)")),
			mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Tag names")),
			mcp.WithString("folder_id", mcp.Description("Folder to file the note in")),
			mcp.WithBoolean("favorite", mcp.Description("Mark as favourite")),
		),
		h.createNote,
	)

	s.AddTool(
		mcp.NewTool("kbase_update",
			mcp.WithDescription("Update fields of a note. Omitted fields are left unchanged."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("body", mcp.Description("New body, replacing the old one")),
			mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("New tag list, replacing the old one")),
			mcp.WithString("folder_id", mcp.Description("Move into this folder")),
			mcp.WithBoolean("clear_folder", mcp.Description("Move out of any folder")),
			mcp.WithBoolean("favorite", mcp.Description("Set favourite")),
			mcp.WithBoolean("archived", mcp.Description("Set archived")),
		),
		h.updateNote,
	)

	s.AddTool(
		mcp.NewTool("kbase_edit",
			mcp.WithDescription("Edit a note body via search/replace (first occurrence) or a line range. Returns a diff."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
			mcp.WithString("old", mcp.Description("Text to find")),
			mcp.WithString("new", mcp.Description("Replacement text")),
			mcp.WithString("lines", mcp.Description("Line range start:end to replace with new")),
			mcp.WithBoolean("ignore_case", mcp.Description("Case-insensitive match of old")),
		),
		h.editNote,
	)

	s.AddTool(
		mcp.NewTool("kbase_delete",
			mcp.WithDescription("Permanently delete notes"),
			mcp.WithArray("ids", mcp.Required(), mcp.WithStringItems(), mcp.Description("Note ids")),
			mcp.WithBoolean("dry_run", mcp.Description("Report what would be deleted")),
		),
		h.deleteNotes,
	)

	// Search
	s.AddTool(
		mcp.NewTool("kbase_search",
			mcp.WithDescription("Full-text search across notes, ranked by relevance. Results omit bodies; use kbase_read."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
			mcp.WithString("folder_id", mcp.Description("Only notes in this folder")),
			mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Only notes with any of these tags")),
			mcp.WithBoolean("favorite", mcp.Description("Filter on favourite status")),
			mcp.WithNumber("limit", mcp.Description("Maximum results (default: search.limit)")),
		),
		h.searchNotes,
	)

	s.AddTool(
		mcp.NewTool("kbase_history",
			mcp.WithDescription("List recent searches, newest first"),
			mcp.WithNumber("limit", mcp.Description("Maximum entries")),
			mcp.WithString("since", mcp.Description("Only entries newer than this (12h, 7d, 4w, 3m)")),
		),
		h.searchHistory,
	)

	// Tags
	s.AddTool(
		mcp.NewTool("kbase_tags",
			mcp.WithDescription("List tags with note counts, merging the tag registry with tags written on notes"),
		),
		h.listTags,
	)

	s.AddTool(
		mcp.NewTool("kbase_tag_create",
			mcp.WithDescription("Register a tag"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Tag name")),
			mcp.WithString("color", mcp.Description("Colour as #rrggbb")),
		),
		h.createTag,
	)

	s.AddTool(
		mcp.NewTool("kbase_tag_delete",
			mcp.WithDescription("Delete a registered tag and its memberships"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Tag name")),
		),
		h.deleteTag,
	)

	s.AddTool(
		mcp.NewTool("kbase_tag_attach",
			mcp.WithDescription("Link a note to a registered tag, registering the tag if needed"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Tag name")),
			mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		),
		h.attachTag,
	)

	s.AddTool(
		mcp.NewTool("kbase_tag_detach",
			mcp.WithDescription("Remove a note's link to a registered tag"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Tag name")),
			mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		),
		h.detachTag,
	)

	s.AddTool(
		mcp.NewTool("kbase_tag_formalise",
			mcp.WithDescription("Register every tag name that so far only appears on notes"),
		),
		h.formaliseTags,
	)

	// Folders
	s.AddTool(
		mcp.NewTool("kbase_folders",
			mcp.WithDescription("Show the folder tree with note counts"),
		),
		h.folderTree,
	)

	s.AddTool(
		mcp.NewTool("kbase_folder_create",
			mcp.WithDescription("Create a folder"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Folder name")),
			mcp.WithString("parent_id", mcp.Description("Parent folder id")),
			mcp.WithString("color", mcp.Description("Colour as #rrggbb")),
			mcp.WithString("description", mcp.Description("Folder description")),
		),
		h.createFolder,
	)

	s.AddTool(
		mcp.NewTool("kbase_folder_update",
			mcp.WithDescription("Rename, recolour or move a folder"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Folder id")),
			mcp.WithString("name", mcp.Description("New name")),
			mcp.WithString("parent_id", mcp.Description("New parent folder id")),
			mcp.WithBoolean("clear_parent", mcp.Description("Move to the top level")),
			mcp.WithString("color", mcp.Description("Colour as #rrggbb")),
			mcp.WithString("description", mcp.Description("Folder description")),
		),
		h.updateFolder,
	)

	s.AddTool(
		mcp.NewTool("kbase_folder_delete",
			mcp.WithDescription("Delete an empty folder"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Folder id")),
		),
		h.deleteFolder,
	)

	// Settings
	s.AddTool(
		mcp.NewTool("kbase_privacy",
			mcp.WithDescription("Show or change privacy settings. Omit every flag to show them."),
			mcp.WithBoolean("ai_features_enabled", mcp.Description("Allow AI features")),
			mcp.WithBoolean("data_sharing_enabled", mcp.Description("Allow data sharing")),
			mcp.WithBoolean("analytics_enabled", mcp.Description("Allow analytics")),
			mcp.WithBoolean("encryption_enabled", mcp.Description("Enable encryption")),
		),
		h.privacy,
	)

	s.AddTool(
		mcp.NewTool("kbase_assist",
			mcp.WithDescription("Run an AI action on a note. Requires AI features in privacy settings."),
			mcp.WithString("action", mcp.Required(), mcp.Description("summarize, generate-ideas or research")),
			mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		),
		h.assist,
	)

	s.AddTool(
		mcp.NewTool("kbase_plugins",
			mcp.WithDescription("List installed plugins"),
		),
		h.listPlugins,
	)

	s.AddTool(
		mcp.NewTool("kbase_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (user.id, search.limit, history.enabled, ...) or empty for all")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("kbase_config_set",
			mcp.WithDescription("Set a configuration value. Takes effect on the next server start."),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)
}

// registerExtensionTools adds the tools declared by compiled-in extensions.
// Their handlers receive the extension Context once a store is open.
func registerExtensionTools(s *server.MCPServer, h *handlers) {
	for _, ext := range extension.All() {
		for _, t := range ext.MCPTools() {
			handler := t.Handler
			s.AddTool(t.Tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				if result := h.requireInit(); result != nil {
					return result, nil
				}
				return handler(ctx, h.extCtx, req)
			})
		}
	}
}
