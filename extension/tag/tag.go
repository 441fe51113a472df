// Package tag provides the tag extension for kbase.
// It registers commands: tag (with subcommands ls, create, rm, attach,
// detach, formalise).
//
// A note's own tag array is edited with "kbase update --tag"; these commands
// manage the registry and its explicit memberships.
package tag

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/format"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/jpl-au/kbase/internal/tag"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the tag extension.
type Extension struct {
	svc  service.Service
	user string
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.EventHandler  = (*Extension)(nil)
)

// Name returns "tag" - this extension provides tag registry commands.
func (e *Extension) Name() string { return "tag" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.user = ctx.User()
	return nil
}

// Commands returns the tag command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newTagCmd(),
	}
}

// MCPTools returns nil - MCP tag tools are in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// HandleEvent registers a note's tags as soon as it is written when
// tags.register_observed is on. Without this the names would only reach the
// registry the next time someone lists tags.
//
// Names already in the registry come back as ErrAlreadyExists and are
// skipped. Other failures are returned and end up in the audit log; the
// write itself has already succeeded.
func (e *Extension) HandleEvent(ctx extension.Context, evt extension.Event) error {
	ev, ok := evt.(extension.NoteWriteEvent)
	if !ok || len(ev.Tags) == 0 || !ctx.Config().RegisterObservedTags() {
		return nil
	}

	registry, err := ctx.Service().Tags(context.Background(), ev.UserID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(registry))
	for _, v := range registry {
		if v.Registered {
			known[v.Name] = true
		}
	}

	for _, name := range ev.Tags {
		if known[name] {
			continue
		}
		known[name] = true
		_, err := ctx.Service().CreateTag(context.Background(), ev.UserID, name, tag.PlaceholderColor)
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("register tag %q: %w", name, err)
		}
	}
	return nil
}

// --- tag command with subcommands ---

func (e *Extension) newTagCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		Long: `List, create, and remove registry tags, and link them to notes.

Tags live in two places: the tag array on each note and the tag registry.
"kbase tag ls" shows both, merged by name. Tags that only exist on notes are
shown as unregistered; "kbase tag formalise" registers them.`,
		Args: cobra.NoArgs,
		RunE: e.runTagLs,
	}
	c.AddCommand(e.newTagLsCmd())
	c.AddCommand(e.newTagCreateCmd())
	c.AddCommand(e.newTagRmCmd())
	c.AddCommand(e.newTagAttachCmd())
	c.AddCommand(e.newTagDetachCmd())
	c.AddCommand(e.newTagFormaliseCmd())
	return c
}

func (e *Extension) newTagLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List tags with note counts",
		Args:  cobra.NoArgs,
		RunE:  e.runTagLs,
	}
}

func (e *Extension) newTagCreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a tag",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runTagCreate,
	}
	c.Flags().StringP(extension.FlagColor, "c", "", "Hex colour (e.g. #3b82f6)")
	return c
}

func (e *Extension) newTagRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a registry tag and its links",
		Long: `Remove a registry tag and its links. Tag arrays on notes are left
alone, so the name may still be listed as unregistered.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runTagRm,
	}
}

func (e *Extension) newTagAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <name> <id>...",
		Short: "Link notes to a tag, registering it if needed",
		Args:  cobra.MinimumNArgs(2),
		RunE:  e.runTagAttach,
	}
}

func (e *Extension) newTagDetachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <name> <id>...",
		Short: "Unlink notes from a tag",
		Args:  cobra.MinimumNArgs(2),
		RunE:  e.runTagDetach,
	}
}

func (e *Extension) newTagFormaliseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "formalise",
		Aliases: []string{"formalize"},
		Short:   "Register every tag that only exists on notes",
		Args:    cobra.NoArgs,
		RunE:    e.runTagFormalise,
	}
}

func (e *Extension) runTagLs(c *cobra.Command, _ []string) error {
	views, err := e.svc.Tags(c.Context(), e.user)

	log.Event("tag:ls", "list").User(e.user).Detail("count", len(views)).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag ls: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(views)
	}
	return format.Tags(cmd.Out(), views)
}

func (e *Extension) runTagCreate(c *cobra.Command, args []string) error {
	name := args[0]
	color, _ := c.Flags().GetString(extension.FlagColor)

	t, err := e.svc.CreateTag(c.Context(), e.user, name, color)

	log.Event("tag:create", "create").User(e.user).Detail("tag", name).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag create %q: %w", name, err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Created tag %s\n", t.Name)
	}
	return cmd.PrintJSON(map[string]string{"id": t.ID, "name": t.Name, "color": t.Color})
}

func (e *Extension) runTagRm(c *cobra.Command, args []string) error {
	name := args[0]
	err := e.svc.DeleteTag(c.Context(), e.user, name)

	log.Event("tag:rm", "delete").User(e.user).Detail("tag", name).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag rm %q: %w", name, err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Removed tag %s\n", name)
	}
	return cmd.PrintJSON(map[string]string{"deleted": name})
}

// linkResult reports the notes an attach or detach touched.
type linkResult struct {
	Tag   string   `json:"tag"`
	Notes []string `json:"notes"`
}

func (e *Extension) runTagAttach(c *cobra.Command, args []string) error {
	return e.link(c, args, "attach", e.svc.AttachTag)
}

func (e *Extension) runTagDetach(c *cobra.Command, args []string) error {
	return e.link(c, args, "detach", e.svc.DetachTag)
}

// link applies fn to each note id in turn, stopping at the first failure.
func (e *Extension) link(c *cobra.Command, args []string, verb string,
	fn func(ctx context.Context, userID, name, noteID string) error) error {
	name, ids := args[0], args[1:]
	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	r := linkResult{Tag: name, Notes: []string{}}
	var err error
	for _, id := range ids {
		if err = fn(c.Context(), e.user, name, id); err != nil {
			err = fmt.Errorf("%s: %w", id, err)
			break
		}
		fmt.Fprintf(w, "%s %s %s\n", verbPast(verb), name, id)
		r.Notes = append(r.Notes, id)
	}

	log.Event("tag:"+verb, verb).
		User(e.user).
		Detail("tag", name).
		Detail("count", len(r.Notes)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag %s %q: %w", verb, name, err))
	}
	return cmd.PrintJSON(r)
}

func verbPast(verb string) string {
	if verb == "attach" {
		return "Attached"
	}
	return "Detached"
}

func (e *Extension) runTagFormalise(c *cobra.Command, _ []string) error {
	created, err := e.svc.FormaliseTags(c.Context(), e.user)

	log.Event("tag:formalise", "register").User(e.user).Detail("count", len(created)).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag formalise: %w", err))
	}

	names := make([]string, len(created))
	for i, t := range created {
		names[i] = t.Name
	}
	if !cmd.JSON() {
		if len(names) == 0 {
			fmt.Fprintln(cmd.Out(), "All tags are registered")
		}
		for _, n := range names {
			fmt.Fprintf(cmd.Out(), "Registered %s\n", n)
		}
	}
	return cmd.PrintJSON(map[string][]string{"registered": names})
}
