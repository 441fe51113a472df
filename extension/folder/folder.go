// Package folder provides the folder extension for kbase.
// It registers commands: folder (with subcommands tree, create, update, rm).
//
// Design: "kbase folder" on its own prints the tree. Cycles that exist in
// stored data are reported as warnings under the tree rather than as
// errors; re-parenting that would create one is refused up front.
package folder

import (
	"fmt"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/format"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the folder extension.
type Extension struct {
	svc  service.Service
	user string
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "folder".
func (e *Extension) Name() string { return "folder" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.user = ctx.User()
	return nil
}

// Commands returns the folder command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	c := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
		Long:  `Show the folder tree, or create, update and remove folders.`,
		Args:  cobra.NoArgs,
		RunE:  e.runTree,
	}
	c.AddCommand(
		&cobra.Command{
			Use:   "tree",
			Short: "Show the folder tree with note counts",
			Args:  cobra.NoArgs,
			RunE:  e.runTree,
		},
		e.newCreateCmd(),
		e.newUpdateCmd(),
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Remove an empty folder",
			Args:  cobra.ExactArgs(1),
			RunE:  e.runRm,
		},
	)
	return []*cobra.Command{c}
}

// MCPTools returns nil - MCP folder tools are in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

func (e *Extension) newCreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runCreate,
	}
	c.Flags().StringP(extension.FlagParent, "p", "", "Parent folder id")
	c.Flags().StringP(extension.FlagColor, "c", "", "Hex colour (e.g. #3b82f6)")
	c.Flags().StringP(extension.FlagDescription, "d", "", "Description")
	return c
}

func (e *Extension) newUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename, recolour or move a folder",
		Long: `Update a folder. Only the flags given are changed.

  kbase folder update 5c1e... --name "Archive"
  kbase folder update 5c1e... --parent 9a0b...   # move under another folder
  kbase folder update 5c1e... --clear            # move to the top level`,
		Args: cobra.ExactArgs(1),
		RunE: e.runUpdate,
	}
	c.Flags().String(extension.FlagName, "", "New name")
	c.Flags().StringP(extension.FlagParent, "p", "", "New parent folder id")
	c.Flags().Bool(extension.FlagClear, false, "Move to the top level")
	c.Flags().StringP(extension.FlagColor, "c", "", "Hex colour")
	c.Flags().StringP(extension.FlagDescription, "d", "", "Description")
	c.MarkFlagsMutuallyExclusive(extension.FlagParent, extension.FlagClear)
	return c
}

func (e *Extension) runTree(c *cobra.Command, _ []string) error {
	tree, err := e.svc.FolderTree(c.Context(), e.user)

	log.Event("folder:tree", "list").
		User(e.user).
		Detail("roots", len(tree.Roots)).
		Detail("cycles", len(tree.Cycles)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("folder tree: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(tree)
	}
	return format.FolderTree(cmd.Out(), tree)
}

func (e *Extension) runCreate(c *cobra.Command, args []string) error {
	in := store.FolderInput{Name: args[0]}
	in.Color, _ = c.Flags().GetString(extension.FlagColor)
	in.Description, _ = c.Flags().GetString(extension.FlagDescription)
	if p, _ := c.Flags().GetString(extension.FlagParent); p != "" {
		in.ParentID = &p
	}

	f, err := e.svc.CreateFolder(c.Context(), e.user, in)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("folder create %q: %w", in.Name, err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Created folder %s  %s\n", f.ID, f.Name)
	}
	return cmd.PrintJSON(f.ToJSON())
}

func (e *Extension) runUpdate(c *cobra.Command, args []string) error {
	id := args[0]
	fl := c.Flags()

	var p store.FolderPatch
	if fl.Changed(extension.FlagName) {
		v, _ := fl.GetString(extension.FlagName)
		p.Name = &v
	}
	if fl.Changed(extension.FlagColor) {
		v, _ := fl.GetString(extension.FlagColor)
		p.Color = &v
	}
	if fl.Changed(extension.FlagDescription) {
		v, _ := fl.GetString(extension.FlagDescription)
		p.Description = &v
	}
	if fl.Changed(extension.FlagParent) {
		v, _ := fl.GetString(extension.FlagParent)
		p.ParentID = &v
	}
	p.ClearParent, _ = fl.GetBool(extension.FlagClear)

	f, err := e.svc.UpdateFolder(c.Context(), e.user, id, p)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("folder update %q: %w", id, err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Updated folder %s  %s\n", f.ID, f.Name)
	}
	return cmd.PrintJSON(f.ToJSON())
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	id := args[0]
	if err := e.svc.DeleteFolder(c.Context(), e.user, id); err != nil {
		return cmd.PrintJSONError(fmt.Errorf("folder rm %q: %w", id, err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Removed folder %s\n", id)
	}
	return cmd.PrintJSON(map[string]string{"deleted": id})
}
