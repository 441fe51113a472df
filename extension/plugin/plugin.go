// Package plugin provides the plugin extension for kbase.
// It registers commands: plugin (with subcommands ls, install, enable,
// disable, rm).
//
// Plugins are records only: kbase validates and stores a manifest and an
// enabled flag per user, and never loads or runs plugin code.
package plugin

import (
	"fmt"
	"io"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/format"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/plugin"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the plugin extension.
type Extension struct {
	svc  service.Service
	user string
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "plugin".
func (e *Extension) Name() string { return "plugin" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.user = ctx.User()
	return nil
}

// Commands returns the plugin command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	c := &cobra.Command{
		Use:   "plugin",
		Short: "Manage installed plugins",
		Args:  cobra.NoArgs,
		RunE:  e.runLs,
	}

	install := &cobra.Command{
		Use:   "install <manifest.yaml|->",
		Short: "Install a plugin from its YAML manifest",
		Long: `Install a plugin from its YAML manifest. Use - to read the manifest
from stdin.

  name: word-count
  version: 1.0.0
  description: Counts words
  permissions: [notes:read]
  commands: [count]`,
		Args: cobra.ExactArgs(1),
		RunE: e.runInstall,
	}
	install.Flags().Bool(extension.FlagEnable, false, "Enable after installing")

	c.AddCommand(
		&cobra.Command{Use: "ls", Short: "List installed plugins", Args: cobra.NoArgs, RunE: e.runLs},
		install,
		&cobra.Command{Use: "enable <name>", Short: "Enable a plugin", Args: cobra.ExactArgs(1), RunE: e.toggle(true)},
		&cobra.Command{Use: "disable <name>", Short: "Disable a plugin", Args: cobra.ExactArgs(1), RunE: e.toggle(false)},
		&cobra.Command{Use: "rm <name>", Short: "Uninstall a plugin", Args: cobra.ExactArgs(1), RunE: e.runRm},
	)
	return []*cobra.Command{c}
}

// MCPTools returns nil - kbase_plugins is registered by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

func (e *Extension) runLs(c *cobra.Command, _ []string) error {
	plugins, err := e.svc.Plugins(c.Context(), e.user)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("plugin ls: %w", err))
	}
	if cmd.JSON() {
		if plugins == nil {
			return cmd.PrintJSON([]any{})
		}
		return cmd.PrintJSON(plugins)
	}
	if len(plugins) == 0 {
		fmt.Fprintln(cmd.Out(), "No plugins installed")
		return nil
	}
	return format.Plugins(cmd.Out(), plugins)
}

func (e *Extension) runInstall(c *cobra.Command, args []string) error {
	src := args[0]
	var m *plugin.Manifest
	var err error
	if src == "-" {
		m, err = plugin.Parse(c.InOrStdin())
	} else {
		m, err = plugin.Load(src)
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("plugin install: %w", err))
	}

	enable, _ := c.Flags().GetBool(extension.FlagEnable)
	p, err := e.svc.InstallPlugin(c.Context(), e.user, m, enable)

	log.Event("plugin:install", "install").
		User(e.user).
		Detail("plugin", m.Name).
		Detail("version", m.Version).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("plugin install %q: %w", m.Name, err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Installed %s %s\n", p.Name, p.Version)
	}
	return cmd.PrintJSON(p)
}

func (e *Extension) toggle(enabled bool) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, args []string) error {
		name := args[0]
		p, err := e.svc.SetPluginEnabled(c.Context(), e.user, name, enabled)

		log.Event("plugin:toggle", "update").
			User(e.user).
			Detail("plugin", name).
			Detail("enabled", enabled).
			Write(err)

		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("plugin %q: %w", name, err))
		}
		if !cmd.JSON() {
			state := "Disabled"
			if p.Enabled {
				state = "Enabled"
			}
			fmt.Fprintf(cmd.Out(), "%s %s\n", state, p.Name)
		}
		return cmd.PrintJSON(p)
	}
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	name := args[0]
	err := e.svc.RemovePlugin(c.Context(), e.user, name)

	log.Event("plugin:rm", "remove").User(e.user).Detail("plugin", name).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("plugin rm %q: %w", name, err))
	}
	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	fmt.Fprintf(w, "Removed %s\n", name)
	return cmd.PrintJSON(map[string]string{"removed": name})
}
