// Package privacy provides the privacy extension for kbase.
// It registers the privacy command.
//
// Design: Settings are per user and default to all off. Only the toggles
// given on the command line change; the rest keep their stored value.
package privacy

import (
	"fmt"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/format"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the privacy extension.
type Extension struct {
	svc  service.Service
	user string
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "privacy".
func (e *Extension) Name() string { return "privacy" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.user = ctx.User()
	return nil
}

// Commands returns the privacy command.
func (e *Extension) Commands() []*cobra.Command {
	c := &cobra.Command{
		Use:   "privacy",
		Short: "Show or change privacy settings",
		Long: `Show or change your privacy settings. Everything is off until enabled.

  kbase privacy                     # show settings
  kbase privacy --ai                # allow AI actions on your notes
  kbase privacy --ai=false          # withdraw consent
  kbase privacy --analytics --encryption`,
		Args: cobra.NoArgs,
		RunE: e.runPrivacy,
	}
	c.Flags().Bool(extension.FlagAI, false, "AI features")
	c.Flags().Bool(extension.FlagDataSharing, false, "Data sharing")
	c.Flags().Bool(extension.FlagAnalytics, false, "Analytics")
	c.Flags().Bool(extension.FlagEncryption, false, "Encryption")
	return []*cobra.Command{c}
}

// MCPTools returns nil - kbase_privacy is registered by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

func (e *Extension) runPrivacy(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	p, err := e.svc.Privacy(ctx, e.user)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("privacy: %w", err))
	}

	fl := c.Flags()
	toggles := map[string]*bool{
		extension.FlagAI:          &p.AIFeatures,
		extension.FlagDataSharing: &p.DataSharing,
		extension.FlagAnalytics:   &p.Analytics,
		extension.FlagEncryption:  &p.Encryption,
	}
	changed := 0
	for name, field := range toggles {
		if fl.Changed(name) {
			*field, _ = fl.GetBool(name)
			changed++
		}
	}

	if changed > 0 {
		err = e.svc.SetPrivacy(ctx, e.user, p)
		log.Event("privacy:set", "update").
			User(e.user).
			Detail("ai_features_enabled", p.AIFeatures).
			Detail("changed", changed).
			Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("privacy: %w", err))
		}
	}

	if cmd.JSON() {
		return cmd.PrintJSON(p)
	}
	return format.Privacy(cmd.Out(), p)
}
