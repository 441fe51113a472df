// ai.go implements the "kbase ai" command.
//
// Actions only run for users who enabled AI features in their privacy
// settings; everyone else gets privacy.ErrAIDisabled before any note text
// leaves the store.

package note

import (
	"fmt"
	"strings"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/internal/ai"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newAICmd() *cobra.Command {
	names := make([]string, 0, len(ai.Actions()))
	for _, a := range ai.Actions() {
		names = append(names, string(a))
	}
	return &cobra.Command{
		Use:   "ai <action> <id>",
		Short: "Run an AI action on a note",
		Long: `Run an AI action on a note's text.

Actions: ` + strings.Join(names, ", ") + `

Requires AI features to be enabled: kbase privacy --ai`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: names,
		RunE:      e.runAI,
	}
}

func (e *Extension) runAI(c *cobra.Command, args []string) error {
	action, err := ai.ParseAction(args[0])
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	id := args[1]

	out, err := e.svc.Assist(c.Context(), e.user, action, id)

	log.Event("note:ai", string(action)).User(e.user).Target(id).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ai %s %q: %w", action, id, err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"id": id, "action": string(action), "result": out})
	}
	fmt.Fprintln(cmd.Out(), out)
	return nil
}
