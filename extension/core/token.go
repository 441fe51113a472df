// token.go implements the "kbase token" command, which mints bearer tokens
// for the HTTP API.

package core

import (
	"errors"
	"fmt"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/auth"
	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/duration"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "token [user-id]",
		Short: "Mint an HTTP API token",
		Long: `Mint a signed bearer token for the HTTP API.

The token is signed with server.jwt_secret (or KBASE_JWT_SECRET) and names
the given user, or the configured user when omitted.

  kbase token                # token for the current user, valid 24h
  kbase token bob --ttl 7d   # token for bob, valid a week`,
		Args: cobra.MaximumNArgs(1),
		RunE: runToken,
	}
	c.Flags().String(extension.FlagTTL, "", "Token lifetime (e.g. 12h, 7d; default 24h)")
	return c
}

func runToken(c *cobra.Command, args []string) error {
	userID := cmd.User()
	if len(args) == 1 {
		userID = args[0]
	}
	if userID == "" {
		return cmd.PrintJSONError(errors.New("token: no user id given or configured"))
	}

	ttl := auth.DefaultTokenTTL
	if s, _ := c.Flags().GetString(extension.FlagTTL); s != "" {
		d, err := duration.Parse(s)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("token: %w", err))
		}
		ttl = d
	}

	cfg, err := config.Load()
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
	}
	jwt, err := auth.NewJWT(cfg.JWTSecret())
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	tok, err := jwt.Mint(userID, ttl)
	log.Event("core:token", "mint").User(userID).Detail("ttl", ttl.String()).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("token: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"token": tok, "user_id": userID, "expires_in": ttl.String()})
	}
	fmt.Fprintln(cmd.Out(), tok)
	return nil
}
