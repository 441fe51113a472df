// api.go implements the "kbase api" command, the HTTP/JSON server.
//
// Separated from serve.go because the two servers authenticate differently:
// MCP acts as one configured user, while the HTTP API resolves a user per
// request from a bearer token.

package core

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/auth"
	"github.com/jpl-au/kbase/internal/httpapi"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/spf13/cobra"
)

func newAPICmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "api",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP/JSON API.

Requests under /api/v1 need an "Authorization: Bearer <token>" header signed
with server.jwt_secret (or KBASE_JWT_SECRET). Mint one with "kbase token".
/healthz and /metrics are public.

  kbase api                         # listen on server.addr (127.0.0.1:8787)
  kbase api --addr 0.0.0.0:9000     # override the address`,
		Args: cobra.NoArgs,
		RunE: runAPI,
	}
	c.Flags().String(extension.FlagAddr, "", "Listen address (default: server.addr)")
	return c
}

func runAPI(c *cobra.Command, _ []string) error {
	svc, err := cmd.OpenService()
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
	}
	defer svc.Close()

	cfg := svc.Config()
	jwt, err := auth.NewJWT(cfg.JWTSecret())
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	addr, _ := c.Flags().GetString(extension.FlagAddr)
	if addr == "" {
		addr = cfg.ServerAddr()
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = httpapi.New(svc, jwt).ListenAndServe(ctx, addr)
	log.Event("core:api", "stop").Detail("addr", addr).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("api: %w", err))
	}
	return nil
}
