package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/toyz/locus/internal/httpapi"
	"github.com/toyz/locus/internal/mcpserver"
)

const shutdownTimeout = 5 * time.Second

func (a *app) newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve locate requests over HTTP",
		Long: `Serve starts a JSON HTTP API:

  GET  /healthz
  POST /v1/locate         {"signature": "..."}
  POST /v1/locate/batch   {"signatures": ["...", "..."]}
  GET  /v1/outline/:type`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			server := httpapi.NewServer(svc, a.diagnostics)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(a.cfg.Server.Addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.diagnostics.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the locate tools over MCP on stdio",
		Long: `MCP runs a Model Context Protocol server on stdin and stdout with the
tools locate_declaration, locate_batch and outline_type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.diagnostics.Info("locus MCP server starting...")
			s := mcpserver.New(mcpserver.NewHandler(svc), a.version)
			return mcpserver.Serve(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
