package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gtfel/sat-invoices/internal/auth"
	"github.com/gtfel/sat-invoices/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve runs the HTTP API for invoice queries and user management.
Mailbox processing is triggered on demand through POST /v1/invoices/process
or the 'process' command.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(true)

	d, err := buildDeps(logger)
	if err != nil {
		return err
	}
	defer d.close()

	tokens := auth.NewTokens(d.cfg.Auth.JWTSecret,
		d.cfg.Auth.AccessTokenExpiry(), d.cfg.Auth.RefreshTokenExpiry())

	srv := server.New(d.cfg, d.db, d.processor, tokens, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
