// Package cmd provides the bizbooksctl commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/SscSPs/bizbooks/internal/platform/app"
	"github.com/SscSPs/bizbooks/internal/platform/config"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	envFile string
	debug   bool
	logger  *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "bizbooksctl",
		Short: "Maintenance and reporting for a bizbooks database",
		Long: `bizbooksctl runs bookkeeping jobs against the same storage the bizbooks
server uses, configured through the same environment variables.

Example:
  bizbooksctl stock-audit
  bizbooksctl ledger customer 12 --from 2024-04-01
  bizbooksctl accrual 3 --as-of 2024-09-30`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevel := slog.LevelInfo
			if opts.debug {
				logLevel = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel}))
			if opts.envFile != "" {
				if err := godotenv.Load(opts.envFile); err != nil {
					return fmt.Errorf("failed to load env file: %w", err)
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file to load before .env")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newStockAuditCmd(opts),
		newLedgerCmd(opts),
		newAccrualCmd(opts),
		newCategoriesCmd(opts),
	)
	return root
}

// open loads configuration and wires the application. Commands never migrate the schema.
func (o *rootOptions) open(cmd *cobra.Command) (*app.App, error) {
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.Build(cmd.Context(), cfg, logger, app.Options{})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
