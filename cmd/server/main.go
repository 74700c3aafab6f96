package main

import (
	"fmt"
	"os"

	"fixmate/internal/config"
	"fixmate/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fixmate",
	Short: "FixMate repair-shop API",
	Long: `FixMate serves the public catalog, price lookup and lead intake for the
quote form, plus the token-protected admin API.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.IsDevelopment(), cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, createAdminCmd, importPricingCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
