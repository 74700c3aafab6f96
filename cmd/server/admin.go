package main

import (
	"fmt"

	"fixmate/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Hashes the password with bcrypt and stores a new active admin.

Example:
  fixmate create-admin --username owner --password 'long-secret'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		if err := database.CreateAdmin(db, adminUsername, adminPassword); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		logger.Info("admin created", zap.String("username", adminUsername))
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (min 8 characters)")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}
