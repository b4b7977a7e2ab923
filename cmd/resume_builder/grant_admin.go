package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var (
	grantAdminEmail  string
	grantAdminRevoke bool
)

var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin",
	Short: "Give an existing account the admin role",
	Long:  `Set the role of a registered account to admin, or back to user with --revoke.`,
	RunE:  runGrantAdmin,
}

func init() {
	grantAdminCmd.Flags().StringVar(&grantAdminEmail, "email", "", "Email of the registered account")
	grantAdminCmd.Flags().BoolVar(&grantAdminRevoke, "revoke", false, "Set the role back to user")
	if err := grantAdminCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}
	rootCmd.AddCommand(grantAdminCmd)
}

func runGrantAdmin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	role := grantRole(grantAdminRevoke)
	id, err := database.SetUserRole(ctx, grantAdminEmail, role)
	if err != nil {
		return err
	}
	log.Printf("[cli] set role %s on %s (%s)", role, grantAdminEmail, id)
	return nil
}

func grantRole(revoke bool) types.Role {
	if revoke {
		return types.RoleUser
	}
	return types.RoleAdmin
}
