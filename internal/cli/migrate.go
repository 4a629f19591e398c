package cli

import (
	"context"
	"fmt"
	"time"

	intconfig "travelplanner/internal/config"
	intdb "travelplanner/internal/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing database tables",
	Long: `Creates the accounts, oauth_identities, trips and locations tables
when they do not exist yet. Existing tables are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	env, err := intconfig.LoadEnv()
	if err != nil {
		return err
	}
	conn, err := intconfig.ConnectDB(env)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	if err := intdb.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	cmd.Println("Schema is up to date.")
	return nil
}
