package cmd

import (
	"context"
	"fmt"

	"chapter-sync/feature/library"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the library schema",
	Long:  `Runs the schema migration for the manga and chapter tables of the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(context.Background())
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		if a.db == nil {
			return fmt.Errorf("library database is not available")
		}
		if err := library.Migrate(a.db); err != nil {
			return fmt.Errorf("failed to migrate library schema: %w", err)
		}

		a.logger.Info("Library schema is up to date")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
