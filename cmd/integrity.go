package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"chapter-sync/feature/downloads"
	"chapter-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool
var jsonFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the library and its downloads",
	Long:  `Checks the library schema and looks for downloaded chapter directories no stored chapter owns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the library database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// downloadsCmd represents the integrity downloads command
var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "Check and remove orphaned chapter downloads",
	Long: `Lists chapter directories in the download bucket matching no stored chapter.
With --fix they are removed. --json saves the orphan list to a file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, downloadsCmd)

	downloadsCmd.Flags().BoolVar(&fixFlag, "fix", false, "Remove orphaned chapter directories")
	downloadsCmd.Flags().BoolVar(&jsonFlag, "json", false, "Save the orphan list as JSON")
}

func runIntegrityChecks(ctx context.Context, runSchema, runDownloads bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	logg := a.logger
	defer logg.Sync()

	svc := integrity.NewService(a.storage, a.cfg.Storage.Bucket, downloads.NewLayout(a.cfg.Downloads.Prefix), logg, a.db)
	failed := false

	if runSchema {
		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		for name, tbl := range report.Tables {
			if tbl.Status != "ok" {
				logg.Warn("Table is missing columns", zap.String("table", name), zap.Strings("missing", tbl.MissingColumns))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Schema inspection failed", zap.String("error", e))
		}
		if report.Matched {
			logg.Info("Library schema matches")
		} else {
			failed = true
		}
	}

	if runDownloads {
		logg.Info("Checking downloads (this might take a while)...")
		report, err := svc.CheckDownloads(ctx)
		if err != nil {
			return fmt.Errorf("downloads check failed: %w", err)
		}

		if jsonFlag {
			filename := fmt.Sprintf("integrity_downloads_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			logg.Info("Detailed JSON report saved", zap.String("file", filename))
		}

		fmt.Println("\n=== Downloads Integrity Metrics ===")
		fmt.Printf("Manga: %d\n", report.Manga)
		fmt.Printf("Chapter Directories: %d\n", report.Directories)
		fmt.Printf("Orphaned: %d\n", len(report.Orphans))

		if len(report.Orphans) > 0 {
			if fixFlag {
				removed, err := svc.FixDownloads(ctx, report.Orphans)
				if err != nil {
					return fmt.Errorf("failed to remove orphaned directories: %w", err)
				}
				logg.Info("Removed orphaned directories", zap.Int("directories", len(report.Orphans)), zap.Int("objects", removed))
			} else {
				logg.Warn("Orphaned chapter directories found, use --fix to remove them", zap.Int("count", len(report.Orphans)))
				failed = true
			}
		}
	}

	logg.Info("Integrity checks completed", zap.Duration("execution_time", time.Since(startTime)))
	if failed {
		return fmt.Errorf("integrity checks found problems")
	}
	return nil
}
