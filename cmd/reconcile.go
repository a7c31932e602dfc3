package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"chapter-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile manga command
	dryRunReconcile bool
	yesConfirm      bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile stored chapters with their sources",
	Long:  `Fetch chapter lists from the sources and reconcile them with the library.`,
}

// mangaReconcileCmd reconciles the chapters of one manga.
var mangaReconcileCmd = &cobra.Command{
	Use:   "manga <id>",
	Short: "Reconcile the chapters of one manga (report + optionally apply)",
	Long: `Fetch the primary and merged chapter lists of a manga and reconcile them
with the stored chapters. Read progress is carried over to re-added chapters.

Examples:
  # Report only
  reconcile manga 42 --dry-run

  # Apply with interactive confirmation
  reconcile manga 42

  # Apply with auto-confirm (non-interactive)
  reconcile manga 42 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runMangaReconcile,
}

func init() {
	mangaReconcileCmd.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Report only, write nothing")
	mangaReconcileCmd.Flags().BoolVarP(&yesConfirm, "yes", "y", false, "Skip the confirmation prompt")

	reconcileCmd.AddCommand(mangaReconcileCmd)
	RootCmd.AddCommand(reconcileCmd)
}

func runMangaReconcile(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid manga id %q", args[0])
	}

	ctx := context.Background()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	l := a.logger
	defer l.Sync()

	if err := a.requireLibrary(); err != nil {
		return err
	}

	manga, err := a.store.Manga(ctx, id)
	if err != nil {
		return err
	}

	before := manga
	l.Info("Fetching chapters", zap.Int64("manga_id", manga.ID), zap.String("source", manga.Source))
	primary, merged, err := a.scheduler.Fetch(ctx, &manga)
	if err != nil {
		return fmt.Errorf("failed to fetch chapters: %w", err)
	}
	if len(primary)+len(merged) == 0 {
		l.Warn("No chapters fetched, nothing to reconcile. No changes were made.")
		return nil
	}

	stored, err := a.store.Chapters(ctx, manga.ID)
	if err != nil {
		return fmt.Errorf("failed to load chapters: %w", err)
	}
	res := a.reconciler.Reconcile(stored, primary, merged, manga)

	printReconcileReport(l, res)

	if res.NoOp() && len(res.Reordered) == 0 && !res.LastUpdateChanged {
		l.Info("Library is already in sync.")
		return nil
	}

	if dryRunReconcile {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if !confirmChanges() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying changes...")
	executed, err := reconcile.Apply(ctx, a.store, res, reconcile.ApplyOptions{})
	if err != nil {
		return fmt.Errorf("failed to apply reconciliation: %w", err)
	}
	if manga.Title != before.Title || manga.Status != before.Status {
		if err := a.store.UpdateDetails(ctx, manga.ID, manga.Title, manga.Status); err != nil {
			return fmt.Errorf("failed to update manga details: %w", err)
		}
	}

	l.Info("Successfully executed changes", zap.Int("count", executed))
	return nil
}

// printReconcileReport logs the counts of a reconciliation and a sample of the new chapters.
func printReconcileReport(l *zap.Logger, res *reconcile.Result) {
	s := res.Summary

	l.Info("Reconciliation report",
		zap.Int("remote", s.Remote),
		zap.Int("inserted", s.Inserted),
		zap.Int("updated", s.Updated),
		zap.Int("deleted", s.Deleted),
		zap.Int("replaced", s.Replaced),
		zap.Int("duplicates", s.Duplicates),
		zap.Int("reordered", s.Reordered),
	)

	added := res.NewChapters()
	maxShow := min(5, len(added))
	for _, c := range added[:maxShow] {
		l.Info("New chapter",
			zap.String("name", c.Name),
			zap.String("scanlator", c.Scanlator),
			zap.Float64("number", c.ChapterNumber),
		)
	}
	if len(added) > maxShow {
		l.Info("Additional chapters not shown", zap.Int("count", len(added)-maxShow))
	}

	for _, c := range res.ToDelete {
		l.Info("Removed chapter", zap.Int64("id", c.ID), zap.String("name", c.Name))
	}
}

// confirmChanges prompts the user for confirmation or uses --yes flag.
func confirmChanges() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to apply these changes: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
