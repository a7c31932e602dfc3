package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chapter-sync/feature/update"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// updateCmd runs one library update campaign in the foreground.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update every favorite manga of the library",
	Long: `Fetches the chapter lists of the favorite manga, grouped by source, and
reconciles them with the library. Interrupting cancels the manga not started yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		l := a.logger
		defer l.Sync()

		if err := a.requireLibrary(); err != nil {
			return err
		}

		events, unsubscribe := a.scheduler.Subscribe()
		defer unsubscribe()

		queued, err := a.scheduler.Start(ctx)
		if err != nil {
			return err
		}
		if queued == 0 {
			l.Info("Nothing to update.")
			return nil
		}

		done := make(chan struct{})
		go func() {
			_ = a.scheduler.Wait(context.Background())
			close(done)
		}()

		bar := progressbar.NewOptions(queued,
			progressbar.OptionSetDescription("Updating library"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		var updated, failed, added int
		cancelled := false
		interrupted := ctx.Done()
		for finished := false; !finished; {
			select {
			case e := <-events:
				switch e.Type {
				case update.EventMangaUpdated:
					updated++
					added += len(e.NewChapters)
				case update.EventMangaFailed:
					failed++
					l.Warn("Manga update failed", zap.Int64("manga_id", e.MangaID), zap.String("title", e.Title), zap.String("error", e.Error))
				case update.EventCampaignFinished:
					finished = true
				}
				if e.Total > 0 {
					bar.ChangeMax(e.Total)
				}
				_ = bar.Set(e.Done)
			case <-done:
				finished = true
			case <-interrupted:
				interrupted = nil
				cancelled = true
				l.Warn("Cancelling library update...")
				a.scheduler.Cancel()
			}
		}
		_ = bar.Finish()

		l.Info("Library update finished",
			zap.Int("updated", updated),
			zap.Int("failed", failed),
			zap.Int("new_chapters", added),
			zap.Bool("cancelled", cancelled),
		)
		if failed > 0 {
			return fmt.Errorf("%d manga failed to update", failed)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(updateCmd)
}
