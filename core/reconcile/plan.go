package reconcile

import (
	"context"
	"fmt"
)

// Apply persists a Result inside a single store transaction.
// Mutations run in the order delete, insert, update, source order, last update.
// Returns the number of chapter rows and manga timestamps written.
// Nothing is written when opts.DryRun is set.
func Apply(ctx context.Context, store Store, res *Result, opts ApplyOptions) (executed int, err error) {
	if res == nil || opts.DryRun {
		return 0, nil
	}
	if res.NoOp() && len(res.Reordered) == 0 && !res.LastUpdateChanged {
		return 0, nil
	}

	var inserted []Chapter
	err = store.Transaction(ctx, func(tx Tx) error {
		n := 0

		if len(res.ToDelete) > 0 {
			if err := tx.DeleteChapters(ctx, res.ToDelete); err != nil {
				return fmt.Errorf("failed to delete chapters: %w", err)
			}
			n += len(res.ToDelete)
		}

		if len(res.ToInsert) > 0 {
			rows, err := tx.InsertChapters(ctx, res.ToInsert)
			if err != nil {
				return fmt.Errorf("failed to insert chapters: %w", err)
			}
			if len(rows) != len(res.ToInsert) {
				return fmt.Errorf("failed to insert chapters: store returned %d rows for %d chapters", len(rows), len(res.ToInsert))
			}
			inserted = rows
			n += len(rows)
		}

		if len(res.ToUpdate) > 0 {
			if err := tx.UpdateChapters(ctx, res.ToUpdate); err != nil {
				return fmt.Errorf("failed to update chapters: %w", err)
			}
			n += len(res.ToUpdate)
		}

		if len(res.Reordered) > 0 {
			if err := tx.UpdateSourceOrder(ctx, res.Reordered); err != nil {
				return fmt.Errorf("failed to update source order: %w", err)
			}
			n += len(res.Reordered)
		}

		if res.LastUpdateChanged {
			if err := tx.UpdateLastUpdate(ctx, res.MangaID, res.LastUpdate); err != nil {
				return fmt.Errorf("failed to update last update of manga %d: %w", res.MangaID, err)
			}
			n++
		}

		executed = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Ids are only propagated once the transaction committed.
	for i, c := range inserted {
		res.ToInsert[i].ID = c.ID
		if c.SourceOrder >= 0 && c.SourceOrder < len(res.Chapters) {
			res.Chapters[c.SourceOrder].ID = c.ID
		}
	}

	return executed, nil
}

// ReconcileAndApply loads the stored chapters of manga, reconciles them against the
// remote lists and persists the outcome.
func ReconcileAndApply(
	ctx context.Context,
	r *Reconciler,
	store Store,
	manga Manga,
	primary, merged []RemoteChapter,
	opts ApplyOptions,
) (*Result, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	stored, err := store.Chapters(ctx, manga.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load chapters of manga %d: %w", manga.ID, err)
	}

	res := r.Reconcile(stored, primary, merged, manga)

	executed, err := Apply(ctx, store, res, opts)
	if err != nil {
		return res, 0, err
	}
	return res, executed, nil
}
