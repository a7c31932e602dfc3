// Package reconcile merges freshly fetched remote chapter lists with the chapters a
// library already stores for a manga.
//
// A pass runs in four steps:
//
//  1. Interleave: when the manga is linked to a merged source, merged chapters are folded
//     into the primary list. Numbers already covered by the primary source are skipped,
//     either per volume or, for single-volume numbering, across the whole list.
//
//  2. Diff: every remote chapter is matched to a stored chapter by its identity key.
//     Primary chapters are keyed by their source chapter id, merged chapters by URL.
//     Unmatched remote chapters are inserted, unmatched stored chapters are deleted,
//     matched chapters with diverging metadata are updated in place.
//
//  3. Re-add: a deleted chapter number that reappears is persisted as an update of the old
//     row so read progress survives and no "new chapter" is reported.
//
//  4. No-op: when nothing changed only diverging source orders and the manga last update
//     timestamp are written.
//
// Reconciler performs no I/O. Apply persists a Result through a Store inside one
// transaction.
//
// # Usage Example
//
//	r := reconcile.New(reconcile.WithNoVolumeLanguage(cfg.Reconcile.NoVolumeLanguage))
//
//	stored, err := store.Chapters(ctx, manga.ID)
//	res := r.Reconcile(stored, primary, merged, manga)
//
//	executed, err := reconcile.Apply(ctx, store, res, reconcile.ApplyOptions{})
//	for _, c := range res.NewChapters() {
//	    // notify
//	}
package reconcile
