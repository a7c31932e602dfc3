// Package mangadex is the primary chapter source.
//
// Client downloads a manga document from the API, throttled to
// Config.RequestsPerSecond, and Parser maps its chapters to reconcile.RemoteChapter:
// names are built as "Vol.X Ch.Y - Title", chapters without any of those are named
// "Oneshot", and the last chapter of a completed or cancelled series is tagged "[END]".
package mangadex
