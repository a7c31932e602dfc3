// Package update runs library update campaigns.
//
// A campaign takes the library favorites, skips completed series when configured, and ranks
// them alphabetically or by last update. Manga are grouped by source. Groups run in parallel,
// bounded by a semaphore sized to the number of groups and capped by max_concurrency.
// Manga enqueued while a campaign runs join it instead of starting another one.
//
// For each manga the Scheduler fetches the primary chapters, plus merged chapters when the
// manga has a merged linkage, then reconciles and persists them in one transaction. A fetch
// returning no chapter at all is not reconciled, so a failing source never wipes a library.
// Concurrent updates of the same manga share one execution.
//
// Progress is published as Events to subscribers:
//
//	events, unsubscribe := scheduler.Subscribe()
//	defer unsubscribe()
//
//	scheduler.Start(ctx)
//	for e := range events {
//	    if e.Type == update.EventCampaignFinished {
//	        break
//	    }
//	}
package update
