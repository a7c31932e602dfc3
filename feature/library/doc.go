// Package library persists manga and chapters and exposes them over HTTP.
//
// Store implements reconcile.Store on top of GORM and runs every reconcile mutation of a
// manga in one database transaction. Updates never clear a stored read flag.
//
// # Routes
//
//	GET  /manga                  list the library
//	POST /manga                  add a manga
//	GET  /manga/:id              get a manga
//	GET  /manga/:id/chapters     stored chapters in source order
//	POST /manga/:id/reconcile    reconcile posted chapter lists, ?dry_run=true previews
//	POST /manga/:id/refresh      fetch from the sources and reconcile
//
// Migrate creates the schema. VerifySchema reports missing columns on existing databases.
package library
