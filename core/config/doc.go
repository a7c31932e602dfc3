// Package config provides configuration management for chapter-sync.
//
// It uses Viper to read environment variables, with an optional .env file loaded
// through godotenv. Every key has a default taken from the `default` struct tag of
// the owning section, so an empty environment points at local MySQL and MinIO.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, limits
//   - Log: level and format
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: MinIO credentials and the downloads bucket
//   - Reconcile: the no-volume language
//   - Update: campaign concurrency and post-update actions
//   - MangaDex, Merged: chapter source endpoints and throttling
//   - Downloads: download directory layout
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Update.MaxConcurrency) // UPDATE_MAX_CONCURRENCY
package config
