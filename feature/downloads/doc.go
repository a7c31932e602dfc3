// Package downloads maps chapters to their download directories in object storage.
//
// Keys follow <prefix><source>/<manga>/<chapter>/. Primary chapter directories are named
// "<name> - <chapter id>", merged chapter directories "<scanlator>_<name>". Directories
// named after the bare chapter name are still recognised.
//
// The Manager checks and removes downloaded chapters and keeps the queue of chapters
// selected for automatic download. Fetching page content is handled elsewhere.
package downloads
