// Package models holds the GORM rows of the library schema and their conversions
// to reconcile types. Timestamps are stored as unix milliseconds, 0 meaning unset.
package models
