// Package store persists capture sessions and their confirmed transcript
// entries in a local SQLite database.
package store
