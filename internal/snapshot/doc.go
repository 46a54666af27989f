// Package snapshot produces ordered caption-region snapshots from a stream
// or a polled file, feeding the deduplication engine.
package snapshot
