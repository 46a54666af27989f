// Package engine composes the history tracker and the stream accumulator
// into the ingestion core: raw snapshots in, committed transcript entries
// out. Admission is logically single-threaded; the Run loop consumes an
// ordered snapshot channel one item at a time, and entry snapshots taken for
// rendering or reflow never block it for long.
package engine
