package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"livecap/internal/logging"
	"livecap/internal/textnorm"
	"livecap/internal/tracker"
	"livecap/internal/transcript"
)

// Config collects the tuning for one capture session.
type Config struct {
	Tracker tracker.Tuning
	Limits  transcript.Limits
	// Clock overrides the wall clock; nil means time.Now.
	Clock func() time.Time
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{Tracker: tracker.DefaultTuning(), Limits: transcript.DefaultLimits()}
}

// Engine is the stream-deduplication core: it admits raw snapshots of a
// mutating caption region and assembles the genuinely new content into
// committed transcript entries. One engine serves one session; all state is
// owned by the instance, so independent sessions never share pattern tables
// or counters.
type Engine struct {
	mu       sync.Mutex
	patterns *textnorm.Patterns
	tracker  *tracker.Tracker
	acc      *transcript.Accumulator
	logger   *slog.Logger
}

// New constructs an engine for a fresh session.
func New(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	patterns := textnorm.NewPatterns()
	acc := transcript.NewAccumulator(cfg.Limits, cfg.Clock)
	trk := tracker.New(cfg.Tracker, patterns, acc, logging.NewComponentLogger(logger, "tracker"))
	return &Engine{
		patterns: patterns,
		tracker:  trk,
		acc:      acc,
		logger:   logging.NewComponentLogger(logger, "engine"),
	}
}

// Admit is the sole ingestion entrypoint: it feeds one raw snapshot through
// the tracker and commits any accepted delta. The returned delta is empty
// when the snapshot contributed nothing; the result describes the entry
// transition. Snapshots must be admitted in arrival order.
func (e *Engine) Admit(raw string) (string, transcript.Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	text, ok := e.tracker.Admit(raw)
	if !ok {
		return "", transcript.Result{Op: transcript.OpNone}
	}
	return text, e.acc.Add(text)
}

// Flush closes any dangling open entry, returning it. Called on stop/pause
// so the last fragment is committed before teardown.
func (e *Engine) Flush() *transcript.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acc.Flush()
}

// Reset clears all engine state for a session restart.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracker.Reset()
	e.acc.Reset()
}

// Entries returns a copied snapshot of the committed entries; safe to hand
// to render, export, or the reflow pass while ingestion continues.
func (e *Engine) Entries() []*transcript.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acc.Entries()
}

// Totals returns the running corpus statistics.
func (e *Engine) Totals() transcript.Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acc.Totals()
}

// Sink observes entry lifecycle events during a Run loop. EntryUpdated fires
// whenever the open entry receives text; EntryClosed fires exactly once per
// entry, when it can no longer change.
type Sink interface {
	EntryUpdated(entry *transcript.Entry)
	EntryClosed(entry *transcript.Entry)
}

// Run consumes snapshots from the channel in arrival order until the channel
// closes or the context is canceled, then force-flushes. The loop is the
// single admitter; producers on other goroutines hand snapshots through the
// channel rather than calling Admit concurrently.
func (e *Engine) Run(ctx context.Context, snapshots <-chan string, sink Sink) error {
	defer func() {
		if closed := e.Flush(); closed != nil && sink != nil {
			sink.EntryClosed(closed)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			_, res := e.Admit(snap)
			e.dispatch(res, sink)
		}
	}
}

func (e *Engine) dispatch(res transcript.Result, sink Sink) {
	if sink == nil || res.Op == transcript.OpNone {
		return
	}
	switch res.Op {
	case transcript.OpOpened:
		if res.Closed != nil {
			sink.EntryClosed(res.Closed)
		}
		sink.EntryUpdated(res.Open)
	case transcript.OpAppended:
		sink.EntryUpdated(res.Open)
		// A hard-cap split closes the entry it just appended to.
		if res.Closed != nil {
			sink.EntryClosed(res.Closed)
		}
	}
}
