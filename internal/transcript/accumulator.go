package transcript

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Op tags the accumulator transition produced by a delta.
type Op int

const (
	// OpNone means the delta was empty and nothing changed.
	OpNone Op = iota
	// OpAppended means the delta was joined onto the open entry.
	OpAppended
	// OpOpened means a new entry was opened (closing the previous open
	// entry when there was one).
	OpOpened
)

// Result describes what the accumulator did with one delta. Closed is set
// when a previously open entry was committed; Open points at the entry that
// received the delta.
type Result struct {
	Op     Op
	Closed *Entry
	Open   *Entry
}

// Limits bounds entry growth. AppendWindow is how recently the open entry
// must have been touched for a delta to join it; SoftCap is the combined
// length above which a delta opens a new entry; HardCap closes an entry
// immediately once it grows past it, even mid-utterance.
type Limits struct {
	AppendWindow time.Duration
	SoftCap      int
	HardCap      int
}

// DefaultLimits mirrors the tuning the live feed was calibrated against.
func DefaultLimits() Limits {
	return Limits{AppendWindow: 5 * time.Second, SoftCap: 300, HardCap: 400}
}

// Accumulator turns accepted delta fragments into committed entries. It owns
// the entry list and keeps running character/word totals incrementally, so
// statistics never require a pass over the full corpus.
type Accumulator struct {
	limits  Limits
	now     func() time.Time
	entries []*Entry
	open    *Entry

	totalChars int
	totalWords int
}

// Totals is the running corpus statistics snapshot.
type Totals struct {
	Entries int
	Chars   int
	Words   int
}

// NewAccumulator constructs an accumulator with the given limits. A nil
// clock defaults to time.Now.
func NewAccumulator(limits Limits, clock func() time.Time) *Accumulator {
	if limits.AppendWindow <= 0 {
		limits.AppendWindow = DefaultLimits().AppendWindow
	}
	if limits.SoftCap <= 0 {
		limits.SoftCap = DefaultLimits().SoftCap
	}
	if limits.HardCap < limits.SoftCap {
		limits.HardCap = DefaultLimits().HardCap
	}
	if clock == nil {
		clock = time.Now
	}
	return &Accumulator{limits: limits, now: clock}
}

// Add commits one delta. Empty deltas are a no-op.
func (a *Accumulator) Add(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Op: OpNone}
	}
	now := a.now()

	if a.open != nil && a.canAppend(text, now) {
		oldChars := a.open.charCount
		oldWords := a.open.wordCount
		a.open.setText(JoinStream(a.open.Text, text))
		a.open.EndTime = now
		a.totalChars += a.open.charCount - oldChars
		a.totalWords += a.open.wordCount - oldWords

		res := Result{Op: OpAppended, Open: a.open}
		if a.open.charCount >= a.limits.HardCap {
			res.Closed = a.open
			a.open = nil
		}
		return res
	}

	closed := a.open
	entry := NewEntry(text, now)
	a.entries = append(a.entries, entry)
	a.open = entry
	a.totalChars += entry.charCount
	a.totalWords += entry.wordCount
	return Result{Op: OpOpened, Closed: closed, Open: entry}
}

func (a *Accumulator) canAppend(text string, now time.Time) bool {
	if now.Sub(a.open.EndTime) >= a.limits.AppendWindow {
		return false
	}
	combined := a.open.charCount + 1 + utf8.RuneCountInString(text)
	return combined < a.limits.SoftCap
}

// Flush closes any open entry and returns it, or nil when nothing was open.
// Called on stop/pause so a dangling fragment is still committed.
func (a *Accumulator) Flush() *Entry {
	open := a.open
	a.open = nil
	return open
}

// Entries returns a copied snapshot of the committed entry list. The entry
// pointers are shared; callers treat them as read-only.
func (a *Accumulator) Entries() []*Entry {
	out := make([]*Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// RecentTexts returns the text of up to n most recent entries, oldest first.
func (a *Accumulator) RecentTexts(n int) []string {
	if n <= 0 || len(a.entries) == 0 {
		return nil
	}
	start := len(a.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, len(a.entries)-start)
	for _, e := range a.entries[start:] {
		out = append(out, e.Text)
	}
	return out
}

// Totals returns the running statistics.
func (a *Accumulator) Totals() Totals {
	return Totals{Entries: len(a.entries), Chars: a.totalChars, Words: a.totalWords}
}

// Reset drops all entries and statistics.
func (a *Accumulator) Reset() {
	a.entries = nil
	a.open = nil
	a.totalChars = 0
	a.totalWords = 0
}
