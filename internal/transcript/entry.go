package transcript

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Entry is one committed unit of transcript text. The accumulator is the
// only writer: an entry stays appendable while it is the open entry and is
// immutable for every downstream consumer (render, export, persistence)
// once superseded or flushed.
type Entry struct {
	Text      string
	CreatedAt time.Time
	StartTime time.Time
	EndTime   time.Time

	charCount int
	wordCount int
}

// NewEntry creates an entry stamped at the given instant. Text must be
// non-empty; callers gate empty deltas before reaching the entry model.
func NewEntry(text string, at time.Time) *Entry {
	e := &Entry{CreatedAt: at, StartTime: at, EndTime: at}
	e.setText(text)
	return e
}

// NewEntrySpan creates an entry with explicit timestamps. Batch transforms
// use it to re-segment entries without losing time information.
func NewEntrySpan(text string, created, start, end time.Time) *Entry {
	e := &Entry{CreatedAt: created, StartTime: start, EndTime: end}
	e.setText(text)
	return e
}

// CharCount returns the cached rune count of the entry text.
func (e *Entry) CharCount() int { return e.charCount }

// WordCount returns the cached word count of the entry text.
func (e *Entry) WordCount() int { return e.wordCount }

func (e *Entry) setText(text string) {
	e.Text = text
	e.charCount = utf8.RuneCountInString(text)
	e.wordCount = len(strings.Fields(text))
}

// Clone returns an independent copy of the entry.
func (e *Entry) Clone() *Entry {
	cp := *e
	return &cp
}
