package tracker

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"livecap/internal/delta"
	"livecap/internal/logging"
	"livecap/internal/textnorm"
)

// RecentHistory supplies the text of recently committed entries, oldest
// first. The tracker uses it for anchor recovery and soft resync without
// owning the entry list itself.
type RecentHistory interface {
	RecentTexts(n int) []string
}

// Tuning holds the tracker's empirically chosen constants. Only the
// qualitative behavior (bounded retries before resync, bounded history) is a
// contract; the numbers are adjustable per deployment.
type Tuning struct {
	// SuffixLength is the rune length of the trailing-suffix anchor.
	SuffixLength int
	// DesyncThreshold is how many consecutive anchor misses force a soft
	// resync.
	DesyncThreshold int
	// AmbiguousThreshold is how many consecutive ambiguous anchors force a
	// soft resync.
	AmbiguousThreshold int
	// HistoryLimit bounds the confirmed compact history, in runes.
	HistoryLimit int
	// AnchorEntries and AnchorRunes bound the recent-entry tail used for
	// anchor recovery when the trailing suffix is missing.
	AnchorEntries int
	AnchorRunes   int
	// MinAnchor is the minimum anchor length (runes) for tail recovery.
	MinAnchor int
	// MinOverlap is the minimum suffix/prefix overlap (runes) accepted by
	// the recovery fallback.
	MinOverlap int
	// DedupEntries and DedupRunes bound the tail used to drop deltas whose
	// content was already committed verbatim.
	DedupEntries int
	DedupRunes   int
	// MinDedupRunes is the minimum delta length checked against that tail.
	MinDedupRunes int
	// ResyncEntries is how many recent entries rebuild the history on soft
	// resync.
	ResyncEntries int
}

// DefaultTuning returns the constants the live feed was calibrated against.
func DefaultTuning() Tuning {
	return Tuning{
		SuffixLength:       50,
		DesyncThreshold:    10,
		AmbiguousThreshold: 6,
		HistoryLimit:       5000,
		AnchorEntries:      8,
		AnchorRunes:        3000,
		MinAnchor:          20,
		MinOverlap:         8,
		DedupEntries:       12,
		DedupRunes:         5000,
		MinDedupRunes:      20,
		ResyncEntries:      5,
	}
}

// Tracker locates genuinely new content in each snapshot of a mutating
// caption region. It anchors on the trailing suffix of everything confirmed
// so far, falls back to delta extraction and recent-entry anchoring when the
// suffix disappears, and recovers from sustained desync by rebuilding its
// history from recent committed entries.
type Tracker struct {
	tuning   Tuning
	patterns *textnorm.Patterns
	recent   RecentHistory
	logger   *slog.Logger

	confirmed string // compact concatenation of accepted content, bounded
	suffix    string
	lastRaw   string

	desyncCount    int
	ambiguousCount int
}

// New constructs a tracker. recent may be nil when no committed entries
// exist to recover from (counters and resync still work, resync then wipes).
func New(tuning Tuning, patterns *textnorm.Patterns, recent RecentHistory, logger *slog.Logger) *Tracker {
	def := DefaultTuning()
	if tuning.SuffixLength <= 0 {
		tuning = def
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tracker{
		tuning:   tuning,
		patterns: patterns,
		recent:   recent,
		logger:   logger,
	}
}

// Admit processes one raw snapshot and reports the newly confirmed content.
// The boolean is false when the snapshot contributed nothing (empty input,
// no new content, or a skipped out-of-sync snapshot).
func (t *Tracker) Admit(raw string) (string, bool) {
	cleaned := t.patterns.CleanDisplay(raw)
	if cleaned == "" {
		return "", false
	}
	cur := textnorm.NewCompacted(cleaned)
	if cur.Len() == 0 {
		return "", false
	}

	prevRaw := t.lastRaw
	t.lastRaw = cleaned

	// Cold start: everything is new.
	if t.suffix == "" {
		return t.accept(cleaned)
	}

	first := strings.Index(cur.Compact(), t.suffix)
	if first < 0 {
		return t.admitWithoutAnchor(cleaned, prevRaw, cur)
	}

	last := strings.LastIndex(cur.Compact(), t.suffix)
	if first != last {
		if out, ok, decided := t.admitAmbiguous(cleaned, cur, last); decided {
			return out, ok
		}
	}

	return t.accept(cur.SliceFrom(last + len(t.suffix)))
}

// admitWithoutAnchor runs the recovery chain when the trailing suffix is
// absent from the snapshot: delta against the previous raw snapshot, then an
// anchor search over the recent committed tail, then the desync counter.
func (t *Tracker) admitWithoutAnchor(cleaned, prevRaw string, cur *textnorm.Compacted) (string, bool) {
	if prevRaw != "" {
		d := delta.Extract(prevRaw, cleaned)
		if d != "" && len(d) < len(cleaned) {
			return t.accept(d)
		}
	}

	anchor := t.recentTail(t.tuning.AnchorEntries, t.tuning.AnchorRunes)
	if inc, ok := t.sliceIncremental(cur, anchor); ok {
		if inc == "" {
			t.resetCounters()
			return "", false
		}
		if len(inc) < len(cleaned) {
			return t.accept(inc)
		}
	}

	t.desyncCount++
	t.logger.Debug("trailing suffix not found",
		logging.Int("desync_count", t.desyncCount),
		logging.Int("snapshot_runes", utf8.RuneCountInString(cur.Compact())))
	if t.desyncCount >= t.tuning.DesyncThreshold {
		t.logger.Warn("suffix desync limit reached, forcing resync",
			logging.Int("desync_count", t.desyncCount))
		t.softResync()
		return t.accept(cleaned)
	}
	return "", false
}

// admitAmbiguous handles a suffix that occurs more than once. When anchoring
// on the last occurrence would imply an implausibly large block of new
// content, the snapshot is treated as a suspect re-render and run through the
// recovery anchor instead. The third return value is false when the
// ambiguity is harmless and normal anchoring should proceed.
func (t *Tracker) admitAmbiguous(cleaned string, cur *textnorm.Compacted, last int) (string, bool, bool) {
	predicted := utf8.RuneCountInString(cur.Compact()[last+len(t.suffix):])
	total := utf8.RuneCountInString(cur.Compact())
	threshold := total / 3
	if threshold < 200 {
		threshold = 200
	}
	if predicted <= threshold {
		return "", false, false
	}

	if inc, ok := t.sliceIncremental(cur, t.suffix); ok {
		if inc == "" {
			t.resetCounters()
			return "", false, true
		}
		if len(inc) < len(cleaned) {
			out, okOut := t.accept(inc)
			return out, okOut, true
		}
	}

	t.ambiguousCount++
	t.logger.Debug("ambiguous suffix anchor",
		logging.Int("ambiguous_count", t.ambiguousCount),
		logging.Int("predicted_runes", predicted))
	if t.ambiguousCount >= t.tuning.AmbiguousThreshold {
		t.logger.Warn("ambiguous anchor limit reached, forcing resync",
			logging.Int("ambiguous_count", t.ambiguousCount))
		t.softResync()
		out, okOut := t.accept(cleaned)
		return out, okOut, true
	}
	return "", false, true
}

// accept commits a delta: appends its compact form to the confirmed history,
// refreshes the trailing suffix, and resets the failure counters. A delta
// whose compact form already sits verbatim in the recent committed tail is
// discarded as a no-op instead of being re-emitted.
func (t *Tracker) accept(text string) (string, bool) {
	text = strings.TrimSpace(text)
	t.resetCounters()
	if text == "" {
		return "", false
	}
	compact := textnorm.Compact(text)
	if compact == "" {
		return "", false
	}

	if utf8.RuneCountInString(compact) >= t.tuning.MinDedupRunes {
		tail := t.recentTail(t.tuning.DedupEntries, t.tuning.DedupRunes)
		if tail != "" && strings.Contains(tail, compact) {
			return "", false
		}
	}

	t.confirmed += compact
	t.confirmed = tailRunes(t.confirmed, t.tuning.HistoryLimit)
	t.suffix = tailRunes(t.confirmed, t.tuning.SuffixLength)
	return text, true
}

// sliceIncremental extracts the content of cur that follows the given
// compact anchor. Reports false when there is no overlap at all; an empty
// string with true means overlap without new content.
func (t *Tracker) sliceIncremental(cur *textnorm.Compacted, anchor string) (string, bool) {
	if anchor == "" || cur.Len() == 0 {
		return "", false
	}

	if utf8.RuneCountInString(anchor) >= t.tuning.MinAnchor {
		if idx := strings.LastIndex(cur.Compact(), anchor); idx >= 0 {
			return cur.SliceFrom(idx + len(anchor)), true
		}
	}

	if overlapBytes := suffixPrefixOverlap(anchor, cur.Compact(), t.tuning.MinOverlap); overlapBytes > 0 {
		return cur.SliceFrom(overlapBytes), true
	}
	return "", false
}

// suffixPrefixOverlap returns the byte length of the longest prefix of text
// that is also a suffix of anchor, requiring at least minRunes runes.
// Used when the region slid forward: the anchor's tail survives as the new
// snapshot's head.
func suffixPrefixOverlap(anchor, text string, minRunes int) int {
	starts := prefixRuneStarts(text, 200)
	maxRunes := len(starts)
	if n := utf8.RuneCountInString(anchor); n < maxRunes {
		maxRunes = n
	}
	for n := maxRunes; n >= minRunes && n > 0; n-- {
		end := len(text)
		if n < len(starts) {
			end = starts[n]
		}
		if strings.HasSuffix(anchor, text[:end]) {
			return end
		}
	}
	return 0
}

// prefixRuneStarts returns byte offsets of up to limit leading runes of text.
func prefixRuneStarts(text string, limit int) []int {
	starts := make([]int, 0, limit)
	for i := range text {
		if len(starts) == limit {
			break
		}
		starts = append(starts, i)
	}
	return starts
}

// recentTail joins up to maxEntries recent committed entries and returns the
// trailing maxRunes of their compact form.
func (t *Tracker) recentTail(maxEntries, maxRunes int) string {
	if t.recent == nil {
		return ""
	}
	texts := t.recent.RecentTexts(maxEntries)
	if len(texts) == 0 {
		return ""
	}
	compact := textnorm.Compact(strings.Join(texts, " "))
	return tailRunes(compact, maxRunes)
}

// softResync rebuilds the confirmed history from recent committed entries
// instead of wiping it. A full wipe would re-admit already-emitted text on
// the next snapshot; rebuilding from the committed tail keeps the anchor
// aligned with what the transcript actually contains. Only when there are no
// committed entries at all does the tracker fall back to a clean slate.
func (t *Tracker) softResync() {
	var texts []string
	if t.recent != nil {
		texts = t.recent.RecentTexts(t.tuning.ResyncEntries)
	}
	if len(texts) == 0 {
		t.confirmed = ""
		t.suffix = ""
		t.logger.Info("soft resync with no committed entries, history cleared")
		return
	}
	t.confirmed = textnorm.Compact(strings.Join(texts, " "))
	t.confirmed = tailRunes(t.confirmed, t.tuning.HistoryLimit)
	t.suffix = tailRunes(t.confirmed, t.tuning.SuffixLength)
	t.logger.Info("soft resync from committed entries",
		logging.Int("entries", len(texts)),
		logging.Int("history_runes", utf8.RuneCountInString(t.confirmed)))
}

// Reset clears all tracker state for a session restart.
func (t *Tracker) Reset() {
	t.confirmed = ""
	t.suffix = ""
	t.lastRaw = ""
	t.resetCounters()
}

// DesyncCount reports the current consecutive anchor-miss count.
func (t *Tracker) DesyncCount() int { return t.desyncCount }

// AmbiguousCount reports the current consecutive ambiguous-anchor count.
func (t *Tracker) AmbiguousCount() int { return t.ambiguousCount }

func (t *Tracker) resetCounters() {
	t.desyncCount = 0
	t.ambiguousCount = 0
}

// tailRunes returns the last n runes of s.
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := utf8.RuneCountInString(s)
	if count <= n {
		return s
	}
	skip := count - n
	for i := range s {
		if skip == 0 {
			return s[i:]
		}
		skip--
	}
	return s
}
