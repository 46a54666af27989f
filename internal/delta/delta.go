package delta

import (
	"strings"

	"livecap/internal/textnorm"
)

// Tuning bounds for the compact-form matching strategies. Lengths are in
// runes so Korean text gets the same effective window as Latin text.
const (
	maxSuffixProbe   = 100
	minSuffixProbe   = 10
	reverseWindow    = 20
	reverseStride    = 3
	reverseScanDepth = 200
	minWindowProbe   = 10
)

// Extract returns the content of current that was not already present at the
// end of previous. It tries an ordered set of matching strategies, from the
// cheap exact comparisons down to compact-form window scans, and falls back
// to treating current as an entirely new utterance. The result is always a
// trimmed slice of current in its original spelling; an empty result means
// current carried nothing new.
func Extract(previous, current string) string {
	if previous == "" {
		return strings.TrimSpace(current)
	}
	if current == "" {
		return ""
	}

	prevCompact := textnorm.Compact(previous)
	cur := textnorm.NewCompacted(current)

	strategies := []func(string, string, *textnorm.Compacted) (string, bool){
		redundant,
		simpleAppend,
		trailingContainment,
		wordOverlap,
		compactContainment,
		compactSuffix,
		reverseWindowScan,
	}
	for _, strategy := range strategies {
		if out, ok := strategy(previous, prevCompact, cur); ok {
			return out
		}
	}

	// No overlap at all: a genuinely new utterance.
	return strings.TrimSpace(current)
}

// redundant handles identical and shrunk re-renders: when the new snapshot
// carries no content beyond what the previous one already had, the delta is
// empty.
func redundant(_ string, prevCompact string, cur *textnorm.Compacted) (string, bool) {
	c := cur.Compact()
	if c == "" {
		return "", true
	}
	if c == prevCompact {
		return "", true
	}
	if len(c) <= len(prevCompact) && strings.Contains(prevCompact, c) {
		return "", true
	}
	return "", false
}

// simpleAppend is the fast path: the region only grew at the end.
func simpleAppend(previous, _ string, cur *textnorm.Compacted) (string, bool) {
	if strings.HasPrefix(cur.Raw(), previous) {
		return strings.TrimSpace(cur.Raw()[len(previous):]), true
	}
	return "", false
}

// trailingContainment anchors on the LAST verbatim occurrence of previous.
// Snapshots can repeat the same block twice; anchoring on the first
// occurrence would re-emit the trailing repeat as new content.
func trailingContainment(previous, _ string, cur *textnorm.Compacted) (string, bool) {
	idx := strings.LastIndex(cur.Raw(), previous)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(cur.Raw()[idx+len(previous):]), true
}

// wordOverlap matches the longest suffix of previous's words against a
// prefix of current's words, tolerating re-spaced renders.
func wordOverlap(previous, _ string, cur *textnorm.Compacted) (string, bool) {
	prevWords := strings.Fields(previous)
	curWords := strings.Fields(cur.Raw())
	n := listOverlap(prevWords, curWords)
	if n == 0 {
		return "", false
	}
	return strings.Join(curWords[n:], " "), true
}

// listOverlap returns the longest n such that the last n items of existing
// equal the first n items of incoming.
func listOverlap(existing, incoming []string) int {
	max := len(existing)
	if len(incoming) < max {
		max = len(incoming)
	}
	for n := max; n > 0; n-- {
		if equalSlices(existing[len(existing)-n:], incoming[:n]) {
			return n
		}
	}
	return 0
}

func equalSlices(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// compactContainment finds the previous snapshot inside the new one with all
// whitespace ignored, again on the LAST occurrence, and maps the compact
// match position back to the original spelling.
func compactContainment(_ string, prevCompact string, cur *textnorm.Compacted) (string, bool) {
	if prevCompact == "" {
		return "", false
	}
	idx := strings.LastIndex(cur.Compact(), prevCompact)
	if idx < 0 {
		return "", false
	}
	return cur.SliceFrom(idx + len(prevCompact)), true
}

// compactSuffix probes decreasing suffixes of the previous compact form
// against the new one. The captioning engine rewrites words mid-sentence, so
// the full previous text may never reappear while its tail still does. The
// longest matching suffix wins.
func compactSuffix(_ string, prevCompact string, cur *textnorm.Compacted) (string, bool) {
	starts := runeStarts(prevCompact)
	total := len(starts)
	if total < minSuffixProbe {
		return "", false
	}
	longest := total
	if longest > maxSuffixProbe {
		longest = maxSuffixProbe
	}
	for probe := longest; probe >= minSuffixProbe; probe-- {
		suffix := prevCompact[starts[total-probe]:]
		pos := strings.LastIndex(cur.Compact(), suffix)
		if pos < 0 {
			continue
		}
		return cur.SliceFrom(pos + len(suffix)), true
	}
	return "", false
}

// reverseWindowScan walks backward through the previous compact form in
// short windows, looking for any window that survived into the new snapshot.
// This covers renders that drop their prefix and edit mid-text at the same
// time. The scan is bounded to the recent tail of the previous text.
func reverseWindowScan(_ string, prevCompact string, cur *textnorm.Compacted) (string, bool) {
	starts := runeStarts(prevCompact)
	total := len(starts)
	if total == 0 || cur.Len() == 0 {
		return "", false
	}
	limit := total - reverseScanDepth
	if limit < 0 {
		limit = 0
	}
	for i := total; i > limit; i -= reverseStride {
		start := i - reverseWindow
		if start < 0 {
			start = 0
		}
		if i-start < minWindowProbe {
			break
		}
		window := windowSlice(prevCompact, starts, start, i)
		pos := strings.LastIndex(cur.Compact(), window)
		if pos < 0 {
			continue
		}
		return cur.SliceFrom(pos + len(window)), true
	}
	return "", false
}

func windowSlice(text string, starts []int, from, to int) string {
	if to >= len(starts) {
		return text[starts[from]:]
	}
	return text[starts[from]:starts[to]]
}

// runeStarts returns the byte offset of each rune in text.
func runeStarts(text string) []int {
	starts := make([]int, 0, len(text))
	for i := range text {
		starts = append(starts, i)
	}
	return starts
}
