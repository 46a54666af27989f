package reflow

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"livecap/internal/transcript"
)

// Options bounds the merge pass. Fragments without terminal punctuation are
// merged with their successor unless the time gap exceeds MaxGap or the
// combined text would exceed MaxMergeRunes; either signals a topic or
// speaker change that should stay separate.
type Options struct {
	MaxGap        time.Duration
	MaxMergeRunes int
}

// DefaultOptions mirrors the live-capture calibration.
func DefaultOptions() Options {
	return Options{MaxGap: 10 * time.Second, MaxMergeRunes: 400}
}

var (
	markerPattern = regexp.MustCompile(`\[(\d{2}):(\d{2}):(\d{2})\]`)
	sentenceEnd   = regexp.MustCompile(`[.?!]\s+`)
)

// Apply re-segments committed entries: inline [HH:MM:SS] markers split the
// surrounding text into separate entries with forward-assigned timestamps,
// sentences are re-split at terminal punctuation, and dangling fragments are
// greedily merged with their successor. The input slice and its entries are
// never mutated; the total textual content is preserved modulo separators.
func Apply(entries []*transcript.Entry, opts Options) []*transcript.Entry {
	if len(entries) == 0 {
		return nil
	}
	if opts.MaxGap <= 0 {
		opts.MaxGap = DefaultOptions().MaxGap
	}
	if opts.MaxMergeRunes <= 0 {
		opts.MaxMergeRunes = DefaultOptions().MaxMergeRunes
	}

	expanded := expandMarkers(entries)
	if len(expanded) == 0 {
		return nil
	}

	var result []*transcript.Entry
	buffer := expanded[0]
	for _, next := range expanded[1:] {
		// Commit every complete sentence in the buffer, keeping the last
		// fragment as the merge candidate.
		parts := splitSentences(buffer.Text)
		if len(parts) == 0 {
			buffer = next
			continue
		}
		for _, part := range parts[:len(parts)-1] {
			result = append(result, transcript.NewEntrySpan(part, buffer.CreatedAt, buffer.StartTime, buffer.EndTime))
		}
		if len(parts) > 1 {
			buffer = transcript.NewEntrySpan(parts[len(parts)-1], buffer.CreatedAt, buffer.StartTime, buffer.EndTime)
		}

		if endsSentence(buffer.Text) {
			result = append(result, buffer)
			buffer = next
			continue
		}

		gap := next.CreatedAt.Sub(buffer.CreatedAt)
		combined := buffer.CharCount() + 1 + next.CharCount()
		if gap > opts.MaxGap || combined > opts.MaxMergeRunes {
			result = append(result, buffer)
			buffer = next
			continue
		}

		merged := strings.TrimSpace(buffer.Text) + " " + strings.TrimSpace(next.Text)
		buffer = transcript.NewEntrySpan(merged, buffer.CreatedAt, buffer.StartTime, next.EndTime)
	}

	for _, part := range splitSentences(buffer.Text) {
		result = append(result, transcript.NewEntrySpan(part, buffer.CreatedAt, buffer.StartTime, buffer.EndTime))
	}
	return result
}

// expandMarkers splits entry text at embedded [HH:MM:SS] markers. Text
// before a marker keeps the running timestamp; the marker advances it (on
// the entry's calendar day) and is dropped from the output.
func expandMarkers(entries []*transcript.Entry) []*transcript.Entry {
	var out []*transcript.Entry
	for _, entry := range entries {
		matches := markerPattern.FindAllStringSubmatchIndex(entry.Text, -1)
		if len(matches) == 0 {
			if strings.TrimSpace(entry.Text) != "" {
				out = append(out, entry.Clone())
			}
			continue
		}

		ts := entry.CreatedAt
		midnight := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
		last := 0
		for _, m := range matches {
			pre := strings.TrimSpace(entry.Text[last:m[0]])
			if pre != "" {
				out = append(out, transcript.NewEntry(pre, ts))
			}
			if parsed, ok := markerTime(entry.Text, m, midnight); ok {
				ts = parsed
			}
			last = m[1]
		}
		if rest := strings.TrimSpace(entry.Text[last:]); rest != "" {
			out = append(out, transcript.NewEntry(rest, ts))
		}
	}
	return out
}

func markerTime(text string, m []int, midnight time.Time) (time.Time, bool) {
	hours, _ := strconv.Atoi(text[m[2]:m[3]])
	minutes, _ := strconv.Atoi(text[m[4]:m[5]])
	seconds, _ := strconv.Atoi(text[m[6]:m[7]])
	if hours > 23 || minutes > 59 || seconds > 59 {
		return time.Time{}, false
	}
	return midnight.Add(time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second), true
}

// splitSentences cuts text at terminal punctuation followed by whitespace,
// keeping the punctuation attached to the preceding fragment. Always returns
// at least one element for non-empty input.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for _, m := range sentenceEnd.FindAllStringIndex(text, -1) {
		part := strings.TrimSpace(text[start : m[0]+1])
		if part != "" {
			out = append(out, part)
		}
		start = m[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func endsSentence(text string) bool {
	trimmed := strings.TrimRight(text, " \t\n")
	return strings.HasSuffix(trimmed, ".") ||
		strings.HasSuffix(trimmed, "?") ||
		strings.HasSuffix(trimmed, "!")
}
