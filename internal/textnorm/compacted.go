package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Compacted pairs a text with its compact form and a byte-level index map
// between the two. Anchor searches run on the compact form; the map converts
// a compact match position back into a correctly spaced slice of the
// original text. Building the map once per snapshot replaces per-call-site
// index arithmetic, which is where off-by-whitespace bugs live.
type Compacted struct {
	raw     string
	compact string
	// offsets[i] is the byte position in raw of compact byte i.
	offsets []int
}

// NewCompacted builds the compact form of text and its index map.
func NewCompacted(text string) *Compacted {
	c := &Compacted{raw: text}
	var b strings.Builder
	b.Grow(len(text))
	c.offsets = make([]int, 0, len(text))
	for i, r := range text {
		if unicode.IsSpace(r) || isZeroWidth(r) {
			continue
		}
		b.WriteRune(r)
		for n := 0; n < utf8.RuneLen(r); n++ {
			c.offsets = append(c.offsets, i+n)
		}
	}
	c.compact = b.String()
	return c
}

// Raw returns the original text the map was built from.
func (c *Compacted) Raw() string { return c.raw }

// Compact returns the whitespace-free comparison form.
func (c *Compacted) Compact() string { return c.compact }

// Len returns the byte length of the compact form.
func (c *Compacted) Len() int { return len(c.compact) }

// SliceFrom returns the original-text slice beginning at the given byte
// index of the compact form, trimmed. An index at or past the end of the
// compact form yields the empty string; a non-positive index yields the
// whole text.
func (c *Compacted) SliceFrom(compactIndex int) string {
	if compactIndex <= 0 {
		return strings.TrimSpace(c.raw)
	}
	if compactIndex >= len(c.compact) {
		return ""
	}
	return strings.TrimSpace(c.raw[c.offsets[compactIndex]:])
}
