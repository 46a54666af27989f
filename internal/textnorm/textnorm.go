package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Patterns owns the compiled expressions used for snapshot cleanup. Caption
// engines leak stray year tokens and zero-width characters into the region
// text; both must be stripped before any comparison.
type Patterns struct {
	year       *regexp.Regexp
	multiSpace *regexp.Regexp
}

// NewPatterns compiles the cleanup expressions once per engine instance.
func NewPatterns() *Patterns {
	return &Patterns{
		// \b after Hangul never matches in RE2, so the token end is
		// expressed as an explicit captured tail instead.
		year:       regexp.MustCompile(`\b\d{4}년(\s|\p{P}|$)`),
		multiSpace: regexp.MustCompile(`\s+`),
	}
}

const zeroWidthChars = "\u200b\u200c\u200d\ufeff"

func stripZeroWidth(text string) string {
	if !strings.ContainsAny(text, zeroWidthChars) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isZeroWidth(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return true
	}
	return false
}

// CleanDisplay prepares a raw snapshot for display and storage: NFC
// normalization, year-token and zero-width removal, outer trim. Internal
// spacing is preserved.
func (p *Patterns) CleanDisplay(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)
	text = p.year.ReplaceAllString(text, "$1")
	text = stripZeroWidth(text)
	return strings.TrimSpace(text)
}

// Collapse normalizes text for loose comparison: whitespace runs become a
// single space and the result is trimmed.
func (p *Patterns) Collapse(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(p.multiSpace.ReplaceAllString(text, " "))
}

// Compact returns the comparison key for a snapshot: zero-width characters
// and ALL whitespace removed. Idempotent; empty input yields empty output.
func Compact(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) || isZeroWidth(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
