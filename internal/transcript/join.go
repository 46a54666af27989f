package transcript

import (
	"strings"
	"unicode/utf8"
)

var (
	noSpaceBefore = map[rune]struct{}{}
	noSpaceAfter  = map[rune]struct{}{}
)

func init() {
	for _, r := range ".,!?;:)]}%\"'”’…" {
		noSpaceBefore[r] = struct{}{}
	}
	for _, r := range "([{<\"'“‘" {
		noSpaceAfter[r] = struct{}{}
	}
}

// JoinStream concatenates streamed fragments with a single space, suppressing
// the space where punctuation makes one wrong (before closers, after
// openers).
func JoinStream(base, addition string) string {
	left := strings.TrimRight(base, " \t\n")
	right := strings.TrimLeft(addition, " \t\n")
	if left == "" {
		return right
	}
	if right == "" {
		return left
	}
	first, _ := utf8.DecodeRuneInString(right)
	last, _ := utf8.DecodeLastRuneInString(left)
	if _, ok := noSpaceBefore[first]; ok {
		return left + right
	}
	if _, ok := noSpaceAfter[last]; ok {
		return left + right
	}
	return left + " " + right
}
