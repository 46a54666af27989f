package export

import (
	"fmt"
	"strings"
)

// Format identifies a transcript output format.
type Format string

const (
	// FormatText is plain text with wall-clock [HH:MM:SS] markers.
	FormatText Format = "txt"
	// FormatSRT is SubRip with cue numbers and comma millisecond separators.
	FormatSRT Format = "srt"
	// FormatVTT is WebVTT.
	FormatVTT Format = "vtt"
	// FormatMarkdown is a note with YAML frontmatter and timestamped lines.
	FormatMarkdown Format = "md"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "txt", "text":
		return FormatText, nil
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected txt, srt, vtt, or md)", value)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}
