package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"livecap/internal/store"
	"livecap/internal/transcript"
)

// Render produces the transcript in the requested format. The session
// supplies metadata for formats that carry it; entries are rendered in order.
func Render(format Format, session *store.Session, entries []*transcript.Entry) (string, error) {
	switch format {
	case FormatText:
		return renderText(entries), nil
	case FormatSRT:
		return renderSRT(entries, cueBase(session, entries)), nil
	case FormatVTT:
		return renderVTT(entries, cueBase(session, entries)), nil
	case FormatMarkdown:
		return renderMarkdown(session, entries)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// cueBase picks the zero point for relative cue timestamps. The session start
// is preferred; a transcript loaded without its session falls back to the
// first entry.
func cueBase(session *store.Session, entries []*transcript.Entry) time.Time {
	if session != nil && !session.StartedAt.IsZero() {
		return session.StartedAt
	}
	if len(entries) > 0 {
		return entries[0].StartTime
	}
	return time.Time{}
}

func renderText(entries []*transcript.Entry) string {
	var b strings.Builder
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		fmt.Fprintf(&b, "[%s] %s\n", entry.StartTime.Local().Format("15:04:05"), entry.Text)
	}
	return b.String()
}

func renderSRT(entries []*transcript.Entry, base time.Time) string {
	var b strings.Builder
	cue := 0
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		cue++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			cue,
			cueTimestamp(entry.StartTime.Sub(base), ','),
			cueTimestamp(cueEnd(entry, base), ','),
			entry.Text,
		)
	}
	return b.String()
}

func renderVTT(entries []*transcript.Entry, base time.Time) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
			cueTimestamp(entry.StartTime.Sub(base), '.'),
			cueTimestamp(cueEnd(entry, base), '.'),
			entry.Text,
		)
	}
	return b.String()
}

// cueEnd guards against zero-length cues, which some players skip.
func cueEnd(entry *transcript.Entry, base time.Time) time.Duration {
	end := entry.EndTime.Sub(base)
	if min := entry.StartTime.Sub(base) + time.Second; end < min {
		return min
	}
	return end
}

func cueTimestamp(d time.Duration, millisSep byte) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int(d / time.Second)
	millis := int((d - time.Duration(seconds)*time.Second) / time.Millisecond)
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, millisSep, millis)
}

// noteFrontmatter is the YAML frontmatter of a Markdown export.
type noteFrontmatter struct {
	Title   string `yaml:"title"`
	Session string `yaml:"session,omitempty"`
	Source  string `yaml:"source,omitempty"`
	Date    string `yaml:"date,omitempty"`
	Entries int    `yaml:"entries"`
	Words   int    `yaml:"words"`
}

func renderMarkdown(session *store.Session, entries []*transcript.Entry) (string, error) {
	front := noteFrontmatter{Title: "Transcript", Entries: len(entries)}
	if session != nil {
		if session.Title != "" {
			front.Title = session.Title
		}
		front.Session = session.ID
		front.Source = session.Source
		if !session.StartedAt.IsZero() {
			front.Date = session.StartedAt.Local().Format("2006-01-02")
		}
	}
	for _, entry := range entries {
		if entry != nil {
			front.Words += entry.WordCount()
		}
	}

	frontYAML, err := yaml.Marshal(front)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(frontYAML)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n\n", front.Title)
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		fmt.Fprintf(&b, "- **%s** %s\n", entry.StartTime.Local().Format("15:04:05"), entry.Text)
	}
	return b.String(), nil
}
