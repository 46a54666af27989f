package export

import (
	"strings"
	"time"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe
// alternatives. Unicode letters pass through untouched so Korean titles
// survive intact.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// BuildFilename expands a filename template. Supported placeholders are
// {date} (YYYYMMDD), {time} (HHMMSS), and {title}. The extension is appended
// by the caller.
func BuildFilename(template, title string, at time.Time) string {
	title = SanitizeFileName(title)
	if title == "" {
		title = "session"
	}
	if strings.TrimSpace(template) == "" {
		template = "{date}_{title}_{time}"
	}
	replacer := strings.NewReplacer(
		"{date}", at.Format("20060102"),
		"{time}", at.Format("150405"),
		"{title}", title,
	)
	name := strings.TrimSpace(replacer.Replace(template))
	if name == "" {
		name = title
	}
	return name
}
