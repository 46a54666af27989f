package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"livecap/internal/store"
	"livecap/internal/transcript"
)

// WriteFile renders the transcript and writes it under dir, deriving the
// filename from the template. The write goes through a temp file and rename
// so a crash never leaves a truncated export. Returns the final path.
func WriteFile(dir, template string, format Format, session *store.Session, entries []*transcript.Entry) (string, error) {
	content, err := Render(format, session, entries)
	if err != nil {
		return "", err
	}

	title := ""
	at := time.Now()
	if session != nil {
		title = session.Title
		if !session.StartedAt.IsZero() {
			at = session.StartedAt
		}
	}
	name := BuildFilename(template, title, at) + "." + format.Extension()
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create temp export: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("finalize export: %w", err)
	}
	return path, nil
}
