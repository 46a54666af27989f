package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"livecap/internal/logging"
)

// Mode selects how a stream is split into snapshots.
type Mode string

const (
	// ModeLine treats every non-empty line as one snapshot of the caption
	// region. This is the natural shape for piped capture tools.
	ModeLine Mode = "line"
	// ModeBlock treats blank-line separated blocks as snapshots, for
	// multi-line caption regions.
	ModeBlock Mode = "block"
)

// ParseMode normalizes a user-supplied mode name.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "line":
		return ModeLine, nil
	case "block":
		return ModeBlock, nil
	default:
		return "", fmt.Errorf("unknown snapshot mode %q (expected line or block)", value)
	}
}

// maxSnapshotBytes bounds a single snapshot. Caption regions are short;
// anything larger than this is a mis-pointed capture.
const maxSnapshotBytes = 1 << 20

// Stream reads snapshots from r and sends them on out in arrival order until
// EOF or context cancellation. It closes out on return, which is the
// engine's signal to flush.
func Stream(ctx context.Context, r io.Reader, mode Mode, out chan<- string) error {
	defer close(out)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxSnapshotBytes)
	if mode == ModeBlock {
		scanner.Split(scanBlocks)
	}

	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		select {
		case out <- text:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read snapshots: %w", err)
	}
	return nil
}

// scanBlocks is a bufio.SplitFunc yielding blank-line separated blocks.
func scanBlocks(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
		return i + 2, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Poll re-reads path at the given interval and emits the file content as a
// snapshot whenever it differs from the previous read. It closes out on
// return. Read errors are logged and retried; the file may appear after the
// poller starts.
func Poll(ctx context.Context, path string, interval time.Duration, logger *slog.Logger, out chan<- string) error {
	defer close(out)
	if logger == nil {
		logger = logging.NewNop()
	}
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last string
	warned := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if !warned {
				logger.Warn("snapshot file not readable, retrying",
					logging.String("path", path), logging.Error(err))
				warned = true
			}
			continue
		}
		warned = false

		text := strings.TrimSpace(string(data))
		if text == "" || text == last {
			continue
		}
		last = text

		select {
		case out <- text:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
