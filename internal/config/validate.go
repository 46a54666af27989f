package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must not be empty")
	}
	if c.Tracker.SuffixLength <= 0 {
		problems = append(problems, "tracker.suffix_length must be positive")
	}
	if c.Tracker.DesyncThreshold <= 0 {
		problems = append(problems, "tracker.desync_threshold must be positive")
	}
	if c.Tracker.AmbiguousThreshold <= 0 {
		problems = append(problems, "tracker.ambiguous_threshold must be positive")
	}
	if c.Tracker.HistoryLimit < c.Tracker.SuffixLength {
		problems = append(problems, "tracker.history_limit must be at least tracker.suffix_length")
	}
	if c.Entries.AppendWindowSeconds <= 0 {
		problems = append(problems, "entries.append_window_seconds must be positive")
	}
	if c.Entries.SoftCapChars <= 0 {
		problems = append(problems, "entries.soft_cap_chars must be positive")
	}
	if c.Entries.HardCapChars < c.Entries.SoftCapChars {
		problems = append(problems, "entries.hard_cap_chars must be at least entries.soft_cap_chars")
	}
	if c.Reflow.MaxGapSeconds <= 0 {
		problems = append(problems, "reflow.max_gap_seconds must be positive")
	}
	if c.Reflow.MaxMergeChars <= 0 {
		problems = append(problems, "reflow.max_merge_chars must be positive")
	}
	if c.Capture.PollIntervalMillis <= 0 {
		problems = append(problems, "capture.poll_interval_ms must be positive")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
