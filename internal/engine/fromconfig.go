package engine

import (
	"time"

	"livecap/internal/config"
	"livecap/internal/tracker"
	"livecap/internal/transcript"
)

// FromConfig maps file configuration onto engine tuning. Fields the file does
// not expose keep their calibrated defaults.
func FromConfig(cfg *config.Config) Config {
	out := DefaultConfig()
	if cfg == nil {
		return out
	}

	tuning := tracker.DefaultTuning()
	if cfg.Tracker.SuffixLength > 0 {
		tuning.SuffixLength = cfg.Tracker.SuffixLength
	}
	if cfg.Tracker.DesyncThreshold > 0 {
		tuning.DesyncThreshold = cfg.Tracker.DesyncThreshold
	}
	if cfg.Tracker.AmbiguousThreshold > 0 {
		tuning.AmbiguousThreshold = cfg.Tracker.AmbiguousThreshold
	}
	if cfg.Tracker.HistoryLimit > 0 {
		tuning.HistoryLimit = cfg.Tracker.HistoryLimit
	}
	out.Tracker = tuning

	limits := transcript.DefaultLimits()
	if cfg.Entries.AppendWindowSeconds > 0 {
		limits.AppendWindow = time.Duration(cfg.Entries.AppendWindowSeconds) * time.Second
	}
	if cfg.Entries.SoftCapChars > 0 {
		limits.SoftCap = cfg.Entries.SoftCapChars
	}
	if cfg.Entries.HardCapChars > 0 {
		limits.HardCap = cfg.Entries.HardCapChars
	}
	out.Limits = limits

	return out
}
