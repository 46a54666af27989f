package config

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: "~/.local/share/livecap",
		},
		Tracker: Tracker{
			SuffixLength:       50,
			DesyncThreshold:    10,
			AmbiguousThreshold: 6,
			HistoryLimit:       5000,
		},
		Entries: Entries{
			AppendWindowSeconds: 5,
			SoftCapChars:        300,
			HardCapChars:        400,
		},
		Reflow: Reflow{
			MaxGapSeconds: 10,
			MaxMergeChars: 400,
		},
		Capture: Capture{
			PollIntervalMillis: 200,
			DefaultTitle:       "",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
		Export: Export{
			FilenameTemplate: "{date}_{title}_{time}",
		},
	}
}
