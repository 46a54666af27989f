// Package config loads, validates, and normalizes livecap's TOML
// configuration. All tuning constants of the capture engine live here with
// calibrated defaults; a missing config file yields the defaults unchanged.
package config
