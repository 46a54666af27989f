// Package export renders committed transcripts as plain text, SubRip,
// WebVTT, or Markdown notes, and writes them atomically to the export
// directory.
package export
