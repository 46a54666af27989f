// Package delta extracts newly appended content from successive snapshots of
// a mutating caption region. Extract is a pure function ordered from cheap
// exact comparisons to whitespace-insensitive window scans; the first
// matching strategy wins.
package delta
