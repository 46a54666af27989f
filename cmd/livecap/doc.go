// Command livecap captures live caption snapshots, deduplicates them into a
// transcript, and manages the stored sessions.
package main
