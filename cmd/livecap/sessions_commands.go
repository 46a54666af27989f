package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"livecap/internal/config"
	"livecap/internal/store"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect stored capture sessions",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsShowCommand(ctx))
	sessionsCmd.AddCommand(newSessionsDeleteCommand(ctx))
	sessionsCmd.AddCommand(newSessionsStatsCommand(ctx))

	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				sessions, err := st.ListSessions(cmd.Context())
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded.")
					return nil
				}

				rows := make([][]string, 0, len(sessions))
				for _, session := range sessions {
					state := "live"
					if session.EndedAt != nil {
						state = formatDuration(session.EndedAt.Sub(session.StartedAt))
					}
					rows = append(rows, []string{
						shortID(session.ID),
						session.Title,
						session.StartedAt.Local().Format("2006-01-02 15:04"),
						state,
						strconv.Itoa(session.EntryCount),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "Started", "Duration", "Entries"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a session transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				session, err := resolveSession(cmd, st, args[0])
				if err != nil {
					return err
				}
				entries, err := st.Entries(cmd.Context(), session.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session %s  %s\n", session.ID, session.Title)
				fmt.Fprintf(out, "Started %s", session.StartedAt.Local().Format("2006-01-02 15:04:05"))
				if session.EndedAt != nil {
					fmt.Fprintf(out, ", ended %s", session.EndedAt.Local().Format("15:04:05"))
				}
				fmt.Fprintf(out, ", %d entries\n\n", len(entries))
				for _, entry := range entries {
					fmt.Fprintf(out, "[%s] %s\n", entry.StartTime.Local().Format("15:04:05"), entry.Text)
				}
				return nil
			})
		},
	}
}

func newSessionsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				session, err := resolveSession(cmd, st, args[0])
				if err != nil {
					return err
				}
				if err := st.DeleteSession(cmd.Context(), session.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", session.ID)
				return nil
			})
		},
	}
}

func newSessionsStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store totals and database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}
				health, err := st.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Sessions: %d (%d live)\n", stats.Sessions, stats.LiveSessions)
				fmt.Fprintf(out, "Entries:  %d\n", stats.Entries)
				fmt.Fprintf(out, "Database: %s (schema v%d)\n", health.DBPath, health.SchemaVersion)
				if len(health.MissingTables) > 0 {
					fmt.Fprintf(out, "Missing tables: %v\n", health.MissingTables)
				}
				if !health.IntegrityCheck {
					fmt.Fprintln(out, "Integrity check FAILED")
				}
				return nil
			})
		},
	}
}

// resolveSession accepts a full session id or an unambiguous prefix.
func resolveSession(cmd *cobra.Command, st *store.Store, ref string) (*store.Session, error) {
	session, err := st.SessionByID(cmd.Context(), ref)
	if err == nil {
		return session, nil
	}

	sessions, listErr := st.ListSessions(cmd.Context())
	if listErr != nil {
		return nil, listErr
	}
	var match *store.Session
	for _, candidate := range sessions {
		if len(ref) >= 4 && len(ref) <= len(candidate.ID) && candidate.ID[:len(ref)] == ref {
			if match != nil {
				return nil, fmt.Errorf("session id prefix %q is ambiguous", ref)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, fmt.Errorf("session %q: %w", ref, store.ErrSessionNotFound)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
