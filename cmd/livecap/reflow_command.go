package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"livecap/internal/config"
	"livecap/internal/reflow"
	"livecap/internal/store"
)

func newReflowCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reflow <session-id>",
		Short: "Re-segment a session transcript along sentence boundaries",
		Long: `Reflow rewrites a stored transcript: embedded [HH:MM:SS] markers become
entry timestamps, complete sentences get their own entries, and dangling
fragments are merged with their successor when they are close in time.
The stored entries are replaced atomically; --dry-run prints the result
without writing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				session, err := resolveSession(cmd, st, args[0])
				if err != nil {
					return err
				}
				entries, err := st.Entries(cmd.Context(), session.ID)
				if err != nil {
					return err
				}

				opts := reflow.DefaultOptions()
				if cfg.Reflow.MaxGapSeconds > 0 {
					opts.MaxGap = time.Duration(cfg.Reflow.MaxGapSeconds) * time.Second
				}
				if cfg.Reflow.MaxMergeChars > 0 {
					opts.MaxMergeRunes = cfg.Reflow.MaxMergeChars
				}

				reflowed := reflow.Apply(entries, opts)
				out := cmd.OutOrStdout()

				if dryRun {
					for _, entry := range reflowed {
						fmt.Fprintf(out, "[%s] %s\n", entry.StartTime.Local().Format("15:04:05"), entry.Text)
					}
					fmt.Fprintf(out, "\n%d entries -> %d entries (not written)\n", len(entries), len(reflowed))
					return nil
				}

				if err := st.ReplaceEntries(cmd.Context(), session.ID, reflowed); err != nil {
					return err
				}
				fmt.Fprintf(out, "Reflowed session %s: %d entries -> %d entries\n",
					shortID(session.ID), len(entries), len(reflowed))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the reflowed transcript without writing it")
	return cmd
}
