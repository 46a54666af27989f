package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"livecap/internal/config"
	"livecap/internal/export"
	"livecap/internal/store"
)

func newCopyCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "copy <session-id>",
		Short: "Copy a session transcript to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				session, err := resolveSession(cmd, st, args[0])
				if err != nil {
					return err
				}
				entries, err := st.Entries(cmd.Context(), session.ID)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					return fmt.Errorf("session %s has no entries", shortID(session.ID))
				}

				content, err := export.Render(format, session, entries)
				if err != nil {
					return err
				}
				if err := clipboard.WriteAll(content); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Copied %d entries to the clipboard\n", len(entries))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "F", "txt", "Clipboard format: txt, srt, vtt, or md")
	return cmd
}
