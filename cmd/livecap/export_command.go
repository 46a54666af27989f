package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"livecap/internal/config"
	"livecap/internal/export"
	"livecap/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outputDirFlag string

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session transcript to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
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

				dir := strings.TrimSpace(outputDirFlag)
				if dir == "" {
					dir = cfg.Paths.ExportDir
				} else if dir, err = config.ExpandPath(dir); err != nil {
					return err
				}

				path, err := export.WriteFile(dir, cfg.Export.FilenameTemplate, format, session, entries)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "F", "txt", "Output format: txt, srt, vtt, or md")
	cmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", "", "Destination directory (defaults to the configured export dir)")
	return cmd
}
