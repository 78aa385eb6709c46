package main

import (
	"fmt"
	"time"

	"github.com/alocalareanetwork/renameiso/internal/journal"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const runIDWidth = 8

func createHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:          "history",
		Short:        "Show recorded renames, newest first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := afero.NewOsFs()
			cfg, err := loadConfig(cmd, fs)
			if err != nil {
				return err
			}
			store, err := storageFromCommand(cmd, fs, cfg)
			if err != nil {
				return err
			}

			jrnl, err := openJournal(cmd.Context(), store)
			if err != nil {
				return err
			}
			defer func() { _ = jrnl.Close() }()

			entries, err := jrnl.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list journal: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "No renames recorded")
				return nil
			}
			_, _ = fmt.Fprintln(out, renderHistory(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")

	return cmd
}

func renderHistory(entries []journal.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		runID := entry.RunID
		if len(runID) > runIDWidth {
			runID = runID[:runIDWidth]
		}
		rows = append(rows, []string{
			entry.RenamedAt.Local().Format(time.DateTime),
			runID,
			string(entry.Kind),
			entry.OldPath,
			entry.NewPath,
		})
	}
	return renderTable([]string{"When", "Run", "Kind", "From", "To"}, rows)
}
