package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const historyPreviewLen = 60

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		dbPath string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated text",
		Long: `List text recorded by "parrot generate --history-db", newest first.

Examples:
  parrot history --history-db history.db
  parrot history --history-db history.db --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := root.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("history-db") {
				config.Output.HistoryDatabasePath = dbPath
			}
			if config.Output.HistoryDatabasePath == "" {
				return errors.New("no history database configured, use --history-db or PARROT_HISTORY_DB")
			}
			if limit <= 0 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}

			history, closeHistory, err := openHistory(config.Output.HistoryDatabasePath)
			if err != nil {
				return err
			}
			defer closeHistory()
			history.SetLogger(newLogger(config.LogLevel, cmd.ErrOrStderr()))

			records, err := history.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No generated text recorded")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tPOLICY\tSEED\tTEXT")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					r.CreatedAt.Format(time.DateTime), r.Policy, r.Seed, preview(r.Text))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "history-db", "", "SQLite database written by generate --history-db")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of entries to list")
	return cmd
}

// preview shortens text to a single table cell.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= historyPreviewLen {
		return text
	}
	return string(runes[:historyPreviewLen-3]) + "..."
}
