package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnolang/sift/formatter"
	"github.com/gnolang/sift/internal/store"
)

var (
	historyDB    string
	historyLimit int
	historyRun   int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show runs recorded with lint --record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout(cmd)
		defer cancel()

		s, err := store.NewSQLiteStore(historyDB)
		if err != nil {
			return err
		}
		defer s.Close()

		if historyRun > 0 {
			return printRunIssues(ctx, cmd.OutOrStdout(), s, historyRun)
		}
		return printRuns(ctx, cmd.OutOrStdout(), s, historyLimit)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "sift.db", "SQLite database written by lint --record")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")
	historyCmd.Flags().Int64Var(&historyRun, "run", 0, "Show the issues of this run")
}

func printRuns(ctx context.Context, w io.Writer, s *store.SQLiteStore, limit int) error {
	runs, err := s.Runs(ctx, limit)
	if err != nil {
		return err
	}

	table := newTable(w, "Run", "Started", "Duration", "Files", "Issues")
	for _, r := range runs {
		table.Append([]string{
			fmt.Sprintf("%d", r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			r.Duration.Round(time.Millisecond).String(),
			fmt.Sprintf("%d", r.Files),
			fmt.Sprintf("%d", r.Issues),
		})
	}
	table.Render()
	return nil
}

func printRunIssues(ctx context.Context, w io.Writer, s *store.SQLiteStore, runID int64) error {
	issues, err := s.Issues(ctx, runID)
	if err != nil {
		return err
	}
	return formatter.WriteReport(w, issues)
}
