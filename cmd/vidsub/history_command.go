package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidsub/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Paths.HistoryDB) == "" {
				return fmt.Errorf("history is disabled (paths.history_db is empty)")
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, historyRow(run))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Finished", "Result", "Title", "Captions", "Took", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

func historyRow(run history.Run) []string {
	result := "ok"
	if !run.Success {
		result = "failed"
	}
	title := strings.TrimSpace(run.Title)
	if title == "" {
		title = run.Reference
	}
	captions := run.Decision
	if captions == "" || captions == "none" {
		captions = fmt.Sprintf("%d file(s)", len(run.CaptionPaths))
	}
	return []string{
		humanize.Time(run.FinishedAt),
		result,
		title,
		captions,
		run.Duration().Round(time.Second).String(),
		run.Reason,
	}
}
