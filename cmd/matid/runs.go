package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blueraft/matid/internal/cli"
	"github.com/blueraft/matid/internal/common"
	"github.com/blueraft/matid/internal/model"
	"github.com/blueraft/matid/internal/storage"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Inspect persisted batch runs",
		Long: `List persisted batch runs, or show the stored outcomes of one run.

Examples:
  matid runs --db runs.db           # Most recent runs, newest first
  matid runs --db runs.db <run-id>  # Every stored outcome of one run`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRuns,
	}

	// Flags
	cmd.Flags().String("db", "", "SQLite database holding the runs")
	cmd.Flags().IntP("limit", "n", 10, "Number of runs to list (0 = all)")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("runs.db", cmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("runs.limit", cmd.Flags().Lookup("limit"))

	return cmd
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dbPath := viper.GetString("runs.db")
	if dbPath == "" {
		dbPath = viper.GetString("database.path")
	}
	if dbPath == "" {
		return common.NewUserError("no run database configured (--db or the database.path config key)", nil)
	}

	store, err := openStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	if len(args) == 1 {
		return showRun(ctx, store, args[0])
	}
	return listRuns(ctx, store, viper.GetInt("runs.limit"))
}

func listRuns(ctx context.Context, store *storage.Store, limit int) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(cli.FormatInfo("No runs recorded yet"))
		return nil
	}

	fmt.Println(cli.FormatTitle("Classification runs"))
	for _, run := range runs {
		completed, failed, err := store.ResultStats(ctx, run.ID)
		if err != nil {
			return err
		}

		counts := cli.StyleSuccess(fmt.Sprintf("%d ok", completed))
		if failed > 0 {
			counts += "  " + cli.StyleError(fmt.Sprintf("%d failed", failed))
		}

		status := cli.StyleWarning("in progress")
		if run.FinishedAt != nil {
			status = cli.SubtleStyle.Render("finished " + run.FinishedAt.Format("2006-01-02 15:04"))
		}

		fmt.Printf("%s  %s  %3d structures  %s  %s\n",
			cli.BoldStyle.Render(run.ID),
			run.StartedAt.Format("2006-01-02 15:04"),
			run.StructureCount,
			counts,
			status)
	}
	return nil
}

func showRun(ctx context.Context, store *storage.Store, runID string) error {
	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	results, err := store.ResultsForRun(ctx, run.ID)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Run " + run.ID))
	fmt.Println(cli.SubtleStyle.Render("started " + run.StartedAt.Format("2006-01-02 15:04:05")))

	if len(results) == 0 {
		fmt.Println(cli.FormatInfo("No outcomes stored yet"))
		return nil
	}

	for _, r := range results {
		name := fmt.Sprintf("%-28s", r.Name)
		if r.Error != "" {
			fmt.Printf("%s %s %s\n", name, cli.FormatError("failed"), cli.SubtleStyle.Render(r.Error))
			continue
		}

		line := fmt.Sprintf("%s %s %s", name,
			cli.ClassStyle(model.Class(r.Class)).Render(r.Class),
			cli.SubtleStyle.Render("· "+r.Subtype))
		if r.SpaceGroup > 0 {
			line += fmt.Sprintf("  %s (No. %d)", r.SpaceGroupSymbol, r.SpaceGroup)
		}
		if len(r.Warnings) > 0 {
			line += "  " + cli.StyleWarning(fmt.Sprintf("%d warnings", len(r.Warnings)))
		}
		fmt.Println(line)
	}

	completed, failed, err := store.ResultStats(ctx, run.ID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(cli.RenderBatchSummary(run.StructureCount, completed, failed, runElapsed(run)))
	return nil
}

// runElapsed measures a finished run's wall time; an in-progress run
// reports zero.
func runElapsed(run *storage.Run) time.Duration {
	if run.FinishedAt != nil {
		return run.FinishedAt.Sub(run.StartedAt)
	}
	return 0
}
