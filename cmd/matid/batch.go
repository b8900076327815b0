package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blueraft/matid/internal/classify"
	"github.com/blueraft/matid/internal/cli"
	"github.com/blueraft/matid/internal/common"
	"github.com/blueraft/matid/internal/config"
	"github.com/blueraft/matid/internal/model"
	"github.com/blueraft/matid/internal/storage"
	"github.com/blueraft/matid/internal/symmetry/spglib"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir|file.json> [more...]",
		Short: "Classify a directory of structures",
		Long: `Classify every *.json structure under the given paths in parallel.

One broken file never aborts the batch: parse and classification failures
are collected and reported at the end. With --db every outcome is persisted
incrementally, so an interrupted run can pick up where it left off.

Examples:
  matid batch structures/                       # Classify a directory
  matid batch --db runs.db structures/          # Persist the outcomes
  matid batch --db runs.db --resume structures/ # Finish the latest run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatch,
	}

	// Flags
	cmd.Flags().IntP("parallel", "P", 0, "Concurrent classifications (0 = one per CPU)")
	cmd.Flags().String("db", "", "SQLite database for run persistence")
	cmd.Flags().BoolP("resume", "r", false, "Skip structures already completed in the latest run")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("batch.parallel", cmd.Flags().Lookup("parallel"))
	_ = viper.BindPFlag("batch.db", cmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("batch.resume", cmd.Flags().Lookup("resume"))

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()
	parallel := viper.GetInt("batch.parallel")
	resume := viper.GetBool("batch.resume")

	dbPath := viper.GetString("batch.db")
	if dbPath == "" {
		dbPath = viper.GetString("database.path")
	}
	if resume && dbPath == "" {
		return common.NewUserError("--resume needs a run database (--db or the database.path config key)", nil)
	}

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx := handler.HandleInterrupts(cmd.Context(), dbPath != "")

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return common.NewUserError("no .json structures found", nil)
	}

	cfg, err := config.LoadClassifyConfig()
	if err != nil {
		return err
	}

	var store *storage.Store
	var run *storage.Run
	if dbPath != "" {
		store, err = openStore(ctx, dbPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				slog.Error("Failed to close database", "error", closeErr)
			}
		}()
	}

	done := map[string]bool{}
	if store != nil {
		if resume {
			run, err = store.LatestRun(ctx)
			if err != nil {
				return fmt.Errorf("nothing to resume: %w", err)
			}
			done, err = store.CompletedNames(ctx, run.ID)
			if err != nil {
				return err
			}
			slog.Info("Resuming run", "run", run.ID, "already_completed", len(done))
		} else {
			run, err = store.StartRun(ctx, cfg, len(inputs))
			if err != nil {
				return err
			}
			slog.Info("Started run", "run", run.ID, "structures", len(inputs))
		}
	}

	// Persistence must survive an interrupt: outcomes that finished before
	// the cancellation are still written under their own context.
	saveCtx := context.Background()

	// Split the inputs into classifiable work, parse failures and names the
	// resumed run already finished.
	var (
		work       []namedStructure
		structures []*model.Structure
		failures   []string
		skipped    int
	)
	for _, in := range inputs {
		switch {
		case done[in.Name]:
			skipped++
		case in.LoadErr != nil:
			failures = append(failures, fmt.Sprintf("%s: %v", in.Name, in.LoadErr))
			if store != nil {
				if saveErr := store.SaveResult(saveCtx, storage.FailedResult(run.ID, in.Name, in.LoadErr)); saveErr != nil {
					slog.Error("Failed to record parse failure", "name", in.Name, "error", saveErr)
				}
			}
		default:
			work = append(work, in)
			structures = append(structures, in.Structure)
		}
	}

	classifier := classify.New(spglib.New(), cfg, slog.Default())
	defer classifier.Close()

	bar := newBatchBar(len(work))

	var mu sync.Mutex
	completed := 0
	classifier.ClassifyEach(ctx, structures, parallel, func(i int, item classify.BatchItem) {
		mu.Lock()
		defer mu.Unlock()

		name := work[i].Name
		switch {
		case errors.Is(item.Err, context.Canceled) || errors.Is(item.Err, context.DeadlineExceeded):
			// Interrupted mid-flight; the structure stays pending for resume.
		case item.Err != nil:
			failures = append(failures, fmt.Sprintf("%s: %v", name, item.Err))
			if store != nil {
				if saveErr := store.SaveResult(saveCtx, storage.FailedResult(run.ID, name, item.Err)); saveErr != nil {
					slog.Error("Failed to record failure", "name", name, "error", saveErr)
				}
			}
		default:
			completed++
			if store != nil {
				if saveErr := store.SaveResult(saveCtx, storage.ResultFromClassification(run.ID, name, item.Result)); saveErr != nil {
					slog.Error("Failed to record result", "name", name, "error", saveErr)
				}
			}
		}
		if barErr := bar.Add(1); barErr != nil {
			slog.Warn("Failed to advance progress bar", "error", barErr)
		}
	})
	_ = bar.Finish()

	for _, f := range failures {
		fmt.Println(cli.FormatError(f))
	}
	if skipped > 0 {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("%d structures already classified, skipped", skipped)))
	}

	if store != nil && !handler.WasInterrupted() {
		if finishErr := store.FinishRun(saveCtx, run.ID); finishErr != nil {
			slog.Error("Failed to finish run", "run", run.ID, "error", finishErr)
		}
	}

	fmt.Println(cli.RenderBatchSummary(len(inputs), completed+skipped, len(failures), time.Since(start)))
	return nil
}

// newBatchBar builds the progress bar shown while a batch classifies.
func newBatchBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Classifying structures...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

// openStore opens and migrates the run database at path.
func openStore(ctx context.Context, path string) (*storage.Store, error) {
	store, err := storage.New(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}
