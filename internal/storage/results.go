package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/blueraft/matid/internal/common"
	"github.com/blueraft/matid/internal/model"
)

// Run is one batch classification session over a set of structures.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     *time.Time
	Config         string
	StructureCount int
}

// StoredResult is the persisted outcome of classifying one named structure
// within a run. Error is set when the classification failed; the
// classification fields are then meaningless.
type StoredResult struct {
	RunID            string
	Name             string
	Class            string
	Subtype          string
	Rank             int
	SpaceGroup       int
	SpaceGroupSymbol string
	Warnings         []string
	Error            string
	ClassifiedAt     time.Time
}

// ResultFromClassification flattens a classification result into its stored
// form. Warnings are kept as their codes.
func ResultFromClassification(runID, name string, r *model.ClassificationResult) *StoredResult {
	stored := &StoredResult{
		RunID:        runID,
		Name:         name,
		Class:        string(r.Class),
		Subtype:      string(r.Subtype),
		Rank:         r.Dimensionality.Rank,
		ClassifiedAt: r.ClassifiedAt,
	}
	if r.Symmetry != nil {
		stored.SpaceGroup = r.Symmetry.SpaceGroupNumber
		stored.SpaceGroupSymbol = r.Symmetry.InternationalSymbol
	}
	for _, w := range r.Warnings {
		stored.Warnings = append(stored.Warnings, w.Code)
	}
	return stored
}

// FailedResult records a classification failure so the run's history stays
// complete. Failed names are retried when the run resumes.
func FailedResult(runID, name string, err error) *StoredResult {
	return &StoredResult{RunID: runID, Name: name, Rank: -1, Error: err.Error()}
}

// StartRun opens a new run with a JSON snapshot of the classification
// configuration.
func (s *Store) StartRun(ctx context.Context, config any, structureCount int) (*Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run config: %w", err)
	}

	run := &Run{
		ID:             uuid.New().String(),
		StartedAt:      time.Now().UTC(),
		Config:         string(payload),
		StructureCount: structureCount,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, config, structure_count)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.Config, run.StructureCount)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the run as finished.
func (s *Store) FinishRun(ctx context.Context, runID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE runs SET finished_at = ? WHERE id = ?`,
		time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", runID, common.ErrNotFound)
	}
	return nil
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, config, structure_count
		FROM runs WHERE id = ?
	`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LatestRun fetches the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, config, structure_count
		FROM runs ORDER BY started_at DESC LIMIT 1
	`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no runs recorded: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// ListRuns fetches the most recent runs, newest first. A limit at or below
// zero fetches all of them.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1 // no LIMIT in SQLite
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, config, structure_count
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("Failed to close rows", "error", closeErr)
		}
	}()

	var runs []Run
	for rows.Next() {
		var run Run
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &run.Config, &run.StructureCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*Run, error) {
	var run Run
	var finished sql.NullTime
	if err := row.Scan(&run.ID, &run.StartedAt, &finished, &run.Config, &run.StructureCount); err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return &run, nil
}

// SaveResult inserts or replaces the outcome for (run, name), so retrying a
// failed structure overwrites its failure row.
func (s *Store) SaveResult(ctx context.Context, result *StoredResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateResult(result); err != nil {
		return err
	}

	if result.ClassifiedAt.IsZero() {
		result.ClassifiedAt = time.Now().UTC()
	}

	var warnings any
	if len(result.Warnings) > 0 {
		encoded, err := json.Marshal(result.Warnings)
		if err != nil {
			return fmt.Errorf("failed to encode warnings: %w", err)
		}
		warnings = string(encoded)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (
			run_id, name, class, subtype, rank,
			space_group, space_group_symbol, warnings, error, classified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, name) DO UPDATE SET
			class = excluded.class,
			subtype = excluded.subtype,
			rank = excluded.rank,
			space_group = excluded.space_group,
			space_group_symbol = excluded.space_group_symbol,
			warnings = excluded.warnings,
			error = excluded.error,
			classified_at = excluded.classified_at
	`,
		result.RunID, result.Name, result.Class, result.Subtype, result.Rank,
		result.SpaceGroup, result.SpaceGroupSymbol, warnings,
		nullableString(result.Error), result.ClassifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// CompletedNames returns the names classified successfully in a run. Failed
// names are excluded so a resumed batch retries them.
func (s *Store) CompletedNames(ctx context.Context, runID string) (map[string]bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM results WHERE run_id = ? AND error IS NULL
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	done := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		done[name] = true
	}
	return done, rows.Err()
}

// ResultsForRun returns every stored result of a run, ordered by name.
func (s *Store) ResultsForRun(ctx context.Context, runID string) ([]StoredResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, name, class, subtype, rank,
			space_group, space_group_symbol, warnings, error, classified_at
		FROM results WHERE run_id = ? ORDER BY name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []StoredResult
	for rows.Next() {
		var r StoredResult
		var class, subtype, symbol, warnings, errText sql.NullString
		var rank, spaceGroup sql.NullInt64
		if err := rows.Scan(&r.RunID, &r.Name, &class, &subtype, &rank,
			&spaceGroup, &symbol, &warnings, &errText, &r.ClassifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Class = class.String
		r.Subtype = subtype.String
		r.Rank = int(rank.Int64)
		r.SpaceGroup = int(spaceGroup.Int64)
		r.SpaceGroupSymbol = symbol.String
		r.Error = errText.String
		if warnings.Valid && warnings.String != "" {
			if err := json.Unmarshal([]byte(warnings.String), &r.Warnings); err != nil {
				return nil, fmt.Errorf("failed to decode warnings: %w", err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ResultStats counts a run's stored outcomes.
func (s *Store) ResultStats(ctx context.Context, runID string) (completed, failed int, err error) {
	if err := validateContext(ctx); err != nil {
		return 0, 0, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return 0, 0, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE error IS NULL),
			COUNT(*) FILTER (WHERE error IS NOT NULL)
		FROM results WHERE run_id = ?
	`, runID)
	if err := row.Scan(&completed, &failed); err != nil {
		return 0, 0, fmt.Errorf("failed to count results: %w", err)
	}
	return completed, failed, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
