package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// RecordRun stores run and its entries in a single transaction. Entries keep
// the order they are given in.
func (s *Store) RecordRun(ctx context.Context, run Run, entries []Entry) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id required")
	}
	return retryOnBusy(ctx, func() error {
		return s.recordRun(ctx, run, entries)
	})
}

func (s *Store) recordRun(ctx context.Context, run Run, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatInstant(run.StartedAt),
		formatInstant(run.FinishedAt),
		run.LogPath,
		run.PhotoDir,
		run.ThresholdMinutes,
		boolToInt(run.Write),
		run.Readings,
		run.Total,
		run.Matched,
		run.NoTimestamp,
		run.NoReading,
		run.Written,
		run.WriteFailed,
		boolToInt(run.Interrupted),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (
            run_id, position, photo, capture_time, status, delta_minutes,
            reading_time, temperature, humidity, pressure, written, error
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range entries {
		if _, err := stmt.ExecContext(ctx,
			run.ID,
			i,
			entry.Photo,
			formatNaive(entry.CaptureTime),
			entry.Status,
			nullableFloat(entry.DeltaMinutes),
			formatNaive(entry.ReadingTime),
			nullableValue(entry.Temperature),
			nullableValue(entry.Humidity),
			nullableValue(entry.Pressure),
			boolToInt(entry.Written),
			nullableString(entry.Error),
		); err != nil {
			return fmt.Errorf("insert entry %s: %w", entry.Photo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by full id or unique id prefix.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == nil {
		return run, nil
	}
	if !isNoRows(err) {
		return Run{}, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY started_at DESC LIMIT 2`,
		escapeLike(id)+"%")
	if err != nil {
		return Run{}, fmt.Errorf("get run by prefix: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		candidate, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, candidate)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRun, id)
	}
}

// Entries returns the per-photo entries of a run in processing order.
func (s *Store) Entries(ctx context.Context, runID string) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT photo, capture_time, status, delta_minutes, reading_time,
                temperature, humidity, pressure, written, error
         FROM entries WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Prune keeps the newest keep runs and deletes the rest, returning how many
// runs were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	ctx = ensureContext(ctx)
	if keep < 0 {
		keep = 0
	}
	var removed int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin prune tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		const stale = `SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT -1 OFFSET ?`
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE run_id IN (`+stale+`)`, keep); err != nil {
			return fmt.Errorf("prune entries: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id IN (`+stale+`)`, keep)
		if err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("prune rows affected: %w", err)
		}
		return tx.Commit()
	})
	return removed, err
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
