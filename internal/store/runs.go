package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStats are the per phase counts of one scrape run.
type RunStats struct {
	Institutions  int
	Offers        int
	RemovedOffers int
	Applications  int
	Applicants    int
	FailedEntries int
}

type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt *time.Time
	Stats      RunStats
	// Error is the failure that ended the run, empty when it succeeded or is
	// still going.
	Error string
}

// RecordRun stores the start of a new run and returns its id.
func (s Store) RecordRun(ctx context.Context, startedAt time.Time) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_run (id, started_at) VALUES ($1, $2)`,
		id.String(), startedAt.UnixMilli(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// FinishRun stores the outcome of a run, runErr may be nil.
func (s Store) FinishRun(ctx context.Context, id uuid.UUID, finishedAt time.Time, stats RunStats, runErr error) error {
	var message *string
	if runErr != nil {
		text := runErr.Error()
		message = &text
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE scrape_run SET
			finished_at = $2,
			institutions = $3,
			offers = $4,
			removed_offers = $5,
			applications = $6,
			applicants = $7,
			failed_entries = $8,
			error = $9
		WHERE id = $1`,
		id.String(), finishedAt.UnixMilli(),
		stats.Institutions, stats.Offers, stats.RemovedOffers,
		stats.Applications, stats.Applicants, stats.FailedEntries,
		message,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Runs returns the latest runs, newest first.
func (s Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, started_at, finished_at, institutions, offers, removed_offers,
			applications, applicants, failed_entries, error
		FROM scrape_run
		ORDER BY started_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run        Run
			id         string
			startedAt  int64
			finishedAt *int64
			message    *string
		)
		err := rows.Scan(
			&id, &startedAt, &finishedAt,
			&run.Stats.Institutions, &run.Stats.Offers, &run.Stats.RemovedOffers,
			&run.Stats.Applications, &run.Stats.Applicants, &run.Stats.FailedEntries,
			&message,
		)
		if err != nil {
			return nil, err
		}
		run.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("run id %q: %w", id, err)
		}
		run.StartedAt = time.UnixMilli(startedAt)
		if finishedAt != nil {
			t := time.UnixMilli(*finishedAt)
			run.FinishedAt = &t
		}
		if message != nil {
			run.Error = *message
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
