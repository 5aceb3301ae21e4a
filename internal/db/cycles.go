package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultCycleLimit caps ListRecentCycles when no limit is given.
const DefaultCycleLimit = 20

// RecordCycle stores a cycle and returns its id.
func (db *DB) RecordCycle(ctx context.Context, c *Cycle) (uuid.UUID, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO sync_cycles (id, kind, started_at, duration_ms, pairs, created, skipped, failed, linked, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Kind, c.StartedAt, c.Duration.Milliseconds(), c.Pairs, c.Created, c.Skipped, c.Failed, c.Linked, c.Error,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record cycle: %w", err)
	}
	return c.ID, nil
}

// ListRecentCycles returns the newest cycles first. An empty kind matches all.
func (db *DB) ListRecentCycles(ctx context.Context, kind string, limit int) ([]Cycle, error) {
	if limit <= 0 {
		limit = DefaultCycleLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, kind, started_at, duration_ms, pairs, created, skipped, failed, linked, error
		 FROM sync_cycles
		 WHERE ($1 = '' OR kind = $1)
		 ORDER BY started_at DESC
		 LIMIT $2`,
		kind, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}

	cycles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Cycle, error) {
		var c Cycle
		var durationMS int64
		err := row.Scan(&c.ID, &c.Kind, &c.StartedAt, &durationMS, &c.Pairs, &c.Created, &c.Skipped, &c.Failed, &c.Linked, &c.Error)
		c.Duration = msToDuration(durationMS)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan cycles: %w", err)
	}
	return cycles, nil
}
