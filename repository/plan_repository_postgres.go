package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"clearmoney/domain"
)

const createPlansTable = `
CREATE TABLE IF NOT EXISTS payoff_plans (
	id         UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	input_hash TEXT NOT NULL,
	input      JSONB NOT NULL,
	result     JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS payoff_plans_created_at_idx ON payoff_plans (created_at);`

// PlanRepositoryPostgres stores plan history in PostgreSQL.
type PlanRepositoryPostgres struct {
	db *sql.DB
}

// OpenPlanRepositoryPostgres connects to dsn, verifies the connection and
// makes sure the schema exists.
func OpenPlanRepositoryPostgres(ctx context.Context, dsn string) (*PlanRepositoryPostgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createPlansTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PlanRepositoryPostgres{db: db}, nil
}

func (r *PlanRepositoryPostgres) Save(ctx context.Context, record domain.PlanRecord) error {
	input, err := json.Marshal(record.Input)
	if err != nil {
		return fmt.Errorf("marshal plan input: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO payoff_plans (id, created_at, input_hash, input, result)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET result = EXCLUDED.result`,
		record.ID, record.CreatedAt, record.InputHash, input, []byte(record.Result),
	)
	if err != nil {
		return fmt.Errorf("insert plan %s: %w", record.ID, err)
	}
	return nil
}

func (r *PlanRepositoryPostgres) Get(ctx context.Context, id string) (domain.PlanRecord, error) {
	var (
		record domain.PlanRecord
		input  []byte
		result []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, input_hash, input, result FROM payoff_plans WHERE id = $1`, id,
	).Scan(&record.ID, &record.CreatedAt, &record.InputHash, &input, &result)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlanRecord{}, ErrPlanNotFound
	}
	if err != nil {
		return domain.PlanRecord{}, fmt.Errorf("select plan %s: %w", id, err)
	}
	if err := json.Unmarshal(input, &record.Input); err != nil {
		return domain.PlanRecord{}, fmt.Errorf("decode plan input: %w", err)
	}
	record.Result = json.RawMessage(result)
	return record, nil
}

func (r *PlanRepositoryPostgres) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payoff_plans WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge plans: %w", err)
	}
	return res.RowsAffected()
}

// Ping reports whether the database is reachable.
func (r *PlanRepositoryPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PlanRepositoryPostgres) Close() error {
	return r.db.Close()
}
