package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gdaSwap/internal/model"
)

// Store provides Postgres persistence for outcome records.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tx_outcomes table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tx_outcomes (
			id BIGSERIAL PRIMARY KEY,
			chain_id BIGINT NOT NULL,
			operation TEXT NOT NULL,
			status TEXT NOT NULL,
			tx_hash TEXT,
			error TEXT,
			side TEXT,
			amount TEXT,
			account TEXT,
			target TEXT NOT NULL,
			noop BOOLEAN NOT NULL DEFAULT false,
			recorded_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create tx_outcomes: %w", err)
	}
	return nil
}

// PutOutcome inserts one outcome record.
func (s *Store) PutOutcome(ctx context.Context, record model.OutcomeRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tx_outcomes (
			chain_id, operation, status, tx_hash, error, side, amount, account, target, noop, recorded_at
		) VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11::timestamptz)
	`,
		int64(record.ChainID),
		record.Operation,
		record.Status,
		record.TxHash,
		record.Error,
		record.Side,
		record.Amount,
		record.Account,
		record.Target,
		record.Noop,
		record.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// RecentOutcomes returns the latest records for operation, newest first.
func (s *Store) RecentOutcomes(ctx context.Context, operation string, limit int) ([]model.OutcomeRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT chain_id, operation, status, COALESCE(tx_hash, ''), COALESCE(error, ''), COALESCE(side, ''),
			COALESCE(amount, ''), COALESCE(account, ''), target, noop,
			to_char(recorded_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"')
		FROM tx_outcomes
		WHERE $1 = '' OR operation = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2
	`, operation, limit)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.OutcomeRecord, error) {
		var r model.OutcomeRecord
		var chainID int64
		err := row.Scan(&chainID, &r.Operation, &r.Status, &r.TxHash, &r.Error, &r.Side, &r.Amount, &r.Account, &r.Target, &r.Noop, &r.RecordedAt)
		r.ChainID = uint64(chainID)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan outcomes: %w", err)
	}
	return records, nil
}
