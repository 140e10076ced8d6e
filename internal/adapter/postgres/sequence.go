package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepo exposes the database-backed invoice counter. The sequence is
// created once at schema setup and only ever advanced through Next; every
// call is serialized by PostgreSQL, so concurrent callers never observe the
// same value.
type SequenceRepo struct {
	db *pgxpool.Pool
}

func NewSequenceRepo(db *pgxpool.Pool) *SequenceRepo {
	return &SequenceRepo{db: db}
}

func (r *SequenceRepo) Next(ctx context.Context) (int64, error) {
	q := TxorDB(ctx, r.db)

	var seq int64
	if err := q.QueryRow(ctx, `SELECT nextval('invoice_seq');`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("sequence repo: Next: %w", err)
	}
	return seq, nil
}
