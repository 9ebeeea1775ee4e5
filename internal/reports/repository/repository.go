package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StateBucket aggregates quotations sharing one lifecycle state.
type StateBucket struct {
	State string          `db:"state"`
	Count int             `db:"count"`
	Total decimal.Decimal `db:"total"`
}

// MonthBucket aggregates quotations created in one calendar month.
type MonthBucket struct {
	Year  int             `db:"year"`
	Month int             `db:"month"`
	Count int             `db:"count"`
	Total decimal.Decimal `db:"total"`
}

// Repository provides read-only aggregations over quotations.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new reports repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ByState groups quotations by state. A non-nil salespersonID scopes
// the aggregation to that salesperson's quotations.
func (r *Repository) ByState(ctx context.Context, salespersonID *uuid.UUID) ([]StateBucket, error) {
	var scope interface{}
	if salespersonID != nil {
		scope = *salespersonID
	}

	rows, err := r.pool.Query(ctx, `
		SELECT state, COUNT(*), COALESCE(SUM(total), 0)
		FROM quotations
		WHERE ($1::uuid IS NULL OR salesperson_id = $1)
		GROUP BY state
		ORDER BY state`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by state: %w", err)
	}
	defer rows.Close()

	var buckets []StateBucket
	for rows.Next() {
		var b StateBucket
		if err := rows.Scan(&b.State, &b.Count, &b.Total); err != nil {
			return nil, fmt.Errorf("failed to scan state bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate state buckets: %w", err)
	}
	return buckets, nil
}

// ByMonth groups quotations by creation month over the last twelve
// months, newest first.
func (r *Repository) ByMonth(ctx context.Context, salespersonID *uuid.UUID) ([]MonthBucket, error) {
	var scope interface{}
	if salespersonID != nil {
		scope = *salespersonID
	}

	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::int,
			EXTRACT(MONTH FROM created_at)::int,
			COUNT(*), COALESCE(SUM(total), 0)
		FROM quotations
		WHERE created_at >= now() - INTERVAL '12 months'
			AND ($1::uuid IS NULL OR salesperson_id = $1)
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by month: %w", err)
	}
	defer rows.Close()

	var buckets []MonthBucket
	for rows.Next() {
		var b MonthBucket
		if err := rows.Scan(&b.Year, &b.Month, &b.Count, &b.Total); err != nil {
			return nil, fmt.Errorf("failed to scan month bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate month buckets: %w", err)
	}
	return buckets, nil
}
