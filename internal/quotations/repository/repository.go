package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cotizador_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	quotationNotFoundMsg = "quotation not found"
	uniqueViolation      = "23505"
)

// ErrDuplicateNumber signals that the generated quotation number lost a
// race against a concurrent insert. The caller regenerates and retries.
var ErrDuplicateNumber = errors.New("quotation number already taken")

// Quotation is the database model for a quotation header.
type Quotation struct {
	ID            uuid.UUID       `db:"id"`
	Number        string          `db:"number"`
	CustomerID    uuid.UUID       `db:"customer_id"`
	SalespersonID uuid.UUID       `db:"salesperson_id"`
	CompanyName   string          `db:"company_name"`
	ContactName   string          `db:"contact_name"`
	ContactEmail  string          `db:"contact_email"`
	ContactPhone  string          `db:"contact_phone"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Tax           decimal.Decimal `db:"tax"`
	Total         decimal.Decimal `db:"total"`
	State         string          `db:"state"`
	Notes         string          `db:"notes"`
	ExpiresAt     time.Time       `db:"expires_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// QuotationItem is the database model for a quoted line. Equipment name,
// code and price are snapshots taken at creation.
type QuotationItem struct {
	ID            uuid.UUID       `db:"id"`
	QuotationID   uuid.UUID       `db:"quotation_id"`
	EquipmentID   uuid.UUID       `db:"equipment_id"`
	EquipmentName string          `db:"equipment_name"`
	EquipmentCode string          `db:"equipment_code"`
	Quantity      int             `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	LineSubtotal  decimal.Decimal `db:"line_subtotal"`
	CreatedAt     time.Time       `db:"created_at"`
}

// ListParams contains parameters for listing quotations. CustomerID and
// SalespersonID scope visibility; nil means no restriction on that axis.
type ListParams struct {
	CustomerID    *uuid.UUID
	SalespersonID *uuid.UUID
	State         string
	Number        string
	Page          int
	PageSize      int
}

// ListResult contains the paginated result of listing quotations.
type ListResult struct {
	Items      []Quotation
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides database operations for quotations.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotations repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const quotationColumns = `id, number, customer_id, salesperson_id, company_name, contact_name,
	contact_email, contact_phone, subtotal, tax, total, state, notes, expires_at, created_at, updated_at`

// CountCreatedInYear returns how many quotations were created in the
// given calendar year, across all states.
func (r *Repository) CountCreatedInYear(ctx context.Context, year int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quotations WHERE EXTRACT(YEAR FROM created_at) = $1`,
		year).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count quotations: %w", err)
	}
	return count, nil
}

// CreateWithItems inserts the quotation header and all of its lines in a
// single transaction. Nothing is visible until the commit.
func (r *Repository) CreateWithItems(ctx context.Context, q *Quotation, items []QuotationItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	headerQuery := `
		INSERT INTO quotations (` + quotationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = tx.Exec(ctx, headerQuery,
		q.ID, q.Number, q.CustomerID, q.SalespersonID, q.CompanyName, q.ContactName,
		q.ContactEmail, q.ContactPhone, q.Subtotal, q.Tax, q.Total, q.State,
		q.Notes, q.ExpiresAt, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateNumber
		}
		return fmt.Errorf("failed to insert quotation: %w", err)
	}

	itemQuery := `
		INSERT INTO quotation_items (id, quotation_id, equipment_id, equipment_name,
			equipment_code, quantity, unit_price, line_subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, item := range items {
		_, err = tx.Exec(ctx, itemQuery,
			item.ID, item.QuotationID, item.EquipmentID, item.EquipmentName,
			item.EquipmentCode, item.Quantity, item.UnitPrice, item.LineSubtotal,
			item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert quotation item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit quotation: %w", err)
	}
	return nil
}

// GetByID retrieves a quotation header.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	var q Quotation
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.Number, &q.CustomerID, &q.SalespersonID, &q.CompanyName, &q.ContactName,
		&q.ContactEmail, &q.ContactPhone, &q.Subtotal, &q.Tax, &q.Total, &q.State,
		&q.Notes, &q.ExpiresAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quotationNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return &q, nil
}

// GetItems retrieves all lines of a quotation in insertion order.
func (r *Repository) GetItems(ctx context.Context, quotationID uuid.UUID) ([]QuotationItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quotation_id, equipment_id, equipment_name, equipment_code,
			quantity, unit_price, line_subtotal, created_at
		FROM quotation_items WHERE quotation_id = $1
		ORDER BY created_at ASC, id ASC`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation items: %w", err)
	}
	defer rows.Close()

	var items []QuotationItem
	for rows.Next() {
		var item QuotationItem
		if err := rows.Scan(
			&item.ID, &item.QuotationID, &item.EquipmentID, &item.EquipmentName,
			&item.EquipmentCode, &item.Quantity, &item.UnitPrice, &item.LineSubtotal,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quotation item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotation items: %w", err)
	}
	return items, nil
}

// List retrieves quotation headers newest first with filtering and pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var customerParam, salespersonParam, stateParam, numberParam interface{}
	if params.CustomerID != nil {
		customerParam = *params.CustomerID
	}
	if params.SalespersonID != nil {
		salespersonParam = *params.SalespersonID
	}
	if params.State != "" {
		stateParam = params.State
	}
	if params.Number != "" {
		numberParam = "%" + params.Number + "%"
	}

	baseQuery := `
		FROM quotations
		WHERE ($1::uuid IS NULL OR customer_id = $1)
			AND ($2::uuid IS NULL OR salesperson_id = $2)
			AND ($3::text IS NULL OR state = $3)
			AND ($4::text IS NULL OR number ILIKE $4)
	`
	args := []interface{}{customerParam, salespersonParam, stateParam, numberParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count quotations: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `SELECT ` + quotationColumns + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	defer rows.Close()

	var items []Quotation
	for rows.Next() {
		var q Quotation
		if err := rows.Scan(
			&q.ID, &q.Number, &q.CustomerID, &q.SalespersonID, &q.CompanyName, &q.ContactName,
			&q.ContactEmail, &q.ContactPhone, &q.Subtotal, &q.Tax, &q.Total, &q.State,
			&q.Notes, &q.ExpiresAt, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quotation: %w", err)
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotations: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateState moves a quotation to a new state.
func (r *Repository) UpdateState(ctx context.Context, id uuid.UUID, state string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE quotations SET state = $2, updated_at = $3 WHERE id = $1`,
		id, state, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update quotation state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quotationNotFoundMsg)
	}
	return nil
}

// Delete removes a quotation; its items cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quotationNotFoundMsg)
	}
	return nil
}

// ExpireOverdue marks every sent quotation whose validity window has
// passed as expired and returns how many rows changed. The statement is
// idempotent; concurrent sweeps simply find nothing left to update.
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE quotations SET state = $1, updated_at = $2
		 WHERE state = $3 AND expires_at < $2`,
		"expired", now, "sent")
	if err != nil {
		return 0, fmt.Errorf("failed to expire quotations: %w", err)
	}
	return result.RowsAffected(), nil
}
