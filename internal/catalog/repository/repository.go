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
	equipmentNotFoundMsg = "equipment not found"
	categoryNotFoundMsg  = "category not found"
	uniqueViolation      = "23505"
)

// Equipment is the database model for a catalog entry.
type Equipment struct {
	ID          uuid.UUID       `db:"id"`
	CategoryID  *uuid.UUID      `db:"category_id"`
	Name        string          `db:"name"`
	Code        string          `db:"code"`
	Description string          `db:"description"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Stock       int             `db:"stock"`
	IsActive    bool            `db:"is_active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Category is the database model for an equipment category.
type Category struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// ListParams contains parameters for listing equipment.
type ListParams struct {
	Search     string
	CategoryID *uuid.UUID
	Page       int
	PageSize   int
}

// ListResult contains the paginated result of listing equipment.
type ListResult struct {
	Items      []Equipment
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides database operations for the catalog.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const equipmentColumns = `id, category_id, name, code, description, unit_price, stock, is_active, created_at, updated_at`

// GetByID retrieves a single equipment entry.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Equipment, error) {
	var e Equipment
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.CategoryID, &e.Name, &e.Code, &e.Description,
		&e.UnitPrice, &e.Stock, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(equipmentNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return &e, nil
}

// Create inserts a new equipment entry.
func (r *Repository) Create(ctx context.Context, e *Equipment) error {
	query := `
		INSERT INTO equipment (` + equipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.CategoryID, e.Name, e.Code, e.Description,
		e.UnitPrice, e.Stock, e.IsActive, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflict("equipment code already exists")
		}
		return fmt.Errorf("failed to insert equipment: %w", err)
	}
	return nil
}

// Update persists all mutable fields of an equipment entry.
func (r *Repository) Update(ctx context.Context, e *Equipment) error {
	query := `
		UPDATE equipment SET
			category_id = $2, name = $3, description = $4,
			unit_price = $5, stock = $6, is_active = $7, updated_at = $8
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		e.ID, e.CategoryID, e.Name, e.Description,
		e.UnitPrice, e.Stock, e.IsActive, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(equipmentNotFoundMsg)
	}
	return nil
}

// Delete removes an equipment entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(equipmentNotFoundMsg)
	}
	return nil
}

// List retrieves equipment with filtering and pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	var categoryParam interface{}
	if params.CategoryID != nil {
		categoryParam = *params.CategoryID
	}

	baseQuery := `
		FROM equipment
		WHERE is_active
			AND ($1::uuid IS NULL OR category_id = $1)
			AND ($2::text IS NULL OR name ILIKE $2 OR code ILIKE $2)
	`
	args := []interface{}{categoryParam, searchParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count equipment: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `SELECT ` + equipmentColumns + baseQuery + `
		ORDER BY name ASC
		LIMIT $3 OFFSET $4`
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	var items []Equipment
	for rows.Next() {
		var e Equipment
		if err := rows.Scan(
			&e.ID, &e.CategoryID, &e.Name, &e.Code, &e.Description,
			&e.UnitPrice, &e.Stock, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate equipment: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return items, nil
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, c *Category) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Description, c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflict("category name already exists")
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category; equipment keeps a NULL category.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(categoryNotFoundMsg)
	}
	return nil
}
