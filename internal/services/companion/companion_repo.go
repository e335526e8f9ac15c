package companion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrCompanionNotFound = errors.New("companion not found")

const companionColumns = `id, name, description, instructions, seed, src, category_id, created_at, updated_at`

// CompanionRepo handles database operations for companions
type CompanionRepo struct {
	db *sqlx.DB
}

// NewCompanionRepo creates a new companion repository
func NewCompanionRepo(db *sqlx.DB) *CompanionRepo {
	return &CompanionRepo{db: db}
}

// Create inserts a new companion
func (r *CompanionRepo) Create(ctx context.Context, c *Companion) (*Companion, error) {
	query := `
        INSERT INTO companions (name, description, instructions, seed, src, category_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + companionColumns

	var created Companion
	err := r.db.GetContext(ctx, &created, query, c.Name, c.Description, c.Instructions, c.Seed, c.Src, c.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to create companion: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a companion by ID
func (r *CompanionRepo) GetByID(ctx context.Context, id uuid.UUID) (*Companion, error) {
	query := `SELECT ` + companionColumns + ` FROM companions WHERE id = $1`

	var c Companion
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanionNotFound
		}
		return nil, fmt.Errorf("failed to get companion: %w", err)
	}

	return &c, nil
}

// List retrieves companions matching filter, newest first
func (r *CompanionRepo) List(ctx context.Context, filter ListFilter) ([]*Companion, error) {
	query := `
        SELECT ` + companionColumns + `
        FROM companions
        WHERE ($1::uuid IS NULL OR category_id = $1::uuid)
          AND ($2 = '' OR name ILIKE '%' || $2 || '%')
        ORDER BY created_at DESC
    `

	companions := []*Companion{}
	err := r.db.SelectContext(ctx, &companions, query, filter.CategoryID, filter.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list companions: %w", err)
	}

	return companions, nil
}

// Update replaces every editable field of a companion
func (r *CompanionRepo) Update(ctx context.Context, id uuid.UUID, c *Companion) (*Companion, error) {
	query := `
        UPDATE companions
        SET name = $1, description = $2, instructions = $3, seed = $4, src = $5, category_id = $6, updated_at = NOW()
        WHERE id = $7
        RETURNING ` + companionColumns

	var updated Companion
	err := r.db.GetContext(ctx, &updated, query, c.Name, c.Description, c.Instructions, c.Seed, c.Src, c.CategoryID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanionNotFound
		}
		return nil, fmt.Errorf("failed to update companion: %w", err)
	}

	return &updated, nil
}

// Delete removes a companion by ID
func (r *CompanionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM companions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete companion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCompanionNotFound
	}

	return nil
}
