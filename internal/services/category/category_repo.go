package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepo handles database operations for categories
type CategoryRepo struct {
	db *sqlx.DB
}

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// List retrieves all categories ordered by name
func (r *CategoryRepo) List(ctx context.Context) ([]*Category, error) {
	query := `
        SELECT id, name, created_at
        FROM categories
        ORDER BY name ASC
    `

	categories := []*Category{}
	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	query := `
        SELECT id, name, created_at
        FROM categories
        WHERE id = $1
    `

	var category Category
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}
