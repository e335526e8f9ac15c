package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/curaious/companion/internal/cache"
	"github.com/google/uuid"
)

const listCacheKey = "categories:all"

// Store is the persistence the service reads categories from. CategoryRepo implements it.
type Store interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
}

// CategoryService serves the category catalogue, caching the listing in Redis when configured.
type CategoryService struct {
	repo  Store
	cache *cache.Cache
}

// NewCategoryService constructs a CategoryService. c may be nil.
func NewCategoryService(repo Store, c *cache.Cache) *CategoryService {
	return &CategoryService{repo: repo, cache: c}
}

// List returns every category ordered by name
func (s *CategoryService) List(ctx context.Context) ([]*Category, error) {
	var cached []*Category
	found, err := s.cache.Get(ctx, listCacheKey, &cached)
	if err != nil {
		slog.WarnContext(ctx, "Unable to read categories from cache", slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if err := s.cache.Set(ctx, listCacheKey, categories); err != nil {
		slog.WarnContext(ctx, "Unable to cache categories", slog.Any("error", err))
	}

	return categories, nil
}

// GetByID fetches a category by its identifier
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}
