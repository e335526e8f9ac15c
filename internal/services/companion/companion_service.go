package companion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/curaious/companion/internal/cache"
	"github.com/curaious/companion/internal/services/category"
	"github.com/curaious/companion/pkg/companionform"
	"github.com/google/uuid"
)

const listCachePrefix = "companions:"

// ValidationError reports a payload that fails the companion schema.
type ValidationError struct {
	Fields companionform.FieldErrors
}

func (e *ValidationError) Error() string {
	return "invalid companion: " + e.Fields.Error()
}

// Store is the persistence the service writes companions to. CompanionRepo implements it.
type Store interface {
	Create(ctx context.Context, c *Companion) (*Companion, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Companion, error)
	List(ctx context.Context, filter ListFilter) ([]*Companion, error)
	Update(ctx context.Context, id uuid.UUID, c *Companion) (*Companion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryLookup resolves the category a companion is filed under.
type CategoryLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error)
}

// CompanionService contains business logic for companions
type CompanionService struct {
	repo       Store
	categories CategoryLookup
	cache      *cache.Cache
}

// NewCompanionService constructs a CompanionService. c may be nil.
func NewCompanionService(repo Store, categories CategoryLookup, c *cache.Cache) *CompanionService {
	return &CompanionService{repo: repo, categories: categories, cache: c}
}

// Create validates req and stores a new companion
func (s *CompanionService) Create(ctx context.Context, req *UpsertCompanionRequest) (*Companion, error) {
	c, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create companion: %w", err)
	}

	s.InvalidateListings(ctx)
	return created, nil
}

// Update validates req and replaces the companion identified by id
func (s *CompanionService) Update(ctx context.Context, id uuid.UUID, req *UpsertCompanionRequest) (*Companion, error) {
	c, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, c)
	if err != nil {
		if errors.Is(err, ErrCompanionNotFound) {
			return nil, ErrCompanionNotFound
		}
		return nil, fmt.Errorf("failed to update companion: %w", err)
	}

	s.InvalidateListings(ctx)
	return updated, nil
}

// GetByID fetches a companion by its identifier
func (s *CompanionService) GetByID(ctx context.Context, id uuid.UUID) (*Companion, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCompanionNotFound) {
			return nil, ErrCompanionNotFound
		}
		return nil, fmt.Errorf("failed to get companion: %w", err)
	}

	return c, nil
}

// List returns companions matching filter, newest first
func (s *CompanionService) List(ctx context.Context, filter ListFilter) ([]*Companion, error) {
	key := listCacheKey(filter)

	var cached []*Companion
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "Unable to read companions from cache", slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	companions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list companions: %w", err)
	}

	if err := s.cache.Set(ctx, key, companions); err != nil {
		slog.WarnContext(ctx, "Unable to cache companions", slog.Any("error", err))
	}

	return companions, nil
}

// Delete removes a companion by ID
func (s *CompanionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrCompanionNotFound) {
			return ErrCompanionNotFound
		}
		return fmt.Errorf("failed to delete companion: %w", err)
	}

	s.InvalidateListings(ctx)
	return nil
}

// InvalidateListings drops every cached companion listing.
func (s *CompanionService) InvalidateListings(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, listCachePrefix); err != nil {
		slog.WarnContext(ctx, "Unable to invalidate companion listings", slog.Any("error", err))
	}
}

func (s *CompanionService) prepare(ctx context.Context, req *UpsertCompanionRequest) (*Companion, error) {
	draft := companionform.Draft(*req)
	if errs := companionform.Validate(draft); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	categoryID, err := uuid.Parse(draft.CategoryID)
	if err != nil {
		return nil, category.ErrCategoryNotFound
	}

	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	return &Companion{
		Name:         draft.Name,
		Description:  draft.Description,
		Instructions: draft.Instructions,
		Seed:         draft.Seed,
		Src:          draft.Src,
		CategoryID:   categoryID,
	}, nil
}

func listCacheKey(filter ListFilter) string {
	categoryID := "*"
	if filter.CategoryID != nil {
		categoryID = filter.CategoryID.String()
	}
	return fmt.Sprintf("%slist:%s:%s", listCachePrefix, categoryID, filter.Name)
}
