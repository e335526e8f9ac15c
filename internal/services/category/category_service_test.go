package category

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	categories []*Category
	listCalls  int
	err        error
}

func (m *memStore) List(_ context.Context) ([]*Category, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func TestCategoryService_WithoutCache(t *testing.T) {
	games := &Category{ID: uuid.New(), Name: "Games"}
	store := &memStore{categories: []*Category{games}}
	svc := NewCategoryService(store, nil)
	ctx := context.Background()

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*Category{games}, got)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)

	c, err := svc.GetByID(ctx, games.ID)
	require.NoError(t, err)
	assert.Equal(t, "Games", c.Name)

	_, err = svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_ListError(t *testing.T) {
	svc := NewCategoryService(&memStore{err: errors.New("connection refused")}, nil)

	_, err := svc.List(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestFormOptions(t *testing.T) {
	a := &Category{ID: uuid.New(), Name: "Animals"}
	b := &Category{ID: uuid.New(), Name: "Games"}

	opts := FormOptions([]*Category{a, b})

	require.Len(t, opts, 2)
	assert.Equal(t, a.ID.String(), opts[0].ID)
	assert.Equal(t, "Games", opts[1].Name)
}
