package category

import (
	"context"
	"testing"

	"github.com/curaious/companion/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepo(t *testing.T) {
	db := testutil.Postgres(t)
	repo := NewCategoryRepo(db)
	ctx := context.Background()

	t.Run("List returns the seeded catalogue by name", func(t *testing.T) {
		categories, err := repo.List(ctx)
		require.NoError(t, err)

		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"Animals", "Famous People", "Games", "Movies & TV", "Musicians", "Philosophy", "Scientists"}, names)
	})

	t.Run("GetByID", func(t *testing.T) {
		categories, err := repo.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, categories)

		got, err := repo.GetByID(ctx, categories[0].ID)
		require.NoError(t, err)
		assert.Equal(t, categories[0].Name, got.Name)

		_, err = repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}
