package category

import (
	"time"

	"github.com/curaious/companion/pkg/companionform"
	"github.com/google/uuid"
)

// Category classifies companions. The catalogue is seeded by migrations and read-only at runtime.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FormOption converts the category into the option shape the companion form selects from.
func (c *Category) FormOption() companionform.Category {
	return companionform.Category{ID: c.ID.String(), Name: c.Name}
}

// FormOptions converts a listing into form options, preserving order.
func FormOptions(categories []*Category) []companionform.Category {
	out := make([]companionform.Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.FormOption())
	}
	return out
}
