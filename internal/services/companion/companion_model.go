package companion

import (
	"time"

	"github.com/curaious/companion/pkg/companionform"
	"github.com/google/uuid"
)

// Companion is a persisted AI persona
type Companion struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Instructions string    `json:"instructions" db:"instructions"`
	Seed         string    `json:"seed" db:"seed"`
	Src          string    `json:"src" db:"src"`
	CategoryID   uuid.UUID `json:"categoryId" db:"category_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Record converts the companion into the shape the form edits.
func (c *Companion) Record() *companionform.Record {
	return &companionform.Record{
		ID: c.ID.String(),
		Draft: companionform.Draft{
			Name:         c.Name,
			Description:  c.Description,
			Instructions: c.Instructions,
			Seed:         c.Seed,
			Src:          c.Src,
			CategoryID:   c.CategoryID.String(),
		},
	}
}

// UpsertCompanionRequest is the payload for both creating and replacing a companion.
type UpsertCompanionRequest companionform.Draft

// ListFilter narrows a companion listing. Zero values match everything.
type ListFilter struct {
	CategoryID *uuid.UUID
	// Name matches case-insensitively anywhere in the companion name
	Name string
}
