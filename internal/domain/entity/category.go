package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category groups listings for catalog filtering. Names are unique across
// the marketplace; creating a duplicate reports a conflict.
type Category struct {
	ID         uuid.UUID  // The unique identifier for the category.
	Name       string     // Unique category name.
	CreatedBy  *uuid.UUID // The user who suggested the category. Nil for seeded categories.
	IsApproved bool       // Only approved categories appear in catalog filters. User submissions are auto-approved for now.
	CreatedAt  time.Time  // Timestamp of when this category was created.
	UpdatedAt  time.Time  // Timestamp of the last modification.
}
