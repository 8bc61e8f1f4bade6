// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"tradegate/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for category persistence.
var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned when a category name is already taken.
	ErrCategoryExists = errors.New("category name already exists")
)

// CategoryRepository defines the standard operations for catalog categories.
type CategoryRepository interface {
	// Create persists a new category. Names are unique; a duplicate
	// reports ErrCategoryExists.
	Create(ctx context.Context, category *entity.Category) error

	// List returns categories, optionally restricted to approved ones.
	List(ctx context.Context, approvedOnly bool) ([]*entity.Category, error)

	// SetApproved flips a category's approval flag.
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
}
