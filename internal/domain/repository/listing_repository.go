// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/policy"

	"github.com/google/uuid"
)

// ErrListingNotFound is returned when a product or request is not found.
var ErrListingNotFound = errors.New("listing not found")

// ListingQuery narrows a catalog or back-office listing view. The Filter is
// the policy enforcement boundary and is always applied; the remaining
// fields are caller-supplied search parameters combined with AND semantics —
// they can narrow the result, never bypass the filter.
type ListingQuery struct {
	Filter policy.Filter
	// Category restricts to a single category name when set.
	Category string
	// Country restricts the scoping field when set. The value is expanded
	// to both storage forms before matching.
	Country string
	// Search matches against name/title and description when set.
	Search string
	Limit  int
	Offset int
}

// ProductRepository defines the standard operations for product listings.
type ProductRepository interface {
	// Create persists a new product, gallery images included.
	Create(ctx context.Context, product *entity.Product) error

	// FindByID retrieves a single product by its unique ID, any status.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List returns products matching the query.
	List(ctx context.Context, q ListingQuery) ([]*entity.Product, error)

	// Update modifies a product's descriptive fields. Status is never
	// written through this path; use UpdateStatusIf.
	Update(ctx context.Context, product *entity.Product) error

	// UpdateStatusIf conditionally moves a product's status: the update
	// applies only while the stored status equals from. It returns the
	// number of rows affected; zero means a concurrent writer got there
	// first and the caller decides whether the transition already happened.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.ListingStatus) (int64, error)
}

// RequestRepository defines the standard operations for product requests.
type RequestRepository interface {
	// Create persists a new product request.
	Create(ctx context.Context, request *entity.ProductRequest) error

	// FindByID retrieves a single request by its unique ID, any status.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ProductRequest, error)

	// List returns requests matching the query.
	List(ctx context.Context, q ListingQuery) ([]*entity.ProductRequest, error)

	// Update modifies a request's descriptive fields. Status is never
	// written through this path; use UpdateStatusIf.
	Update(ctx context.Context, request *entity.ProductRequest) error

	// UpdateStatusIf conditionally moves a request's status, with the same
	// zero-rows contract as ProductRepository.UpdateStatusIf.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.ListingStatus) (int64, error)
}
