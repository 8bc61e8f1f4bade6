package usecase

import (
	"context"
	"time"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/policy"

	"github.com/google/uuid"
)

// CreateProductInput carries the fields of a new product listing.
type CreateProductInput struct {
	Name          string
	Description   string
	Category      string
	Price         float64
	Currency      string
	Quantity      int
	Unit          string
	CountryOrigin string
	ImageURL      string
	GalleryURLs   []string
}

// UpdateProductInput carries the editable fields of an existing product.
// Status is not here; transitions go through TransitionProduct.
type UpdateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Currency    string
	Quantity    int
	Unit        string
	ImageURL    string
}

// CreateRequestInput carries the fields of a new sourcing request.
type CreateRequestInput struct {
	Title         string
	Description   string
	Category      string
	Quantity      int
	Unit          string
	BudgetMin     float64
	BudgetMax     float64
	Currency      string
	TargetCountry string
	Urgency       entity.Urgency
	ExpiresAt     *time.Time
}

// UpdateRequestInput carries the editable fields of an existing request.
type UpdateRequestInput struct {
	Title       string
	Description string
	Category    string
	Quantity    int
	Unit        string
	BudgetMin   float64
	BudgetMax   float64
	Currency    string
	Urgency     entity.Urgency
	ExpiresAt   *time.Time
}

// ListingUsecase defines the write side of the marketplace: creating and
// maintaining one's own products and sourcing requests. Creation re-checks
// the author's approval inside the same transaction, so an approval revoked
// mid-request still blocks the insert.
type ListingUsecase interface {
	CreateProduct(ctx context.Context, p policy.Principal, input *CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, p policy.Principal, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)

	// TransitionProduct moves a product to the given status. Listings only
	// move forward; done and deleted are terminal.
	TransitionProduct(ctx context.Context, p policy.Principal, id uuid.UUID, to entity.ListingStatus) error

	// MyProducts lists the principal's own products in every status.
	MyProducts(ctx context.Context, p policy.Principal, limit, offset int) ([]*entity.Product, error)

	CreateRequest(ctx context.Context, p policy.Principal, input *CreateRequestInput) (*entity.ProductRequest, error)
	UpdateRequest(ctx context.Context, p policy.Principal, id uuid.UUID, input *UpdateRequestInput) (*entity.ProductRequest, error)
	TransitionRequest(ctx context.Context, p policy.Principal, id uuid.UUID, to entity.ListingStatus) error
	MyRequests(ctx context.Context, p policy.Principal, limit, offset int) ([]*entity.ProductRequest, error)
}
