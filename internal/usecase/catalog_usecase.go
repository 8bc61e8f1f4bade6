package usecase

import (
	"context"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/policy"

	"github.com/google/uuid"
)

// BrowseInput carries caller-supplied catalog search parameters. They combine
// with the principal's visibility filter with AND semantics: narrowing is
// possible, bypassing is not. Statuses is honored only for principals whose
// views may be widened (admins and sub-admins).
type BrowseInput struct {
	Category string
	Country  string
	Search   string
	Statuses []string
	Limit    int
	Offset   int
}

// ContactInput carries an inbound public contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// CatalogUsecase defines the read side of the marketplace: browsing listings
// and categories, for anonymous visitors and authenticated principals alike.
// Single-record reads mask denials as not-found so existence never leaks.
type CatalogUsecase interface {
	ListProducts(ctx context.Context, p policy.Principal, input *BrowseInput) ([]*entity.Product, error)
	GetProduct(ctx context.Context, p policy.Principal, id uuid.UUID) (*entity.Product, error)

	// ProductShareQR renders a QR code for a product the principal can see.
	ProductShareQR(ctx context.Context, p policy.Principal, id uuid.UUID) ([]byte, error)

	ListRequests(ctx context.Context, p policy.Principal, input *BrowseInput) ([]*entity.ProductRequest, error)
	GetRequest(ctx context.Context, p policy.Principal, id uuid.UUID) (*entity.ProductRequest, error)

	ListCategories(ctx context.Context, approvedOnly bool) ([]*entity.Category, error)

	// SuggestCategory creates a category on behalf of a user. Submissions are
	// currently auto-approved.
	SuggestCategory(ctx context.Context, p policy.Principal, name string) (*entity.Category, error)

	// SubmitContactMessage accepts a public contact form submission.
	SubmitContactMessage(ctx context.Context, input *ContactInput) error
}
