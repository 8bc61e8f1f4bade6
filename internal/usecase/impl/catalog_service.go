package impl

import (
	"context"
	"log/slog"

	deliverycontext "tradegate/internal/delivery/context"
	"tradegate/internal/domain/entity"
	domainerrors "tradegate/internal/domain/errors"
	"tradegate/internal/domain/policy"
	"tradegate/internal/domain/repository"
	"tradegate/internal/domain/service"
	"tradegate/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultPageSize = 20
const maxPageSize = 100

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo  repository.ProductRepository
	requestRepo  repository.RequestRepository
	categoryRepo repository.CategoryRepository
	contactRepo  repository.ContactRepository
	qrService    service.QRCodeService
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	RequestRepo  repository.RequestRepository
	CategoryRepo repository.CategoryRepository
	ContactRepo  repository.ContactRepository
	QRService    service.QRCodeService
	Logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		productRepo:  params.ProductRepo,
		requestRepo:  params.RequestRepo,
		categoryRepo: params.CategoryRepo,
		contactRepo:  params.ContactRepo,
		qrService:    params.QRService,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// buildListingQuery combines the principal's visibility filter with the
// caller's search parameters. Status widening only takes effect for
// principals whose filter allows it.
func buildListingQuery(p policy.Principal, kind policy.ResourceKind, input *usecase.BrowseInput) repository.ListingQuery {
	filter := policy.ListFilter(p, kind)
	if len(input.Statuses) > 0 {
		filter = filter.WidenStatuses(input.Statuses...)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return repository.ListingQuery{
		Filter:   filter,
		Category: input.Category,
		Country:  input.Country,
		Search:   input.Search,
		Limit:    limit,
		Offset:   input.Offset,
	}
}

// ListProducts returns catalog products visible to the principal.
func (srv *catalogService) ListProducts(ctx context.Context, p policy.Principal, input *usecase.BrowseInput) ([]*entity.Product, error) {
	q := buildListingQuery(p, policy.ResourceProduct, input)

	products, err := srv.productRepo.List(ctx, q)
	if err != nil {
		srv.log(ctx).Error("Failed to list products", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// GetProduct returns a single product if the principal may see it. A product
// outside the principal's view reports not found, never forbidden.
func (srv *catalogService) GetProduct(ctx context.Context, p policy.Principal, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("product not found")
		}

		return nil, errors.Wrap(err, "failed to load product")
	}

	if !policy.CanRead(p, policy.ProductResource(product)) {
		return nil, domainerrors.ErrNotFound.WrapMessage("product not found")
	}

	return product, nil
}

// ProductShareQR renders a QR code for a product the principal can see.
func (srv *catalogService) ProductShareQR(ctx context.Context, p policy.Principal, id uuid.UUID) ([]byte, error) {
	// Reuse the read path so invisibility masks the same way.
	product, err := srv.GetProduct(ctx, p, id)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrService.GenerateProductQR(product.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate product QR", slog.Any("productID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate product QR")
	}

	return png, nil
}

// ListRequests returns sourcing requests visible to the principal.
func (srv *catalogService) ListRequests(ctx context.Context, p policy.Principal, input *usecase.BrowseInput) ([]*entity.ProductRequest, error) {
	q := buildListingQuery(p, policy.ResourceRequest, input)

	requests, err := srv.requestRepo.List(ctx, q)
	if err != nil {
		srv.log(ctx).Error("Failed to list requests", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list requests")
	}

	return requests, nil
}

// GetRequest returns a single request if the principal may see it, with the
// same not-found masking as GetProduct.
func (srv *catalogService) GetRequest(ctx context.Context, p policy.Principal, id uuid.UUID) (*entity.ProductRequest, error) {
	request, err := srv.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("request not found")
		}

		return nil, errors.Wrap(err, "failed to load request")
	}

	if !policy.CanRead(p, policy.RequestResource(request)) {
		return nil, domainerrors.ErrNotFound.WrapMessage("request not found")
	}

	return request, nil
}

// ListCategories returns catalog categories.
func (srv *catalogService) ListCategories(ctx context.Context, approvedOnly bool) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx, approvedOnly)
	if err != nil {
		srv.log(ctx).Error("Failed to list categories", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

// SuggestCategory creates a category on behalf of a user.
func (srv *catalogService) SuggestCategory(ctx context.Context, p policy.Principal, name string) (*entity.Category, error) {
	if p.Kind != policy.KindUser {
		return nil, domainerrors.ErrForbidden.WrapMessage("only marketplace accounts suggest categories")
	}
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("category name is required")
	}

	createdBy := p.ID
	category := &entity.Category{
		Name:      name,
		CreatedBy: &createdBy,
		// User submissions go live immediately for now. ApproveCategory can
		// still pull one back.
		IsApproved: true,
	}

	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			return nil, domainerrors.ErrCategoryExists
		}
		srv.log(ctx).Error("Failed to create category", slog.String("name", name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create category")
	}
	srv.log(ctx).Info("Category suggested", slog.String("name", name), slog.Any("userID", p.ID))

	return category, nil
}

// SubmitContactMessage accepts a public contact form submission.
func (srv *catalogService) SubmitContactMessage(ctx context.Context, input *usecase.ContactInput) error {
	if input.Email == "" || input.Body == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("email and message body are required")
	}

	message := &entity.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Body:    input.Body,
	}

	if err := srv.contactRepo.Create(ctx, message); err != nil {
		srv.log(ctx).Error("Failed to store contact message", slog.Any("error", err))

		return errors.Wrap(err, "failed to store contact message")
	}
	srv.log(ctx).Info("Contact message received", slog.String("email", input.Email))

	return nil
}
