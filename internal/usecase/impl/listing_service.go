package impl

import (
	"context"
	"log/slog"
	"time"

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

// listingService implements the ListingUsecase interface.
type listingService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	requestRepo repository.RequestRepository
	events      service.EventPublisher
	logger      *slog.Logger
}

// ListingServiceParams holds dependencies for ListingService, injected by Fx.
type ListingServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	RequestRepo repository.RequestRepository
	Events      service.EventPublisher
	Logger      *slog.Logger
}

// NewListingService is the constructor for listingService.
func NewListingService(params ListingServiceParams) usecase.ListingUsecase {
	return &listingService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		requestRepo: params.RequestRepo,
		events:      params.Events,
		logger:      params.Logger,
	}
}

func (srv *listingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateProduct persists a new product listing. The author's approval is
// re-checked inside the creating transaction: an approval revoked between
// page load and submission still blocks the insert.
func (srv *listingService) CreateProduct(ctx context.Context, p policy.Principal, input *usecase.CreateProductInput) (*entity.Product, error) {
	srv.log(ctx).Debug("Creating product", slog.Any("userID", p.ID))

	var created *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profile, err := srv.loadAuthorProfile(ctx, repoFactory, p)
		if err != nil {
			return err
		}
		if err := policy.CanCreateListing(p, profile); err != nil {
			return errors.Wrap(domainerrors.ErrApprovalRequired, "listing creation denied")
		}

		product := &entity.Product{
			ExporterID:    p.ID,
			Name:          input.Name,
			Description:   input.Description,
			Category:      input.Category,
			Price:         input.Price,
			Currency:      input.Currency,
			Quantity:      input.Quantity,
			Unit:          input.Unit,
			CountryOrigin: input.CountryOrigin,
			ImageURL:      input.ImageURL,
			Status:        entity.ListingActive,
		}
		for i, url := range input.GalleryURLs {
			product.Images = append(product.Images, &entity.ProductImage{
				ImageURL:     url,
				IsPrimary:    i == 0 && input.ImageURL == "",
				DisplayOrder: i,
			})
		}

		if err := repoFactory.ProductRepo().Create(ctx, product); err != nil {
			return errors.Wrap(err, "failed to create product")
		}
		created = product

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Product creation failed", slog.Any("userID", p.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute product creation transaction")
	}

	srv.publishListingEvent(ctx, service.EventListingCreated, p, policy.ProductResource(created), created.ID)
	srv.log(ctx).Info("Product created", slog.Any("productID", created.ID), slog.Any("userID", p.ID))

	return created, nil
}

// UpdateProduct edits a product's descriptive fields. Status never moves
// through this path.
func (srv *listingService) UpdateProduct(ctx context.Context, p policy.Principal, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("product not found")
		}

		return nil, errors.Wrap(err, "failed to load product for update")
	}

	resource := policy.ProductResource(product)
	if !policy.CanRead(p, resource) {
		// Invisible records stay invisible, even to a would-be editor.
		return nil, domainerrors.ErrNotFound.WrapMessage("product not found")
	}
	if !policy.CanWrite(p, resource, policy.FieldEdit()) {
		return nil, domainerrors.ErrForbidden
	}

	applyProductInput(product, input)

	if err := srv.productRepo.Update(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to update product", slog.Any("productID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

func applyProductInput(product *entity.Product, input *usecase.UpdateProductInput) {
	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.Currency != "" {
		product.Currency = input.Currency
	}
	if input.Quantity > 0 {
		product.Quantity = input.Quantity
	}
	if input.Unit != "" {
		product.Unit = input.Unit
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
}

// TransitionProduct moves a product through its lifecycle with a conditional
// update. Zero rows affected means a concurrent writer moved it first: if
// the record already sits at the target the operation reports success,
// otherwise the transition is rejected.
func (srv *listingService) TransitionProduct(ctx context.Context, p policy.Principal, id uuid.UUID, to entity.ListingStatus) error {
	if !to.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown listing status")
	}

	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("product not found")
		}

		return errors.Wrap(err, "failed to load product for transition")
	}

	resource := policy.ProductResource(product)
	if !policy.CanRead(p, resource) {
		return domainerrors.ErrNotFound.WrapMessage("product not found")
	}
	if err := policy.AuthorizeTransition(p, resource, product.Status.String(), to.String()); err != nil {
		return domainerrors.FromPolicy(err)
	}

	affected, err := srv.productRepo.UpdateStatusIf(ctx, id, product.Status, to)
	if err != nil {
		return errors.Wrap(err, "failed to transition product")
	}
	if affected == 0 {
		return srv.resolveProductRace(ctx, id, to)
	}

	srv.publishListingTransitionEvent(ctx, p, resource, id, to)
	srv.log(ctx).Info("Product transitioned", slog.Any("productID", id), slog.String("to", to.String()))

	return nil
}

// resolveProductRace decides the outcome of a lost conditional update by
// re-reading the row. Already at the target means another caller finished
// the same transition; anything else is a conflict.
func (srv *listingService) resolveProductRace(ctx context.Context, id uuid.UUID, to entity.ListingStatus) error {
	current, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "failed to re-read product after lost transition")
	}
	if current.Status == to {
		return nil
	}

	return domainerrors.ErrInvalidTransition.WrapMessage("product status changed concurrently")
}

// MyProducts lists the principal's own products in every status.
func (srv *listingService) MyProducts(ctx context.Context, p policy.Principal, limit, offset int) ([]*entity.Product, error) {
	filter := policy.OwnListings(p)
	if filter.DenyAll {
		return nil, domainerrors.ErrForbidden.WrapMessage("only marketplace accounts have listings")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	products, err := srv.productRepo.List(ctx, repository.ListingQuery{
		Filter: filter,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list own products")
	}

	return products, nil
}

// CreateRequest persists a new sourcing request, with the same in-transaction
// approval check as CreateProduct.
func (srv *listingService) CreateRequest(ctx context.Context, p policy.Principal, input *usecase.CreateRequestInput) (*entity.ProductRequest, error) {
	srv.log(ctx).Debug("Creating request", slog.Any("userID", p.ID))

	urgency := input.Urgency
	if urgency == "" {
		urgency = entity.UrgencyNormal
	}
	if !urgency.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown urgency")
	}

	var created *entity.ProductRequest
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profile, err := srv.loadAuthorProfile(ctx, repoFactory, p)
		if err != nil {
			return err
		}
		if err := policy.CanCreateListing(p, profile); err != nil {
			return errors.Wrap(domainerrors.ErrApprovalRequired, "listing creation denied")
		}

		request := &entity.ProductRequest{
			RequesterID:   p.ID,
			Title:         input.Title,
			Description:   input.Description,
			Category:      input.Category,
			Quantity:      input.Quantity,
			Unit:          input.Unit,
			BudgetMin:     input.BudgetMin,
			BudgetMax:     input.BudgetMax,
			Currency:      input.Currency,
			TargetCountry: input.TargetCountry,
			Urgency:       urgency,
			Status:        entity.ListingActive,
			ExpiresAt:     input.ExpiresAt,
		}

		if err := repoFactory.RequestRepo().Create(ctx, request); err != nil {
			return errors.Wrap(err, "failed to create request")
		}
		created = request

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Request creation failed", slog.Any("userID", p.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute request creation transaction")
	}

	srv.publishListingEvent(ctx, service.EventListingCreated, p, policy.RequestResource(created), created.ID)
	srv.log(ctx).Info("Request created", slog.Any("requestID", created.ID), slog.Any("userID", p.ID))

	return created, nil
}

// UpdateRequest edits a request's descriptive fields.
func (srv *listingService) UpdateRequest(ctx context.Context, p policy.Principal, id uuid.UUID, input *usecase.UpdateRequestInput) (*entity.ProductRequest, error) {
	request, err := srv.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrNotFound.WrapMessage("request not found")
		}

		return nil, errors.Wrap(err, "failed to load request for update")
	}

	resource := policy.RequestResource(request)
	if !policy.CanRead(p, resource) {
		return nil, domainerrors.ErrNotFound.WrapMessage("request not found")
	}
	if !policy.CanWrite(p, resource, policy.FieldEdit()) {
		return nil, domainerrors.ErrForbidden
	}

	applyRequestInput(request, input)

	if err := srv.requestRepo.Update(ctx, request); err != nil {
		srv.log(ctx).Error("Failed to update request", slog.Any("requestID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update request")
	}

	return request, nil
}

func applyRequestInput(request *entity.ProductRequest, input *usecase.UpdateRequestInput) {
	if input.Title != "" {
		request.Title = input.Title
	}
	if input.Description != "" {
		request.Description = input.Description
	}
	if input.Category != "" {
		request.Category = input.Category
	}
	if input.Quantity > 0 {
		request.Quantity = input.Quantity
	}
	if input.Unit != "" {
		request.Unit = input.Unit
	}
	if input.BudgetMin > 0 {
		request.BudgetMin = input.BudgetMin
	}
	if input.BudgetMax > 0 {
		request.BudgetMax = input.BudgetMax
	}
	if input.Currency != "" {
		request.Currency = input.Currency
	}
	if input.Urgency != "" && input.Urgency.IsValid() {
		request.Urgency = input.Urgency
	}
	if input.ExpiresAt != nil {
		request.ExpiresAt = input.ExpiresAt
	}
}

// TransitionRequest moves a request through its lifecycle, with the same
// lost-update resolution as TransitionProduct.
func (srv *listingService) TransitionRequest(ctx context.Context, p policy.Principal, id uuid.UUID, to entity.ListingStatus) error {
	if !to.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown listing status")
	}

	request, err := srv.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return domainerrors.ErrNotFound.WrapMessage("request not found")
		}

		return errors.Wrap(err, "failed to load request for transition")
	}

	resource := policy.RequestResource(request)
	if !policy.CanRead(p, resource) {
		return domainerrors.ErrNotFound.WrapMessage("request not found")
	}
	if err := policy.AuthorizeTransition(p, resource, request.Status.String(), to.String()); err != nil {
		return domainerrors.FromPolicy(err)
	}

	affected, err := srv.requestRepo.UpdateStatusIf(ctx, id, request.Status, to)
	if err != nil {
		return errors.Wrap(err, "failed to transition request")
	}
	if affected == 0 {
		current, err := srv.requestRepo.FindByID(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to re-read request after lost transition")
		}
		if current.Status == to {
			return nil
		}

		return domainerrors.ErrInvalidTransition.WrapMessage("request status changed concurrently")
	}

	srv.publishListingTransitionEvent(ctx, p, resource, id, to)
	srv.log(ctx).Info("Request transitioned", slog.Any("requestID", id), slog.String("to", to.String()))

	return nil
}

// MyRequests lists the principal's own requests in every status.
func (srv *listingService) MyRequests(ctx context.Context, p policy.Principal, limit, offset int) ([]*entity.ProductRequest, error) {
	filter := policy.OwnListings(p)
	if filter.DenyAll {
		return nil, domainerrors.ErrForbidden.WrapMessage("only marketplace accounts have listings")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	requests, err := srv.requestRepo.List(ctx, repository.ListingQuery{
		Filter: filter,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list own requests")
	}

	return requests, nil
}

// loadAuthorProfile fetches the acting user's profile snapshot inside the
// current transaction.
func (srv *listingService) loadAuthorProfile(ctx context.Context, repoFactory repository.RepositoryFactory, p policy.Principal) (*entity.Profile, error) {
	if p.Kind != policy.KindUser {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only marketplace accounts create listings")
	}

	user, err := repoFactory.UserRepo().FindByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrForbidden, "acting account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load author profile")
	}

	return user.Profile, nil
}

func (srv *listingService) publishListingTransitionEvent(ctx context.Context, p policy.Principal, r policy.Resource, id uuid.UUID, to entity.ListingStatus) {
	eventType := service.EventListingDone
	if to == entity.ListingDeleted {
		eventType = service.EventListingDeleted
	}
	srv.publishListingEvent(ctx, eventType, p, r, id)
}

func (srv *listingService) publishListingEvent(ctx context.Context, eventType string, p policy.Principal, r policy.Resource, id uuid.UUID) {
	if srv.events == nil {
		return
	}

	event := &service.MarketplaceEvent{
		Type:        eventType,
		ActorID:     p.ID.String(),
		SubjectKind: string(r.Kind),
		SubjectID:   id.String(),
		Country:     r.Country,
		OccurredAt:  time.Now(),
	}

	if err := srv.events.PublishMarketplaceEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish listing event", slog.String("type", eventType), slog.Any("error", err))
	}
}
