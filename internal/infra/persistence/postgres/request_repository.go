package postgres

import (
	"context"

	"tradegate/internal/domain/country"
	"tradegate/internal/domain/entity"
	domainerrors "tradegate/internal/domain/errors"
	"tradegate/internal/domain/repository"
	"tradegate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// requestRepository implements the domain's RequestRepository interface using GORM.
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository is the constructor for requestRepository.
func NewRequestRepository(db *gorm.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

// Create persists a new product request.
func (repo *requestRepository) Create(ctx context.Context, request *entity.ProductRequest) error {
	requestM := fromRequestDomain(request)

	if err := repo.db.WithContext(ctx).Create(requestM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid requester reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product request")
	}

	request.ID = requestM.ID
	request.CreatedAt = requestM.CreatedAt
	request.UpdatedAt = requestM.UpdatedAt

	return nil
}

// FindByID retrieves a single request by its unique ID, any status.
func (repo *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ProductRequest, error) {
	var requestM model.ProductRequestModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&requestM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "failed to find product request by id")
	}

	return toRequestDomain(&requestM), nil
}

// List returns requests matching the query. The policy filter is applied
// first; search parameters only narrow it further.
func (repo *requestRepository) List(ctx context.Context, q repository.ListingQuery) ([]*entity.ProductRequest, error) {
	tx := repo.db.WithContext(ctx).Model(&model.ProductRequestModel{})

	tx = applyPolicyFilter(tx, q.Filter, "requester_id", "target_country", "status")

	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Country != "" {
		tx = tx.Where("target_country IN ?", country.Variants(q.Country))
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var models []*model.ProductRequestModel
	if err := tx.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list product requests")
	}

	requests := make([]*entity.ProductRequest, 0, len(models))
	for _, m := range models {
		requests = append(requests, toRequestDomain(m))
	}

	return requests, nil
}

// Update modifies a request's descriptive fields. Status is deliberately
// excluded; lifecycle changes only go through UpdateStatusIf.
func (repo *requestRepository) Update(ctx context.Context, request *entity.ProductRequest) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductRequestModel{}).
		Where("id = ?", request.ID).
		Updates(map[string]any{
			"title":          request.Title,
			"description":    request.Description,
			"category":       request.Category,
			"quantity":       request.Quantity,
			"unit":           request.Unit,
			"budget_min":     request.BudgetMin,
			"budget_max":     request.BudgetMax,
			"currency":       request.Currency,
			"target_country": request.TargetCountry,
			"urgency":        string(request.Urgency),
			"expires_at":     request.ExpiresAt,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update product request")
	}
	if result.RowsAffected == 0 {
		return repository.ErrListingNotFound
	}

	return nil
}

// UpdateStatusIf conditionally moves a request's status, with the same
// zero-row contract as the product repository.
func (repo *requestRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.ListingStatus) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductRequestModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Update("status", to.String())
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to update product request status")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toRequestDomain converts a GORM ProductRequestModel to a domain ProductRequest entity.
func toRequestDomain(data *model.ProductRequestModel) *entity.ProductRequest {
	if data == nil {
		return nil
	}

	return &entity.ProductRequest{
		ID:            data.ID,
		RequesterID:   data.RequesterID,
		Title:         data.Title,
		Description:   data.Description,
		Category:      data.Category,
		Quantity:      data.Quantity,
		Unit:          data.Unit,
		BudgetMin:     data.BudgetMin,
		BudgetMax:     data.BudgetMax,
		Currency:      data.Currency,
		TargetCountry: data.TargetCountry,
		Urgency:       entity.Urgency(data.Urgency),
		Status:        entity.ListingStatus(data.Status),
		ExpiresAt:     data.ExpiresAt,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromRequestDomain converts a domain ProductRequest entity to a GORM ProductRequestModel.
func fromRequestDomain(data *entity.ProductRequest) *model.ProductRequestModel {
	if data == nil {
		return nil
	}

	return &model.ProductRequestModel{
		ID:            data.ID,
		RequesterID:   data.RequesterID,
		Title:         data.Title,
		Description:   data.Description,
		Category:      data.Category,
		Quantity:      data.Quantity,
		Unit:          data.Unit,
		BudgetMin:     data.BudgetMin,
		BudgetMax:     data.BudgetMax,
		Currency:      data.Currency,
		TargetCountry: data.TargetCountry,
		Urgency:       string(data.Urgency),
		Status:        data.Status.String(),
		ExpiresAt:     data.ExpiresAt,
	}
}
