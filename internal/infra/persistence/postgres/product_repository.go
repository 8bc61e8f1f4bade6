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

// productRepository implements the domain's ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// Create persists a new product, gallery images included.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid exporter reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// FindByID retrieves a single product by its unique ID, any status, with its gallery.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("id = ?", id).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// List returns products matching the query. The policy filter is applied
// first; search parameters only narrow it further.
func (repo *productRepository) List(ctx context.Context, q repository.ListingQuery) ([]*entity.Product, error) {
	tx := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		})

	tx = applyPolicyFilter(tx, q.Filter, "exporter_id", "country_origin", "status")

	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Country != "" {
		// Match both storage forms: "BR" also finds rows stored as "Brazil".
		tx = tx.Where("country_origin IN ?", country.Variants(q.Country))
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var models []*model.ProductModel
	if err := tx.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(models))
	for _, m := range models {
		products = append(products, toProductDomain(m))
	}

	return products, nil
}

// Update modifies a product's descriptive fields. Status is deliberately
// excluded; lifecycle changes only go through UpdateStatusIf.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":           product.Name,
			"description":    product.Description,
			"category":       product.Category,
			"price":          product.Price,
			"currency":       product.Currency,
			"quantity":       product.Quantity,
			"unit":           product.Unit,
			"country_origin": product.CountryOrigin,
			"image_url":      product.ImageURL,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrListingNotFound
	}

	return nil
}

// UpdateStatusIf conditionally moves a product's status. The expected current
// status rides in the WHERE clause, so a concurrent transition makes this a
// zero-row update instead of a silent overwrite.
func (repo *productRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.ListingStatus) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Update("status", to.String())
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to update product status")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	images := make([]*entity.ProductImage, 0, len(data.Images))
	for _, img := range data.Images {
		images = append(images, &entity.ProductImage{
			ID:           img.ID,
			ProductID:    img.ProductID,
			ImageURL:     img.ImageURL,
			IsPrimary:    img.IsPrimary,
			DisplayOrder: img.DisplayOrder,
			CreatedAt:    img.CreatedAt,
		})
	}

	return &entity.Product{
		ID:            data.ID,
		ExporterID:    data.ExporterID,
		Name:          data.Name,
		Description:   data.Description,
		Category:      data.Category,
		Price:         data.Price,
		Currency:      data.Currency,
		Quantity:      data.Quantity,
		Unit:          data.Unit,
		CountryOrigin: data.CountryOrigin,
		ImageURL:      data.ImageURL,
		Images:        images,
		Status:        entity.ListingStatus(data.Status),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	images := make([]model.ProductImageModel, 0, len(data.Images))
	for _, img := range data.Images {
		images = append(images, model.ProductImageModel{
			ID:           img.ID,
			ProductID:    img.ProductID,
			ImageURL:     img.ImageURL,
			IsPrimary:    img.IsPrimary,
			DisplayOrder: img.DisplayOrder,
		})
	}

	return &model.ProductModel{
		ID:            data.ID,
		ExporterID:    data.ExporterID,
		Name:          data.Name,
		Description:   data.Description,
		Category:      data.Category,
		Price:         data.Price,
		Currency:      data.Currency,
		Quantity:      data.Quantity,
		Unit:          data.Unit,
		CountryOrigin: data.CountryOrigin,
		ImageURL:      data.ImageURL,
		Status:        data.Status.String(),
		Images:        images,
	}
}
