package postgres

import (
	"context"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/repository"
	"tradegate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// categoryRepository implements the domain's CategoryRepository interface using GORM.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository is the constructor for categoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

// Create persists a new category. Duplicate names report ErrCategoryExists.
func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryM := &model.CategoryModel{
		ID:         category.ID,
		Name:       category.Name,
		CreatedBy:  category.CreatedBy,
		IsApproved: category.IsApproved,
	}

	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrCategoryExists
		}

		return errors.Wrap(err, "failed to create category")
	}

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

// List returns categories ordered by name, optionally approved only.
func (repo *categoryRepository) List(ctx context.Context, approvedOnly bool) ([]*entity.Category, error) {
	tx := repo.db.WithContext(ctx).Model(&model.CategoryModel{})
	if approvedOnly {
		tx = tx.Where("is_approved = ?", true)
	}

	var models []*model.CategoryModel
	if err := tx.Order("name ASC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, &entity.Category{
			ID:         m.ID,
			Name:       m.Name,
			CreatedBy:  m.CreatedBy,
			IsApproved: m.IsApproved,
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
		})
	}

	return categories, nil
}

// SetApproved flips a category's approval flag.
func (repo *categoryRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update category approval")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}
