package postgres

import (
	"context"
	"time"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/repository"
	"tradegate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// adminRepository implements the domain's AdminRepository interface using GORM.
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository is the constructor for adminRepository.
func NewAdminRepository(db *gorm.DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

// FindAdminByUsername retrieves an admin account by its unique username.
func (repo *adminRepository) FindAdminByUsername(ctx context.Context, username string) (*entity.AdminAccount, error) {
	var adminM model.AdminAccountModel
	err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		First(&adminM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAdminNotFound
		}

		return nil, errors.Wrap(err, "failed to find admin by username")
	}

	return toAdminDomain(&adminM), nil
}

// FindSubAdminByID retrieves a sub-admin account by its unique ID.
func (repo *adminRepository) FindSubAdminByID(ctx context.Context, id uuid.UUID) (*entity.SubAdminAccount, error) {
	var subAdminM model.SubAdminAccountModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&subAdminM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAdminNotFound
		}

		return nil, errors.Wrap(err, "failed to find sub-admin by id")
	}

	return toSubAdminDomain(&subAdminM), nil
}

// FindSubAdminByUsername retrieves a sub-admin account by its unique username.
func (repo *adminRepository) FindSubAdminByUsername(ctx context.Context, username string) (*entity.SubAdminAccount, error) {
	var subAdminM model.SubAdminAccountModel
	err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		First(&subAdminM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAdminNotFound
		}

		return nil, errors.Wrap(err, "failed to find sub-admin by username")
	}

	return toSubAdminDomain(&subAdminM), nil
}

// CreateSubAdmin persists a new sub-admin grant.
func (repo *adminRepository) CreateSubAdmin(ctx context.Context, subAdmin *entity.SubAdminAccount) error {
	subAdminM := &model.SubAdminAccountModel{
		ID:                subAdmin.ID,
		Username:          subAdmin.Username,
		PasswordHash:      subAdmin.PasswordHash,
		Email:             subAdmin.Email,
		FullName:          subAdmin.FullName,
		CreatedBy:         subAdmin.CreatedBy,
		AssignedCountries: subAdmin.AssignedCountries,
		IsActive:          subAdmin.IsActive,
	}

	if err := repo.db.WithContext(ctx).Create(subAdminM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrAdminExists
		}

		return errors.Wrap(err, "failed to create sub-admin")
	}

	subAdmin.ID = subAdminM.ID
	subAdmin.CreatedAt = subAdminM.CreatedAt
	subAdmin.UpdatedAt = subAdminM.UpdatedAt

	return nil
}

// ListSubAdmins returns every sub-admin grant, active or not, newest first.
func (repo *adminRepository) ListSubAdmins(ctx context.Context) ([]*entity.SubAdminAccount, error) {
	var models []*model.SubAdminAccountModel
	err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sub-admins")
	}

	subAdmins := make([]*entity.SubAdminAccount, 0, len(models))
	for _, m := range models {
		subAdmins = append(subAdmins, toSubAdminDomain(m))
	}

	return subAdmins, nil
}

// UpdateSubAdminCountries replaces a sub-admin's assigned country set.
// Existing sessions keep the snapshot they were issued with; the new grant
// applies from the next login.
func (repo *adminRepository) UpdateSubAdminCountries(ctx context.Context, id uuid.UUID, countries []string) error {
	// Select forces the write even for an empty grant and routes the value
	// through the JSONB serializer.
	result := repo.db.WithContext(ctx).
		Model(&model.SubAdminAccountModel{}).
		Where("id = ?", id).
		Select("assigned_countries").
		Updates(&model.SubAdminAccountModel{AssignedCountries: countries})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update sub-admin countries")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAdminNotFound
	}

	return nil
}

// SetSubAdminActive activates or revokes a sub-admin without deleting history.
func (repo *adminRepository) SetSubAdminActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SubAdminAccountModel{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update sub-admin active flag")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAdminNotFound
	}

	return nil
}

// TouchAdminLogin records a successful admin login time.
func (repo *adminRepository) TouchAdminLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := repo.db.WithContext(ctx).
		Model(&model.AdminAccountModel{}).
		Where("id = ?", id).
		Update("last_login", at).Error
	if err != nil {
		return errors.Wrap(err, "failed to record admin login")
	}

	return nil
}

// TouchSubAdminLogin records a successful sub-admin login time.
func (repo *adminRepository) TouchSubAdminLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := repo.db.WithContext(ctx).
		Model(&model.SubAdminAccountModel{}).
		Where("id = ?", id).
		Update("last_login", at).Error
	if err != nil {
		return errors.Wrap(err, "failed to record sub-admin login")
	}

	return nil
}

// --- Mapper Functions ---

// toAdminDomain converts a GORM AdminAccountModel to a domain AdminAccount entity.
func toAdminDomain(data *model.AdminAccountModel) *entity.AdminAccount {
	if data == nil {
		return nil
	}

	return &entity.AdminAccount{
		ID:           data.ID,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		Email:        data.Email,
		FullName:     data.FullName,
		IsActive:     data.IsActive,
		LastLogin:    data.LastLogin,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// toSubAdminDomain converts a GORM SubAdminAccountModel to a domain SubAdminAccount entity.
func toSubAdminDomain(data *model.SubAdminAccountModel) *entity.SubAdminAccount {
	if data == nil {
		return nil
	}

	return &entity.SubAdminAccount{
		ID:                data.ID,
		Username:          data.Username,
		PasswordHash:      data.PasswordHash,
		Email:             data.Email,
		FullName:          data.FullName,
		CreatedBy:         data.CreatedBy,
		AssignedCountries: data.AssignedCountries,
		IsActive:          data.IsActive,
		LastLogin:         data.LastLogin,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}
