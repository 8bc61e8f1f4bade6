// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"tradegate/internal/domain/entity"
	domainerrors "tradegate/internal/domain/errors"
	"tradegate/internal/domain/repository"
	"tradegate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain's UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID, preloading the trade profile.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Profile").
		Where("id = ?", id).
		First(&userM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading the trade profile.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Profile").
		Where("email = ?", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity, profile included. GORM's Create with
// associations inserts into users and profiles together.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	if user.Profile != nil && userM.Profile != nil {
		user.Profile.UserID = userM.Profile.UserID
		user.Profile.UpdatedAt = userM.Profile.UpdatedAt
	}

	return nil
}

// Update modifies a user's identity fields and the profile's descriptive
// fields. Approval status is deliberately omitted: lifecycle changes only go
// through UpdateApprovalStatusIf so the conditional predicate cannot be
// bypassed by a field edit.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	tx := repo.db.WithContext(ctx)
	if err := tx.Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"email": userM.Email,
			"name":  userM.Name,
		}).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	if userM.Profile != nil {
		if err := tx.Model(&model.ProfileModel{}).
			Where("user_id = ?", user.ID).
			Updates(map[string]any{
				"country":       userM.Profile.Country,
				"company_name":  userM.Profile.CompanyName,
				"phone":         userM.Profile.Phone,
				"contact_email": userM.Profile.ContactEmail,
			}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to update profile")
		}
	}

	return nil
}

// ListProfiles returns users whose profiles match the query for back-office views.
func (repo *userRepository) ListProfiles(ctx context.Context, q repository.ProfileQuery) ([]*entity.User, error) {
	tx := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Preload("Profile")

	tx = applyPolicyFilter(tx, q.Filter, "users.id", "profiles.country", "profiles.approval_status")

	if q.UserType != "" {
		tx = tx.Where("profiles.user_type = ?", q.UserType.String())
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("profiles.company_name ILIKE ? OR users.name ILIKE ?", pattern, pattern)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var models []*model.UserModel
	if err := tx.Order("users.created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list profiles")
	}

	users := make([]*entity.User, 0, len(models))
	for _, m := range models {
		users = append(users, toUserDomain(m))
	}

	return users, nil
}

// UpdateApprovalStatusIf conditionally moves a profile's approval status.
// The WHERE clause carries the expected current status, so two racing
// moderators cannot both win: the loser sees zero rows affected.
func (repo *userRepository) UpdateApprovalStatusIf(ctx context.Context, userID uuid.UUID, from, to entity.ApprovalStatus) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("user_id = ? AND approval_status = ?", userID, from.String()).
		Update("approval_status", to.String())
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to update approval status")
	}

	return result.RowsAffected, nil
}

// UpdateDeviceToken stores or clears the profile's push token.
func (repo *userRepository) UpdateDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("user_id = ?", userID).
		Update("device_token", token)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update device token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:        data.ID,
		Email:     data.Email,
		Name:      data.Name,
		Profile:   toProfileDomain(data.Profile),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:      data.ID,
		Email:   data.Email,
		Name:    data.Name,
		Profile: fromProfileDomain(data.Profile),
	}
}

// toProfileDomain converts a GORM ProfileModel to a domain Profile entity.
func toProfileDomain(data *model.ProfileModel) *entity.Profile {
	if data == nil {
		return nil
	}

	return &entity.Profile{
		UserID:         data.UserID,
		UserType:       entity.UserType(data.UserType),
		ApprovalStatus: entity.ApprovalStatus(data.ApprovalStatus),
		Country:        data.Country,
		CompanyName:    data.CompanyName,
		Phone:          data.Phone,
		ContactEmail:   data.ContactEmail,
		DeviceToken:    data.DeviceToken,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromProfileDomain converts a domain Profile entity to a GORM ProfileModel.
func fromProfileDomain(data *entity.Profile) *model.ProfileModel {
	if data == nil {
		return nil
	}

	return &model.ProfileModel{
		UserID:         data.UserID,
		UserType:       data.UserType.String(),
		ApprovalStatus: data.ApprovalStatus.String(),
		Country:        data.Country,
		CompanyName:    data.CompanyName,
		Phone:          data.Phone,
		ContactEmail:   data.ContactEmail,
		DeviceToken:    data.DeviceToken,
	}
}
