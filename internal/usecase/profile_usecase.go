package usecase

import (
	"context"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/policy"
)

// UpdateProfileInput carries the editable profile fields. Approval status is
// deliberately absent; only the back office moves it.
type UpdateProfileInput struct {
	Name         string
	Country      string
	CompanyName  string
	Phone        string
	ContactEmail string
}

// ProfileUsecase defines the interface for a user's own profile operations.
type ProfileUsecase interface {
	// GetOwnProfile returns the principal's account with its trade profile.
	GetOwnProfile(ctx context.Context, p policy.Principal) (*entity.User, error)

	// UpdateOwnProfile edits the principal's profile fields.
	UpdateOwnProfile(ctx context.Context, p policy.Principal, input *UpdateProfileInput) (*entity.User, error)

	// UpdateDeviceToken stores or clears the principal's push token.
	UpdateDeviceToken(ctx context.Context, p policy.Principal, token string) error
}
