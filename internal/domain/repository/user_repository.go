// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/policy"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ProfileQuery narrows a back-office profile listing. The Filter is the
// policy enforcement boundary; the remaining fields are caller-supplied
// search parameters combined with AND semantics.
type ProfileQuery struct {
	Filter policy.Filter
	// UserType restricts to buyer or exporter profiles when set.
	UserType entity.UserType
	// Search matches against company name and account name when set.
	Search string
	Limit  int
	Offset int
}

// UserRepository defines the standard operations for user and profile
// persistence. The application layer depends on this interface, not the
// concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID, profile included.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity, profile included, to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage. Approval
	// status is never written through this path; use
	// UpdateApprovalStatusIf for lifecycle changes.
	Update(ctx context.Context, user *entity.User) error

	// ListProfiles returns users whose profiles match the query, for
	// back-office views.
	ListProfiles(ctx context.Context, q ProfileQuery) ([]*entity.User, error)

	// UpdateApprovalStatusIf conditionally moves a profile's approval
	// status: the update applies only while the stored status equals from.
	// It returns the number of rows affected; zero means the expected
	// predicate no longer matched and the caller decides whether the
	// transition already happened.
	UpdateApprovalStatusIf(ctx context.Context, userID uuid.UUID, from, to entity.ApprovalStatus) (int64, error)

	// UpdateDeviceToken stores or clears the profile's push token.
	UpdateDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
}
