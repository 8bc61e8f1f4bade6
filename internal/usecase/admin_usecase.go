package usecase

import (
	"context"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/policy"

	"github.com/google/uuid"
)

// AdminLoginInput carries back-office credentials. The same shape serves both
// admins and sub-admins; the endpoint decides which table is consulted.
type AdminLoginInput struct {
	Username string
	Password string
}

// AdminLoginOutput returns the back-office session tokens. AssignedCountries
// is the grant snapshotted into the session at login; empty for full admins.
type AdminLoginOutput struct {
	AccessToken       string
	RefreshToken      string
	Role              entity.Role
	AssignedCountries []string
}

// ProfileListInput carries the back-office profile review filters.
type ProfileListInput struct {
	Status   string
	UserType entity.UserType
	Search   string
	Limit    int
	Offset   int
}

// CreateSubAdminInput carries the fields of a new sub-admin account.
type CreateSubAdminInput struct {
	Username          string
	Password          string
	Email             string
	FullName          string
	AssignedCountries []string
}

// AdminUsecase defines the back-office operations: moderation of trade
// profiles, sub-admin administration and the contact inbox. Every method
// except the logins takes the acting principal; scoping and role checks run
// against it, never against request parameters.
type AdminUsecase interface {
	AdminLogin(ctx context.Context, input *AdminLoginInput) (*AdminLoginOutput, error)
	SubAdminLogin(ctx context.Context, input *AdminLoginInput) (*AdminLoginOutput, error)

	// ListProfiles returns trade profiles visible to the principal. For a
	// sub-admin the result is restricted to the assigned countries.
	ListProfiles(ctx context.Context, p policy.Principal, input *ProfileListInput) ([]*entity.User, error)

	// DecideProfile moves a user's approval status. Approved and rejected
	// convert in both directions; deleted is admin-only and terminal.
	DecideProfile(ctx context.Context, p policy.Principal, userID uuid.UUID, to entity.ApprovalStatus) error

	CreateSubAdmin(ctx context.Context, p policy.Principal, input *CreateSubAdminInput) (*entity.SubAdminAccount, error)
	ListSubAdmins(ctx context.Context, p policy.Principal) ([]*entity.SubAdminAccount, error)

	// UpdateSubAdminCountries replaces a sub-admin's country grant. An empty
	// grant is legal and leaves the account with no visibility.
	UpdateSubAdminCountries(ctx context.Context, p policy.Principal, id uuid.UUID, countries []string) error
	SetSubAdminActive(ctx context.Context, p policy.Principal, id uuid.UUID, active bool) error

	ListContactMessages(ctx context.Context, p policy.Principal, unreadOnly bool, limit, offset int) ([]*entity.ContactMessage, error)
	MarkContactMessageRead(ctx context.Context, p policy.Principal, id uuid.UUID) error

	// ApproveCategory flips a category's approval flag.
	ApproveCategory(ctx context.Context, p policy.Principal, id uuid.UUID, approved bool) error
}
