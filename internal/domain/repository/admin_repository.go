// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"tradegate/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for back-office account persistence.
var (
	// ErrAdminNotFound is returned when an admin or sub-admin account is not found.
	ErrAdminNotFound = errors.New("admin account not found")
	// ErrAdminExists is returned when an admin or sub-admin username is already taken.
	ErrAdminExists = errors.New("admin username already exists")
)

// AdminRepository defines the standard operations for admin and sub-admin
// account persistence. Sub-admin records double as the country grant: they
// carry who created them and the assigned country set.
type AdminRepository interface {
	// FindAdminByUsername retrieves an admin account by its unique username.
	FindAdminByUsername(ctx context.Context, username string) (*entity.AdminAccount, error)

	// FindSubAdminByID retrieves a sub-admin account by its unique ID.
	FindSubAdminByID(ctx context.Context, id uuid.UUID) (*entity.SubAdminAccount, error)

	// FindSubAdminByUsername retrieves a sub-admin account by its unique username.
	FindSubAdminByUsername(ctx context.Context, username string) (*entity.SubAdminAccount, error)

	// CreateSubAdmin persists a new sub-admin grant. A duplicate username
	// reports ErrAdminExists.
	CreateSubAdmin(ctx context.Context, subAdmin *entity.SubAdminAccount) error

	// ListSubAdmins returns every sub-admin grant, active or not.
	ListSubAdmins(ctx context.Context) ([]*entity.SubAdminAccount, error)

	// UpdateSubAdminCountries replaces a sub-admin's assigned country set.
	UpdateSubAdminCountries(ctx context.Context, id uuid.UUID, countries []string) error

	// SetSubAdminActive activates or revokes a sub-admin without deleting
	// its history.
	SetSubAdminActive(ctx context.Context, id uuid.UUID, active bool) error

	// TouchAdminLogin records a successful admin login time.
	TouchAdminLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// TouchSubAdminLogin records a successful sub-admin login time.
	TouchSubAdminLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
