package entity

import (
	"time"

	"github.com/google/uuid"
)

// AdminAccount is a full administrator of the back office. Admin accounts
// are provisioned out of band, never through marketplace registration.
type AdminAccount struct {
	ID           uuid.UUID  // The unique identifier for the admin account.
	Username     string     // Unique login name.
	PasswordHash string     // bcrypt-hashed password.
	Email        string     // Contact email, optional.
	FullName     string     // Display name, optional.
	IsActive     bool       // Inactive admins cannot log in.
	LastLogin    *time.Time // Wall-clock time of the most recent successful login.
	CreatedAt    time.Time  // Timestamp of when this account was created.
	UpdatedAt    time.Time  // Timestamp of the last modification.
}

// SubAdminAccount is a country-scoped administrator. It records which admin
// created it and the countries it was granted at creation time; the grant may
// later be edited only by an admin. Deactivation revokes access without
// deleting history, but an already-issued session keeps its country snapshot
// until it expires.
type SubAdminAccount struct {
	ID                uuid.UUID  // The unique identifier for the sub-admin account.
	Username          string     // Unique login name.
	PasswordHash      string     // bcrypt-hashed password.
	Email             string     // Contact email, optional.
	FullName          string     // Display name, optional.
	CreatedBy         uuid.UUID  // The admin who created this grant.
	AssignedCountries []string   // Countries this sub-admin may administer, in name or code form. Empty means no visibility.
	IsActive          bool       // Inactive sub-admins cannot log in.
	LastLogin         *time.Time // Wall-clock time of the most recent successful login.
	CreatedAt         time.Time  // Timestamp of when this grant was created.
	UpdatedAt         time.Time  // Timestamp of the last modification.
}
