// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity, representing a unique registered identity.
// It carries only the identity information shared by every account; the trade
// profile (buyer or exporter) lives in the attached Profile.
type User struct {
	ID        uuid.UUID // The unique identifier for the account.
	Email     string    // The account's primary contact email, used as the login identifier.
	Name      string    // The account holder's display name.
	Profile   *Profile  // The trade profile. Nil until the account completes marketplace registration.
	CreatedAt time.Time // Timestamp of when this account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this account.
}

// Profile holds the marketplace-facing data of an account. Exactly one
// profile exists per registered user; its ApprovalStatus gates whether the
// account may create listings.
type Profile struct {
	UserID         uuid.UUID      // Foreign key linking this profile to its User. Immutable after creation.
	UserType       UserType       // Whether the account trades as a buyer or an exporter.
	ApprovalStatus ApprovalStatus // Lifecycle state. New profiles always start ApprovalPending.
	Country        string         // Country of the company. Stored as either a name ("Brazil") or a code ("BR"); both forms are equivalent.
	CompanyName    string         // Registered company name.
	Phone          string         // Contact phone number.
	ContactEmail   string         // Business contact email, may differ from the login email.
	DeviceToken    string         // Optional push token for approval notifications. Empty when no device is registered.
	UpdatedAt      time.Time      // Timestamp of the last modification to this profile.
}

// UserType distinguishes the two trading roles on the marketplace.
type UserType string

const (
	// UserTypeBuyer marks an account sourcing goods.
	UserTypeBuyer UserType = "buyer"
	// UserTypeExporter marks an account offering goods.
	UserTypeExporter UserType = "exporter"
)

// String returns the string representation of the UserType.
func (t UserType) String() string {
	return string(t)
}

// IsValid checks if the UserType is a valid value.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeBuyer, UserTypeExporter:
		return true
	default:
		return false
	}
}
