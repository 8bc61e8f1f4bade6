// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies how a credential authenticates.
type ProviderType string

const (
	// ProviderTypeEmail is the classic email/password credential.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle is a linked Google account verified via ID token.
	ProviderTypeGoogle ProviderType = "google"
)

// String returns the string representation of the ProviderType.
func (p ProviderType) String() string {
	return string(p)
}

// Authentication represents a single method of logging in (a credential).
// A user's email/password is one record, while a linked Google account is
// another; both resolve to the same User.
type Authentication struct {
	ID             uuid.UUID    // The unique ID for this specific authentication record itself.
	UserID         uuid.UUID    // Links this authentication method to the User it belongs to.
	Provider       ProviderType // The authentication provider.
	ProviderUserID string       // The user's unique ID at the provider (the email itself, or Google's 'sub' claim).
	PasswordHash   string       // Stores the bcrypt-hashed password, only used when the Provider is email.
	CreatedAt      time.Time    // Timestamp of when this authentication method was linked to the account.
}

// RefreshToken represents a long-lived, authorized user session. It is used
// to obtain a new access token after the old one expires, without requiring
// credentials. Sessions expire absolutely 24 hours after login regardless of
// activity.
type RefreshToken struct {
	ID                uuid.UUID // The unique ID for this specific refresh token record.
	UserID            uuid.UUID // Links this session to the User it belongs to.
	TokenHash         string    // SHA-256 hash of the raw refresh token for secure comparison in the database.
	LoginTime         time.Time // Wall-clock time of the login that opened this session. The 24h absolute cutoff is measured from here.
	AssignedCountries []string  // Country grant snapshotted at login for sub-admin sessions; nil for every other role.
	ExpiresAt         time.Time // The exact time when this refresh token becomes invalid.
	CreatedAt         time.Time // Timestamp of when this session was created.
}
