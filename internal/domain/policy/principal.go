// Package policy is the authorization core of the marketplace. It decides,
// for a resolved principal and a snapshot of a record, whether the principal
// may see it, edit it, or move it through its lifecycle. Policy functions are
// pure: they never touch storage or ambient session state, and every caller
// passes the principal explicitly.
package policy

import (
	"errors"
	"time"

	"tradegate/internal/domain/country"

	"github.com/google/uuid"
)

// Resolution and authorization errors. Resolution errors describe why a
// credential could not produce a principal; ErrForbidden and
// ErrInvalidTransition describe denied operations.
var (
	// ErrCredentialMissing means no credential was presented.
	ErrCredentialMissing = errors.New("credential missing")
	// ErrCredentialMalformed means the credential failed structural parsing.
	// Callers must treat the request as unauthenticated, not retry.
	ErrCredentialMalformed = errors.New("credential malformed")
	// ErrCredentialExpired means the login is older than MaxSessionAge.
	// Callers must also invalidate the stored credential as a side effect.
	ErrCredentialExpired = errors.New("credential expired")
	// ErrForbidden means the principal is not allowed to perform the
	// operation on a record it can see.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition means the requested lifecycle edge does not exist.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// MaxSessionAge is the absolute session lifetime, measured wall-clock from
// login time and independent of activity.
const MaxSessionAge = 24 * time.Hour

// Kind classifies the acting identity of an authorization decision.
type Kind string

const (
	// KindAnonymous is an unauthenticated visitor.
	KindAnonymous Kind = "anonymous"
	// KindUser is an authenticated marketplace account (buyer or exporter).
	KindUser Kind = "user"
	// KindAdmin is a full administrator.
	KindAdmin Kind = "admin"
	// KindSubAdmin is a country-scoped administrator.
	KindSubAdmin Kind = "subadmin"
)

// Principal is the acting identity for an authorization decision. It is
// constructed once per request from the session credential and immutable for
// the request's duration.
type Principal struct {
	Kind Kind
	// ID is the acting account's identifier. Zero for anonymous visitors.
	ID uuid.UUID
	// AssignedCountries is populated only for sub-admins, snapshotted at
	// login time. An empty set means no visibility, not all visibility.
	AssignedCountries []string
	// LoginTime is when the session was opened. The MaxSessionAge cutoff is
	// measured from here.
	LoginTime time.Time
}

// Anonymous returns the principal used for unauthenticated requests.
func Anonymous() Principal {
	return Principal{Kind: KindAnonymous}
}

// Expired reports whether the principal's session has passed the absolute
// cutoff at the given instant.
func (p Principal) Expired(now time.Time) bool {
	if p.Kind == KindAnonymous {
		return false
	}

	return now.Sub(p.LoginTime) > MaxSessionAge
}

// Covers reports whether the principal's administrative scope includes the
// given country field value, reconciling name and code storage forms. Admins
// cover everything; sub-admins cover their assigned set; everyone else
// covers nothing.
func (p Principal) Covers(fieldValue string) bool {
	switch p.Kind {
	case KindAdmin:
		return true
	case KindSubAdmin:
		return country.IsCovered(fieldValue, p.AssignedCountries)
	default:
		return false
	}
}

// Owns reports whether the principal is the owning user of a record.
func (p Principal) Owns(ownerID uuid.UUID) bool {
	return p.Kind == KindUser && p.ID != uuid.Nil && p.ID == ownerID
}
