package policy

import (
	"tradegate/internal/domain/country"
	"tradegate/internal/domain/entity"

	"github.com/google/uuid"
)

// CanRead decides read access for a single record snapshot. Callers that
// receive false must present the record as not found, never as forbidden, so
// existence does not leak across country or ownership boundaries.
func CanRead(p Principal, r Resource) bool {
	switch p.Kind {
	case KindAdmin:
		return true
	case KindSubAdmin:
		// Country scope is absolute for sub-admins, regardless of status.
		return p.Covers(r.Country)
	}

	if r.Kind.IsListing() {
		// The public catalog: active listings are readable by anyone.
		if r.Status == entity.ListingActive.String() {
			return true
		}
		// Owners keep sight of their own non-active listings.
		return p.Owns(r.OwnerID)
	}

	// Profiles are visible only to their owner outside the back office.
	return p.Owns(r.OwnerID)
}

// Change describes a write intent. A zero Change is a plain field edit;
// setting FromStatus/ToStatus makes it a lifecycle transition.
type Change struct {
	FromStatus string
	ToStatus   string
}

// FieldEdit builds the change describing a non-status mutation.
func FieldEdit() Change {
	return Change{}
}

// StatusChange builds the change describing a lifecycle transition.
func StatusChange(from, to string) Change {
	return Change{FromStatus: from, ToStatus: to}
}

// isTransition reports whether the change carries a lifecycle edge.
func (ch Change) isTransition() bool {
	return ch.FromStatus != "" || ch.ToStatus != ""
}

// CanWrite decides mutation access for a single record snapshot. Status
// changes defer to the transition table; non-status field edits are allowed
// only to the owning principal or an admin.
func CanWrite(p Principal, r Resource, ch Change) bool {
	if ch.isTransition() {
		return CanTransition(p, r, ch.FromStatus, ch.ToStatus)
	}

	return p.Kind == KindAdmin || p.Owns(r.OwnerID)
}

// CanCreateListing gates listing creation: the principal must be a user and
// must own an approved profile. The profile snapshot must be fetched at
// write time, inside the creating transaction — approval can be revoked
// between page load and submission, and a stale read-time check must never
// be trusted as enforcement.
func CanCreateListing(p Principal, ownerProfile *entity.Profile) error {
	if p.Kind != KindUser {
		return ErrForbidden
	}
	if ownerProfile == nil || ownerProfile.UserID != p.ID {
		return ErrForbidden
	}
	if ownerProfile.ApprovalStatus != entity.ApprovalApproved {
		return ErrForbidden
	}

	return nil
}

// Filter is the enforcement boundary for list operations: a pure value
// derived from (principal, kind) that repositories AND with caller-supplied
// search filters. Client parameters can narrow it, never bypass it.
type Filter struct {
	// DenyAll short-circuits the query to an empty result.
	DenyAll bool
	// Statuses restricts the visible lifecycle states. Empty means
	// unrestricted.
	Statuses []string
	// Countries restricts the scoping field to this variant-expanded set.
	// Empty means unrestricted. Widening never touches it.
	Countries []string
	// OwnerID pins results to a single owning user when set.
	OwnerID *uuid.UUID

	widenable bool
}

// ListFilter derives the visibility predicate for list views of the given
// resource kind. Sub-admin views default to the work queue (pending profiles,
// active listings) and may be widened; the country restriction is not
// negotiable.
func ListFilter(p Principal, kind ResourceKind) Filter {
	switch p.Kind {
	case KindAdmin:
		return Filter{widenable: true}
	case KindSubAdmin:
		if len(p.AssignedCountries) == 0 {
			// Fail closed: an empty grant is no visibility, not all.
			return Filter{DenyAll: true}
		}
		f := Filter{
			Countries: country.ExpandVariants(p.AssignedCountries),
			widenable: true,
		}
		if kind.IsListing() {
			f.Statuses = []string{entity.ListingActive.String()}
		} else {
			f.Statuses = []string{entity.ApprovalPending.String()}
		}

		return f
	}

	if kind.IsListing() {
		// The public catalog: everyone sees active listings.
		return Filter{Statuses: []string{entity.ListingActive.String()}}
	}

	// Profile lists outside the back office are the principal's own record.
	if p.Kind == KindUser {
		id := p.ID

		return Filter{OwnerID: &id}
	}

	return Filter{DenyAll: true}
}

// OwnListings is the filter for a user's own dashboard: their listings in
// every state.
func OwnListings(p Principal) Filter {
	if p.Kind != KindUser {
		return Filter{DenyAll: true}
	}
	id := p.ID

	return Filter{OwnerID: &id}
}

// WidenStatuses replaces the status restriction for principals whose views
// allow it (admins and sub-admins). The country restriction survives
// unchanged; for everyone else the filter is returned as is.
func (f Filter) WidenStatuses(statuses ...string) Filter {
	if !f.widenable || f.DenyAll {
		return f
	}
	f.Statuses = statuses

	return f
}

// Matches is the predicate form of the filter, used for in-memory checks.
// Repositories translate the same fields into query conditions.
func (f Filter) Matches(r Resource) bool {
	if f.DenyAll {
		return false
	}
	if f.OwnerID != nil && r.OwnerID != *f.OwnerID {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, r.Status) {
		return false
	}
	if len(f.Countries) > 0 && !contains(f.Countries, r.Country) {
		return false
	}

	return true
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}

	return false
}
