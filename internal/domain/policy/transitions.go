package policy

import (
	"tradegate/internal/domain/entity"
)

// profileEdge identifies one approval lifecycle edge.
type profileEdge struct {
	from, to entity.ApprovalStatus
}

// allowProfile is the rule set for one edge.
type allowProfile struct {
	admin            bool
	coveringSubAdmin bool
}

// profileTransitions is the authoritative approval transition table. Any
// edge absent here does not exist; deleted is terminal.
var profileTransitions = map[profileEdge]allowProfile{
	{entity.ApprovalPending, entity.ApprovalApproved}:  {admin: true, coveringSubAdmin: true},
	{entity.ApprovalPending, entity.ApprovalRejected}:  {admin: true, coveringSubAdmin: true},
	{entity.ApprovalRejected, entity.ApprovalApproved}: {admin: true, coveringSubAdmin: true},
	{entity.ApprovalApproved, entity.ApprovalRejected}: {admin: true, coveringSubAdmin: true},
	{entity.ApprovalPending, entity.ApprovalDeleted}:   {admin: true},
	{entity.ApprovalApproved, entity.ApprovalDeleted}:  {admin: true},
	{entity.ApprovalRejected, entity.ApprovalDeleted}:  {admin: true},
}

// profileEdgeExists reports whether the edge is in the table at all,
// regardless of principal.
func profileEdgeExists(from, to entity.ApprovalStatus) bool {
	_, ok := profileTransitions[profileEdge{from, to}]

	return ok
}

// CanTransitionProfile reports whether the principal may move a profile from
// one approval status to another. The resource carries the profile's country
// for sub-admin coverage checks.
func CanTransitionProfile(p Principal, r Resource, from, to entity.ApprovalStatus) bool {
	rule, ok := profileTransitions[profileEdge{from, to}]
	if !ok {
		return false
	}

	switch p.Kind {
	case KindAdmin:
		return rule.admin
	case KindSubAdmin:
		return rule.coveringSubAdmin && p.Covers(r.Country)
	default:
		return false
	}
}

// CanTransitionListing reports whether the principal may move a listing from
// one status to another. Done and deleted are terminal for every principal.
func CanTransitionListing(p Principal, r Resource, from, to entity.ListingStatus) bool {
	if from != entity.ListingActive {
		return false
	}
	if to != entity.ListingDone && to != entity.ListingDeleted {
		return false
	}

	switch p.Kind {
	case KindAdmin:
		return true
	case KindSubAdmin:
		return p.Covers(r.Country)
	case KindUser:
		return p.Owns(r.OwnerID)
	default:
		return false
	}
}

// listingEdgeExists reports whether the listing edge is in the lifecycle at
// all, regardless of principal.
func listingEdgeExists(from, to entity.ListingStatus) bool {
	return from == entity.ListingActive &&
		(to == entity.ListingDone || to == entity.ListingDeleted)
}

// CanTransition is the kind-dispatching form of the transition check, with
// statuses in their string storage form.
func CanTransition(p Principal, r Resource, from, to string) bool {
	if r.Kind.IsListing() {
		return CanTransitionListing(p, r, entity.ListingStatus(from), entity.ListingStatus(to))
	}

	return CanTransitionProfile(p, r, entity.ApprovalStatus(from), entity.ApprovalStatus(to))
}

// AuthorizeTransition renders a denied transition as an error: an edge that
// does not exist in the lifecycle reports ErrInvalidTransition, an existing
// edge the principal may not trigger reports ErrForbidden. A denied
// transition is a no-op for the caller; it must never partially apply.
func AuthorizeTransition(p Principal, r Resource, from, to string) error {
	if CanTransition(p, r, from, to) {
		return nil
	}

	var exists bool
	if r.Kind.IsListing() {
		exists = listingEdgeExists(entity.ListingStatus(from), entity.ListingStatus(to))
	} else {
		exists = profileEdgeExists(entity.ApprovalStatus(from), entity.ApprovalStatus(to))
	}
	if !exists {
		return ErrInvalidTransition
	}

	return ErrForbidden
}
