package policy

import (
	"testing"

	"tradegate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func profileIn(country string, status entity.ApprovalStatus) Resource {
	return Resource{Kind: ResourceProfile, OwnerID: uuid.New(), Country: country, Status: status.String()}
}

func TestCanTransitionProfile_AdminEdges(t *testing.T) {
	admin := adminPrincipal()
	r := profileIn("Brazil", entity.ApprovalPending)

	tests := []struct {
		name string
		from entity.ApprovalStatus
		to   entity.ApprovalStatus
		want bool
	}{
		{name: "pending to approved", from: entity.ApprovalPending, to: entity.ApprovalApproved, want: true},
		{name: "pending to rejected", from: entity.ApprovalPending, to: entity.ApprovalRejected, want: true},
		{name: "rejected to approved", from: entity.ApprovalRejected, to: entity.ApprovalApproved, want: true},
		{name: "approved to rejected", from: entity.ApprovalApproved, to: entity.ApprovalRejected, want: true},
		{name: "pending to deleted", from: entity.ApprovalPending, to: entity.ApprovalDeleted, want: true},
		{name: "approved to deleted", from: entity.ApprovalApproved, to: entity.ApprovalDeleted, want: true},
		{name: "rejected to deleted", from: entity.ApprovalRejected, to: entity.ApprovalDeleted, want: true},
		{name: "deleted is terminal", from: entity.ApprovalDeleted, to: entity.ApprovalApproved, want: false},
		{name: "approved back to pending does not exist", from: entity.ApprovalApproved, to: entity.ApprovalPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionProfile(admin, r, tt.from, tt.to))
		})
	}
}

func TestCanTransitionProfile_SubAdminScope(t *testing.T) {
	covering := subAdminPrincipal("BR")
	outside := subAdminPrincipal("IN")
	r := profileIn("Brazil", entity.ApprovalPending)

	assert.True(t, CanTransitionProfile(covering, r, entity.ApprovalPending, entity.ApprovalApproved))
	assert.True(t, CanTransitionProfile(covering, r, entity.ApprovalApproved, entity.ApprovalRejected))
	assert.False(t, CanTransitionProfile(outside, r, entity.ApprovalPending, entity.ApprovalApproved))

	// Deletion is reserved for full admins even inside the covered scope.
	assert.False(t, CanTransitionProfile(covering, r, entity.ApprovalPending, entity.ApprovalDeleted))
	assert.False(t, CanTransitionProfile(covering, r, entity.ApprovalApproved, entity.ApprovalDeleted))
}

func TestCanTransitionProfile_UserNever(t *testing.T) {
	ownerID := uuid.New()
	r := Resource{Kind: ResourceProfile, OwnerID: ownerID, Country: "Brazil", Status: entity.ApprovalPending.String()}

	assert.False(t, CanTransitionProfile(userPrincipal(ownerID), r, entity.ApprovalPending, entity.ApprovalApproved))
	assert.False(t, CanTransitionProfile(Anonymous(), r, entity.ApprovalPending, entity.ApprovalApproved))
}

func TestCanTransitionListing(t *testing.T) {
	ownerID := uuid.New()
	r := Resource{Kind: ResourceProduct, OwnerID: ownerID, Country: "Brazil", Status: entity.ListingActive.String()}

	assert.True(t, CanTransitionListing(userPrincipal(ownerID), r, entity.ListingActive, entity.ListingDone))
	assert.True(t, CanTransitionListing(userPrincipal(ownerID), r, entity.ListingActive, entity.ListingDeleted))
	assert.False(t, CanTransitionListing(userPrincipal(uuid.New()), r, entity.ListingActive, entity.ListingDone))

	assert.True(t, CanTransitionListing(adminPrincipal(), r, entity.ListingActive, entity.ListingDeleted))
	assert.True(t, CanTransitionListing(subAdminPrincipal("Brazil"), r, entity.ListingActive, entity.ListingDeleted))
	assert.False(t, CanTransitionListing(subAdminPrincipal("India"), r, entity.ListingActive, entity.ListingDeleted))

	// Done and deleted are terminal for every principal.
	assert.False(t, CanTransitionListing(adminPrincipal(), r, entity.ListingDone, entity.ListingActive))
	assert.False(t, CanTransitionListing(adminPrincipal(), r, entity.ListingDeleted, entity.ListingActive))
	assert.False(t, CanTransitionListing(adminPrincipal(), r, entity.ListingDone, entity.ListingDeleted))
}

func TestAuthorizeTransition_DistinguishesMissingEdgeFromDeniedPrincipal(t *testing.T) {
	ownerID := uuid.New()
	listing := Resource{Kind: ResourceProduct, OwnerID: ownerID, Country: "Brazil", Status: entity.ListingActive.String()}

	// An edge outside the lifecycle reports an invalid transition.
	err := AuthorizeTransition(adminPrincipal(), listing, entity.ListingDone.String(), entity.ListingActive.String())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// An existing edge the principal may not trigger reports forbidden.
	err = AuthorizeTransition(userPrincipal(uuid.New()), listing, entity.ListingActive.String(), entity.ListingDone.String())
	assert.ErrorIs(t, err, ErrForbidden)

	assert.NoError(t, AuthorizeTransition(userPrincipal(ownerID), listing, entity.ListingActive.String(), entity.ListingDone.String()))

	profile := profileIn("Brazil", entity.ApprovalPending)

	err = AuthorizeTransition(adminPrincipal(), profile, entity.ApprovalDeleted.String(), entity.ApprovalApproved.String())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = AuthorizeTransition(subAdminPrincipal("BR"), profile, entity.ApprovalPending.String(), entity.ApprovalDeleted.String())
	assert.ErrorIs(t, err, ErrForbidden)

	err = AuthorizeTransition(subAdminPrincipal("IN"), profile, entity.ApprovalPending.String(), entity.ApprovalApproved.String())
	assert.ErrorIs(t, err, ErrForbidden)

	assert.NoError(t, AuthorizeTransition(subAdminPrincipal("BR"), profile, entity.ApprovalPending.String(), entity.ApprovalApproved.String()))
}
