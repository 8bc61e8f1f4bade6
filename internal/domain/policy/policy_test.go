package policy

import (
	"testing"
	"time"

	"tradegate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userPrincipal(id uuid.UUID) Principal {
	return Principal{Kind: KindUser, ID: id, LoginTime: time.Now()}
}

func adminPrincipal() Principal {
	return Principal{Kind: KindAdmin, ID: uuid.New(), LoginTime: time.Now()}
}

func subAdminPrincipal(countries ...string) Principal {
	return Principal{Kind: KindSubAdmin, ID: uuid.New(), AssignedCountries: countries, LoginTime: time.Now()}
}

func TestPrincipal_Expired(t *testing.T) {
	now := time.Now()

	fresh := Principal{Kind: KindUser, ID: uuid.New(), LoginTime: now.Add(-23 * time.Hour)}
	assert.False(t, fresh.Expired(now))

	stale := Principal{Kind: KindUser, ID: uuid.New(), LoginTime: now.Add(-25 * time.Hour)}
	assert.True(t, stale.Expired(now))

	// Anonymous principals never expire; there is no session behind them.
	assert.False(t, Anonymous().Expired(now))
}

func TestPrincipal_Owns(t *testing.T) {
	ownerID := uuid.New()

	assert.True(t, userPrincipal(ownerID).Owns(ownerID))
	assert.False(t, userPrincipal(uuid.New()).Owns(ownerID))
	assert.False(t, adminPrincipal().Owns(ownerID))
	assert.False(t, Anonymous().Owns(uuid.Nil))
}

func TestCanRead_Listings(t *testing.T) {
	ownerID := uuid.New()

	active := Resource{Kind: ResourceProduct, OwnerID: ownerID, Country: "Brazil", Status: entity.ListingActive.String()}
	done := Resource{Kind: ResourceProduct, OwnerID: ownerID, Country: "Brazil", Status: entity.ListingDone.String()}

	// Active listings are the public catalog.
	assert.True(t, CanRead(Anonymous(), active))
	assert.True(t, CanRead(userPrincipal(uuid.New()), active))

	// Non-active listings stay visible to their owner only.
	assert.True(t, CanRead(userPrincipal(ownerID), done))
	assert.False(t, CanRead(userPrincipal(uuid.New()), done))
	assert.False(t, CanRead(Anonymous(), done))

	// Admins see everything; sub-admins see their countries, any status.
	assert.True(t, CanRead(adminPrincipal(), done))
	assert.True(t, CanRead(subAdminPrincipal("BR"), done))
	assert.False(t, CanRead(subAdminPrincipal("IN"), done))
	assert.False(t, CanRead(subAdminPrincipal("IN"), active))
}

func TestCanRead_Profiles(t *testing.T) {
	ownerID := uuid.New()
	profile := Resource{Kind: ResourceProfile, OwnerID: ownerID, Country: "India", Status: entity.ApprovalPending.String()}

	assert.True(t, CanRead(userPrincipal(ownerID), profile))
	assert.False(t, CanRead(userPrincipal(uuid.New()), profile))
	assert.False(t, CanRead(Anonymous(), profile))

	assert.True(t, CanRead(adminPrincipal(), profile))
	assert.True(t, CanRead(subAdminPrincipal("India"), profile))
	assert.True(t, CanRead(subAdminPrincipal("IN"), profile))
	assert.False(t, CanRead(subAdminPrincipal("BR"), profile))
	assert.False(t, CanRead(subAdminPrincipal(), profile))
}

func TestCanWrite_FieldEdit(t *testing.T) {
	ownerID := uuid.New()
	product := Resource{Kind: ResourceProduct, OwnerID: ownerID, Country: "Brazil", Status: entity.ListingActive.String()}

	assert.True(t, CanWrite(userPrincipal(ownerID), product, FieldEdit()))
	assert.True(t, CanWrite(adminPrincipal(), product, FieldEdit()))

	assert.False(t, CanWrite(userPrincipal(uuid.New()), product, FieldEdit()))
	// Sub-admins moderate lifecycles; they do not edit listing content.
	assert.False(t, CanWrite(subAdminPrincipal("BR"), product, FieldEdit()))
	assert.False(t, CanWrite(Anonymous(), product, FieldEdit()))
}

func TestCanCreateListing(t *testing.T) {
	userID := uuid.New()
	p := userPrincipal(userID)

	approved := &entity.Profile{UserID: userID, ApprovalStatus: entity.ApprovalApproved}
	require.NoError(t, CanCreateListing(p, approved))

	pending := &entity.Profile{UserID: userID, ApprovalStatus: entity.ApprovalPending}
	assert.ErrorIs(t, CanCreateListing(p, pending), ErrForbidden)

	rejected := &entity.Profile{UserID: userID, ApprovalStatus: entity.ApprovalRejected}
	assert.ErrorIs(t, CanCreateListing(p, rejected), ErrForbidden)

	assert.ErrorIs(t, CanCreateListing(p, nil), ErrForbidden)

	// A profile belonging to someone else never authorizes the principal.
	other := &entity.Profile{UserID: uuid.New(), ApprovalStatus: entity.ApprovalApproved}
	assert.ErrorIs(t, CanCreateListing(p, other), ErrForbidden)

	assert.ErrorIs(t, CanCreateListing(adminPrincipal(), approved), ErrForbidden)
}

func TestListFilter_Admin(t *testing.T) {
	f := ListFilter(adminPrincipal(), ResourceProfile)

	assert.False(t, f.DenyAll)
	assert.Empty(t, f.Statuses)
	assert.Empty(t, f.Countries)
	assert.Nil(t, f.OwnerID)
}

func TestListFilter_SubAdminEmptyGrantDeniesAll(t *testing.T) {
	f := ListFilter(subAdminPrincipal(), ResourceProfile)

	assert.True(t, f.DenyAll)
	assert.False(t, f.Matches(Resource{Kind: ResourceProfile, Country: "Brazil", Status: entity.ApprovalPending.String()}))

	// Widening never opens a denied filter.
	widened := f.WidenStatuses(entity.ApprovalApproved.String())
	assert.True(t, widened.DenyAll)
}

func TestListFilter_SubAdminDefaultsToWorkQueue(t *testing.T) {
	p := subAdminPrincipal("BR", "India")

	profiles := ListFilter(p, ResourceProfile)
	assert.Equal(t, []string{entity.ApprovalPending.String()}, profiles.Statuses)
	assert.ElementsMatch(t, []string{"BR", "Brazil", "India", "IN"}, profiles.Countries)

	listings := ListFilter(p, ResourceProduct)
	assert.Equal(t, []string{entity.ListingActive.String()}, listings.Statuses)
	assert.ElementsMatch(t, []string{"BR", "Brazil", "India", "IN"}, listings.Countries)
}

func TestListFilter_PublicCatalog(t *testing.T) {
	for _, p := range []Principal{Anonymous(), userPrincipal(uuid.New())} {
		f := ListFilter(p, ResourceProduct)
		assert.False(t, f.DenyAll)
		assert.Equal(t, []string{entity.ListingActive.String()}, f.Statuses)
		assert.Empty(t, f.Countries)
	}
}

func TestListFilter_UserProfileListIsOwnRecord(t *testing.T) {
	id := uuid.New()
	f := ListFilter(userPrincipal(id), ResourceProfile)

	require.NotNil(t, f.OwnerID)
	assert.Equal(t, id, *f.OwnerID)
}

func TestListFilter_AnonymousProfileListDeniesAll(t *testing.T) {
	assert.True(t, ListFilter(Anonymous(), ResourceProfile).DenyAll)
}

func TestWidenStatuses(t *testing.T) {
	sub := subAdminPrincipal("BR")

	f := ListFilter(sub, ResourceProfile).WidenStatuses(entity.ApprovalApproved.String(), entity.ApprovalRejected.String())
	assert.Equal(t, []string{entity.ApprovalApproved.String(), entity.ApprovalRejected.String()}, f.Statuses)
	// The country restriction is not negotiable.
	assert.ElementsMatch(t, []string{"BR", "Brazil"}, f.Countries)

	// Public filters ignore widening entirely.
	public := ListFilter(Anonymous(), ResourceProduct).WidenStatuses(entity.ListingDeleted.String())
	assert.Equal(t, []string{entity.ListingActive.String()}, public.Statuses)
}

func TestOwnListings(t *testing.T) {
	id := uuid.New()

	f := OwnListings(userPrincipal(id))
	require.NotNil(t, f.OwnerID)
	assert.Equal(t, id, *f.OwnerID)
	assert.Empty(t, f.Statuses)

	assert.True(t, OwnListings(adminPrincipal()).DenyAll)
	assert.True(t, OwnListings(Anonymous()).DenyAll)
}

func TestFilter_Matches(t *testing.T) {
	ownerID := uuid.New()
	r := Resource{Kind: ResourceProduct, OwnerID: ownerID, Country: "Brazil", Status: entity.ListingActive.String()}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "unrestricted", filter: Filter{}, want: true},
		{name: "deny all", filter: Filter{DenyAll: true}, want: false},
		{name: "status match", filter: Filter{Statuses: []string{entity.ListingActive.String()}}, want: true},
		{name: "status mismatch", filter: Filter{Statuses: []string{entity.ListingDone.String()}}, want: false},
		{name: "country match", filter: Filter{Countries: []string{"BR", "Brazil"}}, want: true},
		{name: "country mismatch", filter: Filter{Countries: []string{"IN", "India"}}, want: false},
		{name: "owner match", filter: Filter{OwnerID: &ownerID}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(r))
		})
	}

	otherID := uuid.New()
	assert.False(t, Filter{OwnerID: &otherID}.Matches(r))
}
