package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApprovalStatus_IsValid(t *testing.T) {
	assert.True(t, ApprovalPending.IsValid())
	assert.True(t, ApprovalApproved.IsValid())
	assert.True(t, ApprovalRejected.IsValid())
	assert.True(t, ApprovalDeleted.IsValid())
	assert.False(t, ApprovalStatus("archived").IsValid())
	assert.False(t, ApprovalStatus("").IsValid())
}

func TestApprovalStatus_IsTerminal(t *testing.T) {
	// Rejected is recoverable; only deleted ends the lifecycle.
	assert.False(t, ApprovalRejected.IsTerminal())
	assert.False(t, ApprovalPending.IsTerminal())
	assert.False(t, ApprovalApproved.IsTerminal())
	assert.True(t, ApprovalDeleted.IsTerminal())
}

func TestListingStatus_IsValid(t *testing.T) {
	assert.True(t, ListingActive.IsValid())
	assert.True(t, ListingDone.IsValid())
	assert.True(t, ListingDeleted.IsValid())
	assert.False(t, ListingStatus("paused").IsValid())
}

func TestListingStatus_IsTerminal(t *testing.T) {
	assert.False(t, ListingActive.IsTerminal())
	assert.True(t, ListingDone.IsTerminal())
	assert.True(t, ListingDeleted.IsTerminal())
}

func TestUserType_IsValid(t *testing.T) {
	assert.True(t, UserTypeBuyer.IsValid())
	assert.True(t, UserTypeExporter.IsValid())
	assert.False(t, UserType("broker").IsValid())
}
