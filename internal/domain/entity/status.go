package entity

// ApprovalStatus is the lifecycle state of a Profile. It gates whether the
// owning user may create listings and which back-office views surface the
// profile.
type ApprovalStatus string

const (
	// ApprovalPending is the initial state of every new profile.
	ApprovalPending ApprovalStatus = "pending"
	// ApprovalApproved unlocks listing creation for the owning user.
	ApprovalApproved ApprovalStatus = "approved"
	// ApprovalRejected blocks listing creation but may still be approved later.
	ApprovalRejected ApprovalStatus = "rejected"
	// ApprovalDeleted is terminal. No transition leaves it.
	ApprovalDeleted ApprovalStatus = "deleted"
)

// String returns the string representation of the ApprovalStatus.
func (s ApprovalStatus) String() string {
	return string(s)
}

// IsValid checks if the ApprovalStatus is a valid value.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalDeleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition may leave this status.
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalDeleted
}

// ListingStatus is the lifecycle state shared by products and product
// requests.
type ListingStatus string

const (
	// ListingActive is the initial state of every new listing and the only
	// state visible in the public catalog.
	ListingActive ListingStatus = "active"
	// ListingDone marks a fulfilled listing. Terminal.
	ListingDone ListingStatus = "done"
	// ListingDeleted marks a removed listing. Terminal.
	ListingDeleted ListingStatus = "deleted"
)

// String returns the string representation of the ListingStatus.
func (s ListingStatus) String() string {
	return string(s)
}

// IsValid checks if the ListingStatus is a valid value.
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingActive, ListingDone, ListingDeleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition may leave this status.
// There is no resurrection path out of done or deleted.
func (s ListingStatus) IsTerminal() bool {
	return s == ListingDone || s == ListingDeleted
}
