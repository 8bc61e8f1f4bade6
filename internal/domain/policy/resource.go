package policy

import (
	"tradegate/internal/domain/entity"

	"github.com/google/uuid"
)

// ResourceKind names the record families the policy engine rules over.
type ResourceKind string

const (
	// ResourceProfile is a user's trade profile with its approval lifecycle.
	ResourceProfile ResourceKind = "profile"
	// ResourceProduct is an exporter listing.
	ResourceProduct ResourceKind = "product"
	// ResourceRequest is a buyer sourcing request.
	ResourceRequest ResourceKind = "request"
)

// IsListing reports whether the kind shares the listing lifecycle.
func (k ResourceKind) IsListing() bool {
	return k == ResourceProduct || k == ResourceRequest
}

// Resource is the policy engine's view of a record: just the fields an
// authorization decision needs, detached from the full entity. Build one
// from a freshly fetched entity snapshot.
type Resource struct {
	Kind    ResourceKind
	OwnerID uuid.UUID
	// Country is the scoping field in either name or code form: the
	// profile's country, a product's origin, or a request's target.
	Country string
	// Status is the current lifecycle state: an ApprovalStatus for profiles,
	// a ListingStatus for listings.
	Status string
}

// ProfileResource builds the policy view of a trade profile.
func ProfileResource(p *entity.Profile) Resource {
	return Resource{
		Kind:    ResourceProfile,
		OwnerID: p.UserID,
		Country: p.Country,
		Status:  p.ApprovalStatus.String(),
	}
}

// ProductResource builds the policy view of a product listing.
func ProductResource(p *entity.Product) Resource {
	return Resource{
		Kind:    ResourceProduct,
		OwnerID: p.ExporterID,
		Country: p.CountryOrigin,
		Status:  p.Status.String(),
	}
}

// RequestResource builds the policy view of a product request.
func RequestResource(r *entity.ProductRequest) Resource {
	return Resource{
		Kind:    ResourceRequest,
		OwnerID: r.RequesterID,
		Country: r.TargetCountry,
		Status:  r.Status.String(),
	}
}
