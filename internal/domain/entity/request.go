package entity

import (
	"time"

	"github.com/google/uuid"
)

// Urgency expresses how quickly a buyer needs a product request fulfilled.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// IsValid checks if the Urgency is a valid value.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return true
	default:
		return false
	}
}

// ProductRequest is a buyer's sourcing request. It shares the listing
// lifecycle with Product but scopes by target country instead of origin.
type ProductRequest struct {
	ID            uuid.UUID     // The unique identifier for the request.
	RequesterID   uuid.UUID     // The owning user.
	Title         string        // Short headline of what is being sourced.
	Description   string        // Detailed requirements.
	Category      string        // Category name, matched against approved categories.
	Quantity      int           // Desired quantity in Unit.
	Unit          string        // Measurement unit.
	BudgetMin     float64       // Lower bound of the budget range, in Currency. Zero when open.
	BudgetMax     float64       // Upper bound of the budget range, in Currency. Zero when open.
	Currency      string        // ISO currency code for the budget.
	TargetCountry string        // Country the goods should come from, stored as either name or code form.
	Urgency       Urgency       // Fulfilment urgency.
	Status        ListingStatus // Lifecycle state. New requests start ListingActive.
	ExpiresAt     *time.Time    // Optional date after which the request is no longer relevant.
	CreatedAt     time.Time     // Timestamp of when this request was created.
	UpdatedAt     time.Time     // Timestamp of the last modification to this request.
}
