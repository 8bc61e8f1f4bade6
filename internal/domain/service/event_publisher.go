package service

import (
	"context"
	"time"
)

// Marketplace event types published on lifecycle changes.
const (
	EventUserRegistered = "user.registered"
	EventUserApproved   = "user.approved"
	EventUserRejected   = "user.rejected"
	EventUserDeleted    = "user.deleted"
	EventListingCreated = "listing.created"
	EventListingDone    = "listing.done"
	EventListingDeleted = "listing.deleted"
)

// MarketplaceEvent is the integration event emitted when a profile or
// listing changes state. Downstream consumers (audit trails, mail,
// analytics) subscribe to these instead of polling the database.
type MarketplaceEvent struct {
	RequestID   string    `json:"request_id,omitempty"` // For distributed tracing
	Type        string    `json:"type"`
	ActorID     string    `json:"actor_id,omitempty"` // Who triggered the change; empty for system actions
	SubjectKind string    `json:"subject_kind"`       // "profile", "product" or "request"
	SubjectID   string    `json:"subject_id"`
	Country     string    `json:"country,omitempty"` // Scoping field of the subject, as stored
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishMarketplaceEvent publishes a lifecycle event for async processing
	PublishMarketplaceEvent(ctx context.Context, event *MarketplaceEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
