// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"tradegate/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrMessageNotFound is returned when a contact message is not found.
var ErrMessageNotFound = errors.New("contact message not found")

// ContactRepository defines the standard operations for the contact inbox.
type ContactRepository interface {
	// Create persists an inbound contact message.
	Create(ctx context.Context, message *entity.ContactMessage) error

	// List returns contact messages, newest first, optionally unread only.
	List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*entity.ContactMessage, error)

	// MarkRead flags a message as read.
	MarkRead(ctx context.Context, id uuid.UUID) error
}
