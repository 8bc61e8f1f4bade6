package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is an inbound message from the public contact form,
// surfaced in the admin inbox.
type ContactMessage struct {
	ID        uuid.UUID // The unique identifier for the message.
	Name      string    // Sender's name.
	Email     string    // Sender's reply address.
	Subject   string    // Message subject line.
	Body      string    // Message body.
	IsRead    bool      // Whether an admin has opened the message.
	CreatedAt time.Time // Timestamp of when the message was received.
}
