package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation services
type QRCodeService interface {
	// GenerateProductQR generates a QR code pointing at a product's public
	// detail page, for print and share use.
	GenerateProductQR(productID uuid.UUID) ([]byte, error)
}
