package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is an exporter's listing in the public catalog.
type Product struct {
	ID            uuid.UUID       // The unique identifier for the listing.
	ExporterID    uuid.UUID       // The owning user. Only the owner, an admin, or a covering sub-admin may change the status.
	Name          string          // Product name shown in the catalog.
	Description   string          // Free-form product description.
	Category      string          // Category name, matched against approved categories.
	Price         float64         // Unit price in Currency.
	Currency      string          // ISO currency code, e.g. "USD".
	Quantity      int             // Available quantity in Unit.
	Unit          string          // Measurement unit, e.g. "kg", "ton", "pcs".
	CountryOrigin string          // Origin country, stored as either name or code form.
	ImageURL      string          // Primary image URL. Upload mechanics are outside this service.
	Images        []*ProductImage // Gallery images ordered by DisplayOrder.
	Status        ListingStatus   // Lifecycle state. New products start ListingActive.
	CreatedAt     time.Time       // Timestamp of when this listing was created.
	UpdatedAt     time.Time       // Timestamp of the last modification to this listing.
}

// ProductImage is a single gallery image attached to a product.
type ProductImage struct {
	ID           uuid.UUID // The unique identifier for the image record.
	ProductID    uuid.UUID // The product this image belongs to.
	ImageURL     string    // Where the image is hosted.
	IsPrimary    bool      // Whether this image is the catalog thumbnail.
	DisplayOrder int       // Position in the gallery, ascending.
	CreatedAt    time.Time // Timestamp of when this image was attached.
}
