package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table. country_origin and status are
// indexed because every catalog query filters on them.
type ProductModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ExporterID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Description   string    `gorm:"type:text"`
	Category      string    `gorm:"type:varchar(100);index"`
	Price         float64   `gorm:"type:numeric(14,2)"`
	Currency      string    `gorm:"type:varchar(3)"`
	Quantity      int
	Unit          string `gorm:"type:varchar(20)"`
	CountryOrigin string `gorm:"type:varchar(100);index"`
	ImageURL      string `gorm:"type:text"`
	Status        string `gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Images []ProductImageModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// ProductImageModel mirrors the 'product_images' table.
type ProductImageModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageURL     string    `gorm:"type:text;not null"`
	IsPrimary    bool      `gorm:"not null;default:false"`
	DisplayOrder int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductImageModel) TableName() string {
	return "product_images"
}
