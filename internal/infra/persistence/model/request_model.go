package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductRequestModel mirrors the 'product_requests' table. target_country is
// the scoping field for sub-admin visibility, indexed like products.country_origin.
type ProductRequestModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	RequesterID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title         string    `gorm:"type:varchar(255);not null"`
	Description   string    `gorm:"type:text"`
	Category      string    `gorm:"type:varchar(100);index"`
	Quantity      int
	Unit          string  `gorm:"type:varchar(20)"`
	BudgetMin     float64 `gorm:"type:numeric(14,2)"`
	BudgetMax     float64 `gorm:"type:numeric(14,2)"`
	Currency      string  `gorm:"type:varchar(3)"`
	TargetCountry string  `gorm:"type:varchar(100);index"`
	Urgency       string  `gorm:"type:varchar(10);not null;default:'normal'"`
	Status        string  `gorm:"type:varchar(20);not null;default:'active';index"`
	ExpiresAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductRequestModel) TableName() string {
	return "product_requests"
}
