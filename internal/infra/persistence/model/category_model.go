package model

import (
	"time"

	"github.com/google/uuid"
)

// CategoryModel mirrors the 'categories' table. Names are unique marketplace-wide.
type CategoryModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name       string     `gorm:"type:varchar(100);unique;not null"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid"`
	IsApproved bool       `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}
