package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminAccountModel mirrors the 'admin_users' table. Admin accounts are
// provisioned by migration or operator tooling, never by registration.
type AdminAccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Username     string    `gorm:"type:varchar(100);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255)"`
	FullName     string    `gorm:"type:varchar(100)"`
	IsActive     bool      `gorm:"not null;default:true"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AdminAccountModel) TableName() string {
	return "admin_users"
}

// SubAdminAccountModel mirrors the 'sub_admin_users' table. The country grant
// is stored as a JSONB array and serialized by GORM.
type SubAdminAccountModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Username          string    `gorm:"type:varchar(100);unique;not null"`
	PasswordHash      string    `gorm:"type:varchar(255);not null"`
	Email             string    `gorm:"type:varchar(255)"`
	FullName          string    `gorm:"type:varchar(100)"`
	CreatedBy         uuid.UUID `gorm:"type:uuid;not null"`
	AssignedCountries []string  `gorm:"type:jsonb;serializer:json"`
	IsActive          bool      `gorm:"not null;default:true"`
	LastLogin         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (SubAdminAccountModel) TableName() string {
	return "sub_admin_users"
}
