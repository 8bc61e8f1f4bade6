// Package model holds the GORM table mappings for the marketplace schema.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email     string    `gorm:"type:varchar(255);unique;not null"`
	Name      string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`

	Profile         *ProfileModel         `gorm:"foreignKey:UserID"`
	Authentications []AuthenticationModel `gorm:"foreignKey:UserID"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ProfileModel mirrors the 'profiles' table. One row per registered account;
// approval_status gates listing creation and is only moved through the
// conditional update in the user repository.
type ProfileModel struct {
	UserID         uuid.UUID `gorm:"primaryKey"`
	UserType       string    `gorm:"type:varchar(20);not null"`
	ApprovalStatus string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	Country        string    `gorm:"type:varchar(100);index"`
	CompanyName    string    `gorm:"type:varchar(255)"`
	Phone          string    `gorm:"type:varchar(50)"`
	ContactEmail   string    `gorm:"type:varchar(255)"`
	DeviceToken    string    `gorm:"type:varchar(512)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}
