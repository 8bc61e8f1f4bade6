package postgres

import (
	"tradegate/internal/domain/policy"

	"gorm.io/gorm"
)

// applyPolicyFilter translates a visibility filter into query conditions.
// Column names are passed in because the scoping field differs per table
// (profiles.country, products.country_origin, product_requests.target_country).
// The filter always ANDs with whatever conditions the caller already added,
// so client-supplied search parameters can narrow it but never bypass it.
func applyPolicyFilter(db *gorm.DB, f policy.Filter, ownerColumn, countryColumn, statusColumn string) *gorm.DB {
	if f.DenyAll {
		// Fail closed without a round trip worth of rows.
		return db.Where("1 = 0")
	}

	if f.OwnerID != nil {
		db = db.Where(ownerColumn+" = ?", *f.OwnerID)
	}
	if len(f.Statuses) > 0 {
		db = db.Where(statusColumn+" IN ?", f.Statuses)
	}
	if len(f.Countries) > 0 {
		db = db.Where(countryColumn+" IN ?", f.Countries)
	}

	return db
}
