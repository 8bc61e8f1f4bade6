// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"tradegate/config"
	domainerrors "tradegate/internal/domain/errors"
	"tradegate/internal/domain/service"
)

// bcrypt silently truncates input beyond 72 bytes.
const bcryptMaxPasswordLength = 72

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	strength := config.PasswordStrengthConfig{
		MinLength:      8,
		MaxLength:      bcryptMaxPasswordLength,
		RequireNumbers: true,
	}
	if cfg.PasswordStrength != nil {
		strength = *cfg.PasswordStrength
	}
	if strength.MaxLength <= 0 || strength.MaxLength > bcryptMaxPasswordLength {
		strength.MaxLength = bcryptMaxPasswordLength
	}

	return &bcryptHasher{cost: cost, strength: strength}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks a plaintext password against the configured
// strength requirements.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if len(password) < h.strength.MinLength || len(password) > h.strength.MaxLength {
		return domainerrors.ErrPasswordStrength
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if h.strength.RequireUppercase && !hasUpper {
		return domainerrors.ErrPasswordStrength
	}
	if h.strength.RequireLowercase && !hasLower {
		return domainerrors.ErrPasswordStrength
	}
	if h.strength.RequireNumbers && !hasDigit {
		return domainerrors.ErrPasswordStrength
	}
	if h.strength.RequireSpecial && !hasSpecial {
		return domainerrors.ErrPasswordStrength
	}

	return nil
}
