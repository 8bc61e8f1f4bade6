package service

import (
	"time"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/policy"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by the JWT tokens. LoginTime is
// the wall-clock login instant the absolute session cutoff is measured from;
// AssignedCountries is the sub-admin grant snapshotted at login.
type Claims struct {
	UserID            uuid.UUID   `json:"uid"`
	Role              entity.Role `json:"role"`
	AssignedCountries []string    `json:"countries,omitempty"`
	LoginTime         time.Time   `json:"login_time"`
	Type              string      `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a
	// principal. loginTime is embedded in both tokens so the 24h absolute
	// cutoff survives refreshes.
	GenerateTokens(subject uuid.UUID, role entity.Role, assignedCountries []string, loginTime time.Time) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks an access token and returns its claims.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// HashToken returns the hex-encoded SHA-256 digest of a raw token,
	// used for storing refresh tokens at rest.
	HashToken(token string) string

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}

// IdentityResolver turns a bearer credential into a Principal for this
// request. Implementations report policy.ErrCredentialMissing,
// policy.ErrCredentialMalformed or policy.ErrCredentialExpired; on expiry
// the caller must also invalidate the principal's stored sessions.
type IdentityResolver interface {
	Resolve(credential string, now time.Time) (policy.Principal, error)
}
