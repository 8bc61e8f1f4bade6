package auth

import (
	"time"

	stderrors "errors"

	"github.com/golang-jwt/jwt/v5"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/policy"
	"tradegate/internal/domain/service"
)

// principalResolver turns a bearer token into a request Principal.
// It is the single place token claims become authority.
type principalResolver struct {
	tokens service.TokenService
}

// NewPrincipalResolver is the constructor for principalResolver.
func NewPrincipalResolver(tokens service.TokenService) service.IdentityResolver {
	return &principalResolver{tokens: tokens}
}

// Resolve validates the credential and maps its claims onto a Principal.
// Admin and sub-admin sessions additionally enforce an absolute age cutoff
// measured from the original login time, regardless of token refreshes.
func (r *principalResolver) Resolve(credential string, now time.Time) (policy.Principal, error) {
	if credential == "" {
		return policy.Anonymous(), policy.ErrCredentialMissing
	}

	claims, err := r.tokens.ValidateAccessToken(credential)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return policy.Anonymous(), policy.ErrCredentialExpired
		}
		return policy.Anonymous(), policy.ErrCredentialMalformed
	}

	var kind policy.Kind
	switch claims.Role {
	case entity.RoleAdmin:
		kind = policy.KindAdmin
	case entity.RoleSubAdmin:
		kind = policy.KindSubAdmin
	case entity.RoleUser:
		kind = policy.KindUser
	default:
		return policy.Anonymous(), policy.ErrCredentialMalformed
	}

	p := policy.Principal{
		Kind:              kind,
		ID:                claims.UserID,
		AssignedCountries: claims.AssignedCountries,
		LoginTime:         claims.LoginTime,
	}

	if p.Expired(now) {
		// Return the principal alongside the error so the caller can
		// invalidate the account's stored sessions.
		return p, policy.ErrCredentialExpired
	}

	return p, nil
}
