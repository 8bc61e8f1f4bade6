package errors

import (
	"tradegate/internal/domain/policy"
	"tradegate/internal/errors"
)

// FromPolicy translates a policy-layer sentinel error into the AppError the
// delivery layer renders. Read-scope denials must be mapped to ErrNotFound
// by the caller instead, so existence does not leak; this mapping is for
// write paths, where an explicit rejection is allowed.
func FromPolicy(err error) AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, policy.ErrCredentialMissing):
		return ErrAuthMissing
	case errors.Is(err, policy.ErrCredentialMalformed):
		return ErrAuthMalformed
	case errors.Is(err, policy.ErrCredentialExpired):
		return ErrAuthExpired
	case errors.Is(err, policy.ErrInvalidTransition):
		return ErrInvalidTransition
	case errors.Is(err, policy.ErrForbidden):
		return ErrForbidden
	default:
		return ErrInternalError
	}
}
