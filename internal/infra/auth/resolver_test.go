package auth

import (
	"testing"
	"time"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_MissingCredential(t *testing.T) {
	resolver := NewPrincipalResolver(newTestTokenService(t))

	p, err := resolver.Resolve("", time.Now())
	assert.ErrorIs(t, err, policy.ErrCredentialMissing)
	assert.Equal(t, policy.KindAnonymous, p.Kind)
}

func TestResolve_MalformedCredential(t *testing.T) {
	resolver := NewPrincipalResolver(newTestTokenService(t))

	p, err := resolver.Resolve("garbage", time.Now())
	assert.ErrorIs(t, err, policy.ErrCredentialMalformed)
	assert.Equal(t, policy.KindAnonymous, p.Kind)
}

func TestResolve_MapsRolesToKinds(t *testing.T) {
	svc := newTestTokenService(t)
	resolver := NewPrincipalResolver(svc)

	tests := []struct {
		name string
		role entity.Role
		want policy.Kind
	}{
		{name: "user", role: entity.RoleUser, want: policy.KindUser},
		{name: "admin", role: entity.RoleAdmin, want: policy.KindAdmin},
		{name: "subadmin", role: entity.RoleSubAdmin, want: policy.KindSubAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			access, _, err := svc.GenerateTokens(id, tt.role, nil, time.Now())
			require.NoError(t, err)

			p, err := resolver.Resolve(access, time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Kind)
			assert.Equal(t, id, p.ID)
		})
	}
}

func TestResolve_CarriesSubAdminGrant(t *testing.T) {
	svc := newTestTokenService(t)
	resolver := NewPrincipalResolver(svc)

	access, _, err := svc.GenerateTokens(uuid.New(), entity.RoleSubAdmin, []string{"BR", "India"}, time.Now())
	require.NoError(t, err)

	p, err := resolver.Resolve(access, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"BR", "India"}, p.AssignedCountries)
}

func TestResolve_AbsoluteSessionCutoff(t *testing.T) {
	svc := newTestTokenService(t)
	resolver := NewPrincipalResolver(svc)

	id := uuid.New()
	loginTime := time.Now().Add(-policy.MaxSessionAge - time.Minute)
	access, _, err := svc.GenerateTokens(id, entity.RoleAdmin, nil, loginTime)
	require.NoError(t, err)

	// The token itself is still signature-valid; the login is just too old.
	p, err := resolver.Resolve(access, time.Now())
	assert.ErrorIs(t, err, policy.ErrCredentialExpired)
	// The principal is returned with the error so the caller can revoke the
	// account's stored sessions.
	assert.Equal(t, id, p.ID)
	assert.Equal(t, policy.KindAdmin, p.Kind)
}

func TestResolve_WithinSessionWindow(t *testing.T) {
	svc := newTestTokenService(t)
	resolver := NewPrincipalResolver(svc)

	loginTime := time.Now().Add(-policy.MaxSessionAge + time.Hour)
	access, _, err := svc.GenerateTokens(uuid.New(), entity.RoleUser, nil, loginTime)
	require.NoError(t, err)

	_, err = resolver.Resolve(access, time.Now())
	assert.NoError(t, err)
}
