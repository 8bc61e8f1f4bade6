package auth

import (
	"testing"
	"time"

	"tradegate/config"
	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc
}

func TestNewJWTService_RequiresSecrets(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "only-access"

	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestGenerateTokens_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	subject := uuid.New()
	loginTime := time.Now().Add(-time.Hour).Truncate(time.Second)

	access, refresh, err := svc.GenerateTokens(subject, entity.RoleSubAdmin, []string{"BR", "IN"}, loginTime)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.UserID)
	assert.Equal(t, entity.RoleSubAdmin, claims.Role)
	assert.Equal(t, []string{"BR", "IN"}, claims.AssignedCountries)
	assert.Equal(t, "access", claims.Type)
	// The login instant survives serialization so the absolute session
	// cutoff is measured from the original login.
	assert.WithinDuration(t, loginTime, claims.LoginTime, time.Second)

	refreshClaims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, subject, refreshClaims.UserID)
	assert.Equal(t, "refresh", refreshClaims.Type)
	assert.WithinDuration(t, loginTime, refreshClaims.LoginTime, time.Second)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := newTestTokenService(t)

	_, refresh, err := svc.GenerateTokens(uuid.New(), entity.RoleUser, nil, time.Now())
	require.NoError(t, err)

	// Token types are signed with different secrets and carry a type claim;
	// neither side accepts the other.
	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := newTestTokenService(t)

	access, _, err := svc.GenerateTokens(uuid.New(), entity.RoleUser, nil, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsForeignSignature(t *testing.T) {
	svc := newTestTokenService(t)

	otherCfg := &config.Config{}
	otherCfg.SecretKey.Access = "different-access-secret"
	otherCfg.SecretKey.Refresh = "different-refresh-secret"
	other, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	access, _, err := other.GenerateTokens(uuid.New(), entity.RoleUser, nil, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestHashToken_StableAndHex(t *testing.T) {
	svc := newTestTokenService(t)

	first := svc.HashToken("some-token")
	second := svc.HashToken("some-token")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, svc.HashToken("other-token"))
}
