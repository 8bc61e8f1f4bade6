package auth

import (
	"testing"

	"tradegate/config"
	domainerrors "tradegate/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHasher() *bcryptHasher {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4}, // MinCost keeps the test fast
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:        8,
			MaxLength:        72,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireNumbers:   true,
		},
	}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestHashAndCheck(t *testing.T) {
	h := newTestHasher()

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Secret123", hash)

	assert.True(t, h.Check("Secret123", hash))
	assert.False(t, h.Check("Secret124", hash))
	assert.False(t, h.Check("Secret123", "not-a-hash"))
}

func TestValidatePasswordStrength(t *testing.T) {
	h := newTestHasher()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Secret123", wantErr: false},
		{name: "too short", password: "Ab1", wantErr: true},
		{name: "missing uppercase", password: "secret123", wantErr: true},
		{name: "missing lowercase", password: "SECRET123", wantErr: true},
		{name: "missing digit", password: "SecretWord", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePasswordStrength_DefaultsWithoutConfig(t *testing.T) {
	h := NewBcryptHasher(&config.Config{}).(*bcryptHasher)

	// Defaults require eight characters including a number.
	assert.NoError(t, h.ValidatePasswordStrength("secret123"))
	assert.Error(t, h.ValidatePasswordStrength("secretword"))
	assert.Error(t, h.ValidatePasswordStrength("s1"))
}
