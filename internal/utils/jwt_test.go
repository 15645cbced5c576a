// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	profileID := uuid.New()
	token, err := GenerateJWT(profileID, "quiet-otter", "designer", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)

	assert.Equal(t, profileID.String(), claims.ProfileID)
	assert.Equal(t, "quiet-otter", claims.DisplayName)
	assert.Equal(t, "designer", claims.Role)
	assert.Equal(t, "design-marketplace", claims.Issuer)
}

func TestValidateJWT_Garbage(t *testing.T) {
	SetJWTSecret("test-secret")

	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	SetJWTSecret("secret-one")
	token, err := GenerateJWT(uuid.New(), "quiet-otter", "designer", 1)
	require.NoError(t, err)

	SetJWTSecret("secret-two")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	profileID := uuid.New()
	token, err := GenerateRefreshToken(profileID, 24)
	require.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, profileID.String(), subject)
}

func TestGeneratePaymentReference(t *testing.T) {
	ref, err := GeneratePaymentReference()
	require.NoError(t, err)
	assert.Len(t, ref, len("demo_")+24)
	assert.Contains(t, ref, "demo_")

	other, err := GeneratePaymentReference()
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
}
