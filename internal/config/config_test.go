// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	return &Config{
		Environment: "development",
		JWT:         JWTConfig{SecretKey: "a-real-secret"},
		Database:    DatabaseConfig{Password: "pw"},
		Payment:     PaymentConfig{PlatformFeePercent: 10.0},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, baseConfig().Validate())
}

func TestValidate_DemoCheckoutForbiddenInProduction(t *testing.T) {
	cfg := baseConfig()
	cfg.Environment = "production"
	cfg.Payment.DemoCheckout = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demo checkout")
}

func TestValidate_DemoCheckoutAllowedInDevelopment(t *testing.T) {
	cfg := baseConfig()
	cfg.Payment.DemoCheckout = true
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DefaultSecretForbiddenInProduction(t *testing.T) {
	cfg := baseConfig()
	cfg.Environment = "production"
	cfg.JWT.SecretKey = "your-secret-key-change-in-production"
	assert.Error(t, cfg.Validate())
}

func TestValidate_FeePercentRange(t *testing.T) {
	cfg := baseConfig()
	cfg.Payment.PlatformFeePercent = -1
	assert.Error(t, cfg.Validate())

	cfg.Payment.PlatformFeePercent = 100
	assert.Error(t, cfg.Validate())

	cfg.Payment.PlatformFeePercent = 0
	assert.NoError(t, cfg.Validate())

	cfg.Payment.PlatformFeePercent = 99.9
	assert.NoError(t, cfg.Validate())
}
