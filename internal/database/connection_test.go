// internal/database/connection_test.go
package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGormConfig_KeepsDriverErrorTranslationOff(t *testing.T) {
	// With translation on, the postgres driver collapses every unique
	// violation into the bare gorm.ErrDuplicatedKey sentinel, losing the
	// constraint name the purchase guard uses to tell an exclusive-sale
	// collision apart from a duplicate purchase.
	for _, level := range []string{"silent", "info", ""} {
		cfg := NewGormConfig(level)
		require.NotNil(t, cfg)
		assert.False(t, cfg.TranslateError)
	}
}

func TestNewGormConfig_Logger(t *testing.T) {
	assert.NotNil(t, NewGormConfig("silent").Logger)
	assert.NotNil(t, NewGormConfig("info").Logger)
}
