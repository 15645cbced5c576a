// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFallbackDisplayName(t *testing.T) {
	id := uuid.MustParse("8f14e45f-ceea-467f-9575-9f86bb7b2d1c")

	assert.Equal(t, "otter", fallbackDisplayName(id, "otter@example.com"))
	assert.Equal(t, "user-8f14e45f", fallbackDisplayName(id, ""))
	assert.Equal(t, "user-8f14e45f", fallbackDisplayName(id, "@example.com"))
}
