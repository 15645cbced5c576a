// internal/services/chat_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMessageContent(t *testing.T) {
	content, err := validateMessageContent("  Is this available for exclusive license?  ")
	require.NoError(t, err)
	assert.Equal(t, "Is this available for exclusive license?", content)

	_, err = validateMessageContent("   ")
	var validationErr *ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Message cannot be empty", validationErr.Message)

	_, err = validateMessageContent(strings.Repeat("a", maxMessageLength+1))
	assert.ErrorAs(t, err, &validationErr)

	content, err = validateMessageContent(strings.Repeat("a", maxMessageLength))
	require.NoError(t, err)
	assert.Len(t, content, maxMessageLength)
}
