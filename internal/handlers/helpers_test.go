// internal/handlers/helpers_test.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anondesigns/dsm-backend/internal/services"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

func recordServiceError(t *testing.T, err error) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/test", nil)

	respondServiceError(c, err)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondServiceError(t *testing.T) {
	cases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound, utils.CodeNotFound},
		{"wrapped not found", fmt.Errorf("design: %w", services.ErrNotFound), http.StatusNotFound, utils.CodeNotFound},
		{"forbidden", services.ErrUnauthorized, http.StatusForbidden, utils.CodeForbidden},
		{"not participant", services.ErrNotParticipant, http.StatusForbidden, utils.CodeForbidden},
		{"already purchased", services.ErrAlreadyPurchased, http.StatusConflict, utils.CodeAlreadyPurchased},
		{"sold exclusively", services.ErrSoldExclusively, http.StatusConflict, utils.CodeSoldExclusively},
		{"chat closed", services.ErrChatClosed, http.StatusConflict, utils.CodeChatClosed},
		{"invalid state", services.ErrInvalidState, http.StatusConflict, utils.CodeInvalidState},
		{"blob upload", fmt.Errorf("%w: preview: timeout", services.ErrBlobUpload), http.StatusInternalServerError, utils.CodeBlobUploadFailed},
		{"config error", fmt.Errorf("%w: stripe", services.ErrConfig), http.StatusInternalServerError, utils.CodeConfigError},
		{"db insert", fmt.Errorf("%w: design: broken", services.ErrDBInsert), http.StatusInternalServerError, utils.CodeDBInsertFailed},
		{"unexpected", assert.AnError, http.StatusInternalServerError, utils.CodeUnexpected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := recordServiceError(t, tc.err)
			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.False(t, body.OK)
			assert.Equal(t, tc.expectedCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondServiceError_ValidationMessagePassesThrough(t *testing.T) {
	err := &services.ValidationFailedError{Message: "Title must be at least 3 characters long"}
	w, body := recordServiceError(t, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.CodeValidationFailed, body.Code)
	assert.Equal(t, "Title must be at least 3 characters long", body.Message)
}

func TestRespondServiceError_FileTooLarge(t *testing.T) {
	err := &services.FileTooLargeError{Message: "Source file must be smaller than 50MB"}
	w, body := recordServiceError(t, err)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, utils.CodeFileTooLarge, body.Code)
	assert.Equal(t, "Source file must be smaller than 50MB", body.Message)
}

func TestRespondServiceError_NeverLeaksInternalDetail(t *testing.T) {
	_, body := recordServiceError(t, fmt.Errorf("pq: connection refused at 10.0.0.3:5432"))
	assert.NotContains(t, body.Message, "10.0.0.3")
	assert.Equal(t, utils.CodeUnexpected, body.Code)
}
