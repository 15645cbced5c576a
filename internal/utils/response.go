// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the wire envelope for every endpoint: {ok:true, data} on
// success, {ok:false, code, message} on failure. Internal error detail never
// crosses this boundary.
type APIResponse struct {
	OK      bool        `json:"ok"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// Error codes
const (
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeForbidden        = "FORBIDDEN"
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeAlreadyPurchased = "ALREADY_PURCHASED"
	CodeSoldExclusively  = "SOLD_EXCLUSIVELY"
	CodeChatClosed       = "CHAT_CLOSED"
	CodeInvalidState     = "INVALID_STATE"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeConfigError      = "CONFIG_ERROR"
	CodeBlobUploadFailed = "BLOB_UPLOAD_FAILED"
	CodeDBError          = "DB_ERROR"
	CodeDBInsertFailed   = "DB_INSERT_FAILED"
	CodeUnexpected       = "UNEXPECTED"
)

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		OK:   true,
		Data: data,
	})
}

func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		OK:   true,
		Data: data,
		Meta: meta,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		OK:   true,
		Data: data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		OK:      false,
		Code:    code,
		Message: message,
		Details: details,
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = "Invalid request"
	}
	ErrorResponse(c, http.StatusBadRequest, CodeBadRequest, message, details)
}

func ValidationFailedResponse(c *gin.Context, message string, details interface{}) {
	ErrorResponse(c, http.StatusBadRequest, CodeValidationFailed, message, details)
}

func UnauthenticatedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	ErrorResponse(c, http.StatusUnauthorized, CodeUnauthenticated, message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	ErrorResponse(c, http.StatusForbidden, CodeForbidden, message, nil)
}

func NotFoundResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	ErrorResponse(c, http.StatusNotFound, CodeNotFound, message, nil)
}

func ConflictResponse(c *gin.Context, code, message string) {
	ErrorResponse(c, http.StatusConflict, code, message, nil)
}

func FileTooLargeResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge, message, nil)
}

func InternalErrorResponse(c *gin.Context, code, message string) {
	if code == "" {
		code = CodeUnexpected
	}
	if message == "" {
		message = "Something went wrong. Please try again."
	}
	ErrorResponse(c, http.StatusInternalServerError, code, message, nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	ErrorResponse(c, http.StatusBadRequest, CodeValidationFailed, "Invalid input", errors)
}

func PaginatedResponse(c *gin.Context, result PaginationResult) {
	SetPaginationHeaders(c, result)
	SuccessResponseWithMeta(c, result.Data, gin.H{
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

func GetProfileIDFromContext(c *gin.Context) (string, bool) {
	if profileID, exists := c.Get("profile_id"); exists {
		if profileIDStr, ok := profileID.(string); ok {
			return profileIDStr, true
		}
	}
	return "", false
}

func GetRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get("role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}
