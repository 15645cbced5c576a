// internal/handlers/helpers.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anondesigns/dsm-backend/internal/services"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

// currentProfileID pulls the authenticated profile's ID out of the request
// context. Auth middleware sets it; a miss means the route was wired without
// AuthRequired.
func currentProfileID(c *gin.Context) (uuid.UUID, bool) {
	profileIDStr, ok := utils.GetProfileIDFromContext(c)
	if !ok {
		utils.UnauthenticatedResponse(c, "")
		return uuid.Nil, false
	}

	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		utils.UnauthenticatedResponse(c, "")
		return uuid.Nil, false
	}

	return profileID, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service-layer errors onto the wire envelope. Raw
// error text from unexpected failures never reaches the client.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationFailedError
	if errors.As(err, &validationErr) {
		utils.ValidationFailedResponse(c, validationErr.Message, nil)
		return
	}

	var tooLargeErr *services.FileTooLargeError
	if errors.As(err, &tooLargeErr) {
		utils.FileTooLargeResponse(c, tooLargeErr.Message)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "")
	case errors.Is(err, services.ErrUnauthorized):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrNotParticipant):
		utils.ForbiddenResponse(c, "You are not a participant in this conversation")
	case errors.Is(err, services.ErrAlreadyPurchased):
		utils.ConflictResponse(c, utils.CodeAlreadyPurchased, "You have already purchased this design")
	case errors.Is(err, services.ErrSoldExclusively):
		utils.ConflictResponse(c, utils.CodeSoldExclusively, "This design has been sold exclusively and is no longer available")
	case errors.Is(err, services.ErrChatClosed):
		utils.ConflictResponse(c, utils.CodeChatClosed, "This chat has been closed")
	case errors.Is(err, services.ErrInvalidState):
		utils.ConflictResponse(c, utils.CodeInvalidState, "This operation is not allowed in the current state")
	case errors.Is(err, services.ErrConfig):
		utils.InternalErrorResponse(c, utils.CodeConfigError, "Service is not configured for this operation")
	case errors.Is(err, services.ErrBlobUpload):
		utils.InternalErrorResponse(c, utils.CodeBlobUploadFailed, "File upload failed. Please try again.")
	case errors.Is(err, services.ErrDBInsert):
		utils.InternalErrorResponse(c, utils.CodeDBInsertFailed, "Failed to save. Please try again.")
	default:
		utils.InternalErrorResponse(c, utils.CodeUnexpected, "")
	}
}
