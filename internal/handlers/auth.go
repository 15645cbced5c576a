// internal/handlers/auth.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anondesigns/dsm-backend/internal/models"
	"github.com/anondesigns/dsm-backend/internal/services"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", nil)
		return
	}

	response, err := h.authService.Register(&req)
	if err != nil {
		if validationErrors := utils.GetValidationErrors(err); len(validationErrors) > 0 {
			utils.ValidationErrorResponse(c, validationErrors)
			return
		}
		utils.ValidationFailedResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", nil)
		return
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		// Credential failures are deliberately indistinct.
		utils.UnauthenticatedResponse(c, "Invalid email or password")
		return
	}

	utils.SuccessResponse(c, response)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		utils.BadRequestResponse(c, "refresh_token is required", nil)
		return
	}

	response, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.UnauthenticatedResponse(c, "Invalid or expired refresh token")
		return
	}

	utils.SuccessResponse(c, response)
}

// Me returns the authenticated profile, provisioning the row on first access
// if the identity outlived its database record.
func (h *AuthHandler) Me(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	displayName, _ := c.Get("display_name")
	displayNameStr, _ := displayName.(string)
	roleStr, _ := utils.GetRoleFromContext(c)

	profile, err := h.authService.EnsureProfile(profileID, "", displayNameStr, models.Role(roleStr))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}
