// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anondesigns/dsm-backend/internal/models"
	"github.com/anondesigns/dsm-backend/internal/services"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

type AdminHandler struct {
	designService *services.DesignService
	adminService  *services.AdminService
}

func NewAdminHandler(designService *services.DesignService, adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		designService: designService,
		adminService:  adminService,
	}
}

type moderationRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Reason string    `json:"reason"`
}

// PendingDesigns is the moderation queue, oldest first.
func (h *AdminHandler) PendingDesigns(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	designs, total, err := h.designService.ListPending(params)
	if err != nil {
		utils.InternalErrorResponse(c, utils.CodeDBError, "Failed to load pending designs")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(designs, total, params))
}

func (h *AdminHandler) ApproveDesign(c *gin.Context) {
	h.moderate(c, models.DesignStatusApproved)
}

func (h *AdminHandler) RejectDesign(c *gin.Context) {
	h.moderate(c, models.DesignStatusRejected)
}

func (h *AdminHandler) moderate(c *gin.Context, decision models.DesignStatus) {
	roleStr, _ := utils.GetRoleFromContext(c)

	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Design id is required", nil)
		return
	}

	design, err := h.designService.Moderate(req.ID, decision, models.Role(roleStr), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, design)
}

func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, utils.CodeDBError, "Failed to load dashboard stats")
		return
	}

	utils.SuccessResponse(c, stats)
}
