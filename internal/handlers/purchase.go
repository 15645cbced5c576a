// internal/handlers/purchase.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/anondesigns/dsm-backend/internal/services"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

type PurchaseHandler struct {
	purchaseService *services.PurchaseService
}

func NewPurchaseHandler(purchaseService *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// CreateCheckoutSession opens a Stripe Checkout session; the purchase itself
// is only recorded when the webhook confirms payment.
func (h *PurchaseHandler) CreateCheckoutSession(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	var req services.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "design_id and license_type are required", nil)
		return
	}

	session, err := h.purchaseService.CreateCheckoutSession(profileID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, session)
}

// DemoPurchase grants a license synchronously without a payment processor.
// Only reachable when demo checkout is enabled, which production config
// forbids.
func (h *PurchaseHandler) DemoPurchase(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	var req services.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "design_id and license_type are required", nil)
		return
	}

	purchase, err := h.purchaseService.DemoPurchase(profileID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, purchase)
}

func (h *PurchaseHandler) List(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	purchases, total, err := h.purchaseService.ListPurchases(profileID, params)
	if err != nil {
		utils.InternalErrorResponse(c, utils.CodeDBError, "Failed to load purchases")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(purchases, total, params))
}

func (h *PurchaseHandler) Download(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	purchaseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	url, err := h.purchaseService.GetDownloadURL(purchaseID, profileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"download_url": url})
}

func (h *PurchaseHandler) ReleaseEscrow(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	transactionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	transaction, err := h.purchaseService.ReleaseEscrow(transactionID, profileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, transaction)
}
