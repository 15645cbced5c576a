// internal/handlers/design.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/anondesigns/dsm-backend/internal/services"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

type DesignHandler struct {
	designService *services.DesignService
}

func NewDesignHandler(designService *services.DesignService) *DesignHandler {
	return &DesignHandler{
		designService: designService,
	}
}

// Submit accepts a multipart form with the design metadata plus the preview
// image and source file. The created design always starts as pending.
func (h *DesignHandler) Submit(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	input := services.SubmissionInput{
		Title:             c.PostForm("title"),
		Description:       c.PostForm("description"),
		PriceNonExclusive: c.PostForm("price_non_exclusive"),
		PriceExclusive:    c.PostForm("price_exclusive"),
		Tags:              c.PostForm("tags"),
	}

	files := services.SubmitDesignFiles{}

	if preview, header, err := c.Request.FormFile("preview"); err == nil {
		defer preview.Close()
		input.HasPreview = true
		input.PreviewSize = header.Size
		files.Preview = preview
		files.PreviewHeader = header
	}

	if source, header, err := c.Request.FormFile("source"); err == nil {
		defer source.Close()
		input.HasSource = true
		input.SourceSize = header.Size
		files.Source = source
		files.SourceHeader = header
	}

	design, err := h.designService.SubmitDesign(profileID, input, files)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, design)
}

// List is the public marketplace: approved designs only.
func (h *DesignHandler) List(c *gin.Context) {
	params := services.DesignSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		Tag:              c.Query("tag"),
	}

	designs, total, err := h.designService.ListMarketplace(params)
	if err != nil {
		utils.InternalErrorResponse(c, utils.CodeDBError, "Failed to load designs")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(designs, total, params.PaginationParams))
}

func (h *DesignHandler) Get(c *gin.Context) {
	designID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	design, err := h.designService.GetDesign(designID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, design)
}

// Mine lists the caller's own designs regardless of status.
func (h *DesignHandler) Mine(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	designs, total, err := h.designService.ListByDesigner(profileID, params)
	if err != nil {
		utils.InternalErrorResponse(c, utils.CodeDBError, "Failed to load designs")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(designs, total, params))
}
