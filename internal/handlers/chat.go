// internal/handlers/chat.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anondesigns/dsm-backend/internal/services"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

type startConversationRequest struct {
	DesignID uuid.UUID `json:"design_id" binding:"required"`
	// Accepted for wire compatibility; the designer is always resolved from
	// the design row, never trusted from the client.
	DesignerID uuid.UUID `json:"designer_id"`
}

type postMessageRequest struct {
	ConversationID uuid.UUID `json:"conversation_id" binding:"required"`
	Message        string    `json:"message" binding:"required"`
}

type designMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) Start(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "design_id is required", nil)
		return
	}

	conversation, err := h.chatService.StartConversation(profileID, req.DesignID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, conversation)
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "conversation_id and message are required", nil)
		return
	}

	message, err := h.chatService.PostMessage(profileID, req.ConversationID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, message)
}

// PostDesignMessage addresses the design rather than a conversation; the
// conversation is resolved or opened on the way in.
func (h *ChatHandler) PostDesignMessage(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	designID, ok := parseUUIDParam(c, "designId")
	if !ok {
		return
	}

	var req designMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "message is required", nil)
		return
	}

	message, err := h.chatService.PostDesignMessage(profileID, designID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, message)
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	summaries, total, err := h.chatService.ListConversations(profileID, params)
	if err != nil {
		utils.InternalErrorResponse(c, utils.CodeDBError, "Failed to load conversations")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(summaries, total, params))
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	conversationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	messages, total, err := h.chatService.ListMessages(conversationID, profileID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(messages, total, params))
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	conversationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	marked, err := h.chatService.MarkRead(conversationID, profileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"marked_read": marked})
}
