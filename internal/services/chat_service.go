// internal/services/chat_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anondesigns/dsm-backend/internal/models"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

// ChatService runs the anonymous messaging channel between a buyer and a
// designer. All identity shown to either side is the display name; emails
// never cross the channel.
type ChatService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

func NewChatService(db *gorm.DB, notificationService *NotificationService) *ChatService {
	return &ChatService{
		db:                  db,
		notificationService: notificationService,
	}
}

type ConversationSummary struct {
	Conversation models.Conversation `json:"conversation"`
	UnreadCount  int64               `json:"unread_count"`
	LastMessage  *models.Message     `json:"last_message,omitempty"`
}

const maxMessageLength = 5000

func validateMessageContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", &ValidationFailedError{Message: "Message cannot be empty"}
	}
	if len(content) > maxMessageLength {
		return "", &ValidationFailedError{Message: fmt.Sprintf("Message cannot exceed %d characters", maxMessageLength)}
	}
	return content, nil
}

// StartConversation opens (or returns) the single conversation between a
// buyer and a design's owner. Starting twice is not an error; concurrent
// starts are settled by the unique index and the loser gets the winner's row.
func (s *ChatService) StartConversation(buyerID, designID uuid.UUID) (*models.Conversation, error) {
	var design models.Design
	if err := s.db.First(&design, "id = ?", designID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if design.DesignerID == buyerID {
		return nil, ErrUnauthorized
	}

	if design.Status == models.DesignStatusSoldExclusive {
		return nil, ErrChatClosed
	}
	if design.Status != models.DesignStatusApproved {
		return nil, ErrInvalidState
	}

	var existing models.Conversation
	err := s.db.First(&existing, "design_id = ? AND buyer_id = ?", designID, buyerID).Error
	if err == nil {
		if existing.Status == models.ConversationStatusClosed {
			return nil, ErrChatClosed
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	conversation := models.Conversation{
		DesignID:   designID,
		BuyerID:    buyerID,
		DesignerID: design.DesignerID,
		Status:     models.ConversationStatusActive,
	}

	if err := s.db.Create(&conversation).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			if err := s.db.First(&existing, "design_id = ? AND buyer_id = ?", designID, buyerID).Error; err != nil {
				return nil, fmt.Errorf("failed to fetch conversation after duplicate insert: %w", err)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return &conversation, nil
}

// PostMessage appends to a conversation the sender participates in.
func (s *ChatService) PostMessage(senderID, conversationID uuid.UUID, content string) (*models.Message, error) {
	content, err := validateMessageContent(content)
	if err != nil {
		return nil, err
	}

	var conversation models.Conversation
	if err := s.db.First(&conversation, "id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !conversation.IsParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	if conversation.Status == models.ConversationStatusClosed {
		return nil, ErrChatClosed
	}

	message := models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		// Bump updated_at so the conversation list sorts by activity.
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", time.Now()).Error; err != nil {
			return fmt.Errorf("failed to touch conversation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.NotifyNewMessage(&message, &conversation)

	return &message, nil
}

// PostDesignMessage is the design-scoped entry point: it resolves (or opens)
// the sender's conversation on the design and posts there. Only a prospective
// buyer may use it; the designer replies inside existing conversations.
func (s *ChatService) PostDesignMessage(senderID, designID uuid.UUID, content string) (*models.Message, error) {
	conversation, err := s.StartConversation(senderID, designID)
	if err != nil {
		return nil, err
	}
	return s.PostMessage(senderID, conversation.ID, content)
}

// ListConversations returns the actor's conversations newest-activity first,
// each with its unread count and last message.
func (s *ChatService) ListConversations(actorID uuid.UUID, params utils.PaginationParams) ([]ConversationSummary, int64, error) {
	query := s.db.Model(&models.Conversation{}).
		Where("buyer_id = ? OR designer_id = ?", actorID, actorID).
		Preload("Design").
		Preload("Buyer").
		Preload("Designer")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	query = query.Order("updated_at desc")
	query = utils.ApplyPagination(query, params)

	var conversations []models.Conversation
	if err := query.Find(&conversations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		var unread int64
		if err := s.db.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversation.ID, actorID).
			Count(&unread).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to count unread messages: %w", err)
		}

		var last models.Message
		summary := ConversationSummary{Conversation: conversation, UnreadCount: unread}
		if err := s.db.Where("conversation_id = ?", conversation.ID).
			Order("created_at desc").
			First(&last).Error; err == nil {
			summary.LastMessage = &last
		}

		summaries = append(summaries, summary)
	}

	return summaries, total, nil
}

// ListMessages returns a conversation's messages oldest first. Participants
// only.
func (s *ChatService) ListMessages(conversationID, actorID uuid.UUID, params utils.PaginationParams) ([]models.Message, int64, error) {
	var conversation models.Conversation
	if err := s.db.First(&conversation, "id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	if !conversation.IsParticipant(actorID) {
		return nil, 0, ErrNotParticipant
	}

	query := s.db.Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Preload("Sender")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query = query.Order("created_at asc")
	query = utils.ApplyPagination(query, params)

	var messages []models.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return messages, total, nil
}

// MarkRead stamps read_at on the counterpart's unread messages. The sender
// can never mark their own messages read; the filter excludes them.
func (s *ChatService) MarkRead(conversationID, actorID uuid.UUID) (int64, error) {
	var conversation models.Conversation
	if err := s.db.First(&conversation, "id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("database error: %w", err)
	}

	if !conversation.IsParticipant(actorID) {
		return 0, ErrNotParticipant
	}

	result := s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, actorID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", result.Error)
	}

	return result.RowsAffected, nil
}
