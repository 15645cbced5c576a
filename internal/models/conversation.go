// internal/models/conversation.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the single messaging scope: one per (design, buyer).
// Starting a chat twice for the same pair returns the existing row.
type Conversation struct {
	BaseModel
	DesignID   uuid.UUID          `json:"design_id" gorm:"type:uuid;not null;uniqueIndex:idx_conversations_design_buyer"`
	BuyerID    uuid.UUID          `json:"buyer_id" gorm:"type:uuid;not null;uniqueIndex:idx_conversations_design_buyer;index"`
	DesignerID uuid.UUID          `json:"designer_id" gorm:"type:uuid;not null;index"`
	Status     ConversationStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Design   Design    `json:"design,omitempty" gorm:"foreignKey:DesignID"`
	Buyer    Profile   `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Designer Profile   `json:"designer,omitempty" gorm:"foreignKey:DesignerID"`
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

func (c *Conversation) IsParticipant(profileID uuid.UUID) bool {
	return c.BuyerID == profileID || c.DesignerID == profileID
}

// Message is append-only. ReadAt is set by the recipient, never the sender.
type Message struct {
	BaseModel
	ConversationID uuid.UUID  `json:"conversation_id" gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID  `json:"sender_id" gorm:"type:uuid;not null;index"`
	Content        string     `json:"content" gorm:"type:text;not null"`
	ReadAt         *time.Time `json:"read_at"`

	// Relationships
	Conversation Conversation `json:"conversation,omitempty" gorm:"foreignKey:ConversationID"`
	Sender       Profile      `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}
