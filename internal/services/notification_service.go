// internal/services/notification_service.go
package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anondesigns/dsm-backend/internal/models"
)

// NotificationService records marketplace events for the people they affect.
// Delivery is structured logging for now; the call sites are the integration
// points for email or push later.
type NotificationService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewNotificationService(db *gorm.DB, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		db:     db,
		logger: logger,
	}
}

func (s *NotificationService) NotifyModerationDecision(design *models.Design, decision models.DesignStatus, reason string) {
	fields := logrus.Fields{
		"event":       "moderation_decision",
		"design_id":   design.ID,
		"designer_id": design.DesignerID,
		"decision":    decision,
	}
	if reason != "" {
		fields["reason"] = reason
	}
	s.logger.WithFields(fields).Info("design moderation decision recorded")
}

func (s *NotificationService) NotifyPurchase(purchase *models.Purchase, transaction *models.Transaction) {
	s.logger.WithFields(logrus.Fields{
		"event":        "design_purchased",
		"purchase_id":  purchase.ID,
		"design_id":    purchase.DesignID,
		"buyer_id":     purchase.BuyerID,
		"designer_id":  transaction.DesignerID,
		"license_type": purchase.LicenseType,
		"amount":       transaction.Amount,
	}).Info("design purchase recorded")
}

func (s *NotificationService) NotifyEscrowReleased(transaction *models.Transaction) {
	s.logger.WithFields(logrus.Fields{
		"event":          "escrow_released",
		"transaction_id": transaction.ID,
		"designer_id":    transaction.DesignerID,
		"earnings":       transaction.DesignerEarnings,
	}).Info("escrow released to designer")
}

func (s *NotificationService) NotifyNewMessage(message *models.Message, conversation *models.Conversation) {
	recipientID := conversation.BuyerID
	if message.SenderID == conversation.BuyerID {
		recipientID = conversation.DesignerID
	}

	s.logger.WithFields(logrus.Fields{
		"event":           "new_message",
		"conversation_id": conversation.ID,
		"message_id":      message.ID,
		"recipient_id":    recipientID,
	}).Info("message delivered to conversation")
}
