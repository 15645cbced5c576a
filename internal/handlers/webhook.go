// internal/handlers/webhook.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/anondesigns/dsm-backend/internal/config"
	"github.com/anondesigns/dsm-backend/internal/services"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

const maxWebhookBodyBytes = 65536

// WebhookHandler receives payment events from Stripe. Signature verification
// is mandatory; an unverifiable payload is rejected before any parsing.
type WebhookHandler struct {
	cfg             *config.Config
	purchaseService *services.PurchaseService
	logger          *logrus.Logger
}

func NewWebhookHandler(cfg *config.Config, purchaseService *services.PurchaseService, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:             cfg,
		purchaseService: purchaseService,
		logger:          logger,
	}
}

func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	if h.cfg.Payment.StripeWebhookSecret == "" {
		utils.InternalErrorResponse(c, utils.CodeConfigError, "Payment webhook is not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read request body", nil)
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.cfg.Payment.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.logger.WithError(err).Warn("stripe signature verification failed")
		utils.BadRequestResponse(c, "Signature verification failed", nil)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			utils.BadRequestResponse(c, "Failed to parse checkout session", nil)
			return
		}

		purchase, err := h.purchaseService.ConfirmCheckout(&session)
		if err != nil {
			h.logger.WithError(err).WithField("session_id", session.ID).
				Error("failed to confirm checkout")
			// A session for a design sold in the meantime is not retryable;
			// acknowledge so Stripe stops redelivering. Refund is an
			// operational follow-up keyed off this log line.
			c.JSON(http.StatusOK, gin.H{"status": "rejected"})
			return
		}

		h.logger.WithFields(logrus.Fields{
			"session_id":  session.ID,
			"purchase_id": purchase.ID,
		}).Info("checkout confirmed")
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		// Unhandled event types are acknowledged, not errored.
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}
