// internal/services/purchase_service.go
package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	checkoutsession "github.com/stripe/stripe-go/v74/checkout/session"
	"gorm.io/gorm"

	"github.com/anondesigns/dsm-backend/internal/config"
	"github.com/anondesigns/dsm-backend/internal/models"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

type PurchaseService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	storageService      *StorageService
	notificationService *NotificationService
}

func NewPurchaseService(db *gorm.DB, cfg *config.Config, storageService *StorageService, notificationService *NotificationService) *PurchaseService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PurchaseService{
		db:                  db,
		cfg:                 cfg,
		storageService:      storageService,
		notificationService: notificationService,
	}
}

type CreatePurchaseRequest struct {
	DesignID    uuid.UUID          `json:"design_id" validate:"required"`
	LicenseType models.LicenseType `json:"license_type" validate:"required"`
}

type CheckoutSessionResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// ComputeFeeSplit divides a sale amount into the platform fee, rounded to
// cents, and the designer earnings as the remainder. The two parts always sum
// to the amount.
func ComputeFeeSplit(amount, feePercent float64) (platformFee, designerEarnings float64) {
	platformFee = math.Round(amount*feePercent) / 100
	designerEarnings = math.Round((amount-platformFee)*100) / 100
	return platformFee, designerEarnings
}

func priceForLicense(design *models.Design, licenseType models.LicenseType) float64 {
	if licenseType == models.LicenseTypeExclusiveBuyout {
		return design.PriceExclusive
	}
	return design.PriceNonExclusive
}

// CreatePurchase grants a license inside a serializable transaction. The
// in-transaction checks give clean error codes in the common case; the unique
// indexes on purchases are the arbiter when two buyers race, and a 23505 is
// translated back into the same errors the checks would have produced.
func (s *PurchaseService) CreatePurchase(buyerID uuid.UUID, designID uuid.UUID, licenseType models.LicenseType, paymentReference string) (*models.Purchase, error) {
	if !licenseType.Valid() {
		return nil, &ValidationFailedError{Message: "license_type must be non_exclusive or exclusive_buyout"}
	}

	var purchase *models.Purchase
	var transaction *models.Transaction

	// Serializable transactions abort with SQLSTATE 40001 when they lose a
	// concurrent race. Retrying lets the loser re-read the committed state and
	// fail with the right domain error (SOLD_EXCLUSIVELY, ALREADY_PURCHASED)
	// instead of a raw serialization error.
	var txErr error
	for attempt := 0; attempt < 3; attempt++ {
		purchase = nil
		transaction = nil
		txErr = s.createPurchaseTx(buyerID, designID, licenseType, paymentReference, &purchase, &transaction)
		if !serializationFailure(txErr) {
			break
		}
	}

	if txErr != nil {
		return nil, txErr
	}

	s.notificationService.NotifyPurchase(purchase, transaction)

	purchase.Transaction = transaction
	return purchase, nil
}

func (s *PurchaseService) createPurchaseTx(buyerID uuid.UUID, designID uuid.UUID, licenseType models.LicenseType, paymentReference string, purchaseOut **models.Purchase, transactionOut **models.Transaction) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var design models.Design
		if err := tx.First(&design, "id = ?", designID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if design.DesignerID == buyerID {
			return ErrUnauthorized
		}

		switch design.Status {
		case models.DesignStatusApproved:
			// purchasable
		case models.DesignStatusSoldExclusive:
			return ErrSoldExclusively
		default:
			return ErrInvalidState
		}

		var existingCount int64
		if err := tx.Model(&models.Purchase{}).
			Where("design_id = ? AND buyer_id = ?", designID, buyerID).
			Count(&existingCount).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if existingCount > 0 {
			return ErrAlreadyPurchased
		}

		amount := priceForLicense(&design, licenseType)
		platformFee, designerEarnings := ComputeFeeSplit(amount, s.cfg.Payment.PlatformFeePercent)

		purchase := &models.Purchase{
			DesignID:    designID,
			BuyerID:     buyerID,
			LicenseType: licenseType,
			PricePaid:   amount,
			PurchasedAt: time.Now(),
		}
		if err := tx.Create(purchase).Error; err != nil {
			return translatePurchaseInsertError(err)
		}

		// The stable access path; the actual blob link is presigned on demand.
		purchase.DownloadURL = "/v1/purchases/" + purchase.ID.String() + "/download"
		if err := tx.Model(purchase).Update("download_url", purchase.DownloadURL).Error; err != nil {
			return fmt.Errorf("failed to set download url: %w", err)
		}

		transaction := &models.Transaction{
			PurchaseID:       purchase.ID,
			BuyerID:          buyerID,
			DesignerID:       design.DesignerID,
			Amount:           amount,
			PlatformFee:      platformFee,
			DesignerEarnings: designerEarnings,
			Status:           models.TransactionStatusCompleted,
			EscrowStatus:     models.EscrowStatusHeld,
			PaymentReference: paymentReference,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		*purchaseOut = purchase
		*transactionOut = transaction

		if licenseType == models.LicenseTypeExclusiveBuyout {
			if !design.Status.CanTransition(models.DesignStatusSoldExclusive) {
				return ErrInvalidState
			}
			if err := tx.Model(&models.Design{}).
				Where("id = ?", designID).
				Update("status", models.DesignStatusSoldExclusive).Error; err != nil {
				return fmt.Errorf("failed to mark design sold: %w", err)
			}

			// An exclusive sale ends all negotiation on the design.
			if err := tx.Model(&models.Conversation{}).
				Where("design_id = ? AND status = ?", designID, models.ConversationStatusActive).
				Update("status", models.ConversationStatusClosed).Error; err != nil {
				return fmt.Errorf("failed to close conversations: %w", err)
			}
		}

		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func translatePurchaseInsertError(err error) error {
	constraint, dup := uniqueViolation(err)
	if !dup {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	if constraint == "idx_purchases_exclusive" {
		return ErrSoldExclusively
	}
	return ErrAlreadyPurchased
}

// CreateCheckoutSession opens a Stripe Checkout session for a design license.
// The purchase itself is only granted when the payment webhook confirms the
// session, so a stale session for a design sold in the meantime simply fails
// the licensing checks at confirmation time.
func (s *PurchaseService) CreateCheckoutSession(buyerID uuid.UUID, req *CreatePurchaseRequest) (*CheckoutSessionResponse, error) {
	if !req.LicenseType.Valid() {
		return nil, &ValidationFailedError{Message: "license_type must be non_exclusive or exclusive_buyout"}
	}
	if s.cfg.Payment.StripeSecretKey == "" {
		return nil, fmt.Errorf("%w: stripe", ErrConfig)
	}

	var design models.Design
	if err := s.db.First(&design, "id = ?", req.DesignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if design.DesignerID == buyerID {
		return nil, ErrUnauthorized
	}

	switch design.Status {
	case models.DesignStatusApproved:
		// purchasable
	case models.DesignStatusSoldExclusive:
		return nil, ErrSoldExclusively
	default:
		return nil, ErrInvalidState
	}

	var existingCount int64
	if err := s.db.Model(&models.Purchase{}).
		Where("design_id = ? AND buyer_id = ?", req.DesignID, buyerID).
		Count(&existingCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existingCount > 0 {
		return nil, ErrAlreadyPurchased
	}

	amount := priceForLicense(&design, req.LicenseType)
	amountInCents := int64(math.Round(amount * 100))

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.cfg.Frontend.BaseURL + "/purchases?checkout=success"),
		CancelURL:  stripe.String(s.cfg.Frontend.BaseURL + "/designs/" + design.ID.String() + "?checkout=canceled"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(amountInCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(design.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(buyerID.String()),
	}
	params.AddMetadata("design_id", design.ID.String())
	params.AddMetadata("designer_id", design.DesignerID.String())
	params.AddMetadata("buyer_id", buyerID.String())
	params.AddMetadata("license_type", string(req.LicenseType))

	session, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSessionResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

// ConfirmCheckout grants the purchase a completed Stripe session paid for.
// All licensing checks run again here; a session created before an exclusive
// sale closed the design is rejected, not honored.
func (s *PurchaseService) ConfirmCheckout(session *stripe.CheckoutSession) (*models.Purchase, error) {
	designID, err := uuid.Parse(session.Metadata["design_id"])
	if err != nil {
		return nil, fmt.Errorf("checkout session missing design_id metadata: %w", err)
	}
	buyerID, err := uuid.Parse(session.Metadata["buyer_id"])
	if err != nil {
		return nil, fmt.Errorf("checkout session missing buyer_id metadata: %w", err)
	}
	licenseType := models.LicenseType(session.Metadata["license_type"])
	if !licenseType.Valid() {
		return nil, fmt.Errorf("checkout session has invalid license_type metadata: %q", session.Metadata["license_type"])
	}

	paymentReference := session.ID
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		paymentReference = session.PaymentIntent.ID
	}

	purchase, err := s.CreatePurchase(buyerID, designID, licenseType, paymentReference)
	if errors.Is(err, ErrAlreadyPurchased) {
		// Webhook retry after a successful grant; return the existing row.
		var existing models.Purchase
		if findErr := s.db.Preload("Transaction").
			First(&existing, "design_id = ? AND buyer_id = ?", designID, buyerID).Error; findErr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return purchase, err
}

// DemoPurchase is the synchronous path used outside production when Stripe is
// not wired up. It fabricates a payment reference instead of charging anyone.
func (s *PurchaseService) DemoPurchase(buyerID uuid.UUID, req *CreatePurchaseRequest) (*models.Purchase, error) {
	if !s.cfg.Payment.DemoCheckout {
		return nil, ErrUnauthorized
	}

	reference, err := utils.GeneratePaymentReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment reference: %w", err)
	}

	return s.CreatePurchase(buyerID, req.DesignID, req.LicenseType, reference)
}

func (s *PurchaseService) ListPurchases(buyerID uuid.UUID, params utils.PaginationParams) ([]models.Purchase, int64, error) {
	query := s.db.Model(&models.Purchase{}).
		Where("buyer_id = ?", buyerID).
		Preload("Design").
		Preload("Transaction")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchases: %w", err)
	}

	query = query.Order("purchased_at desc")
	query = utils.ApplyPagination(query, params)

	var purchases []models.Purchase
	if err := query.Find(&purchases).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchases: %w", err)
	}

	return purchases, total, nil
}

// GetDownloadURL issues a short-lived link to the private source file. Only
// the buyer who holds the license may fetch it.
func (s *PurchaseService) GetDownloadURL(purchaseID, buyerID uuid.UUID) (string, error) {
	var purchase models.Purchase
	if err := s.db.Preload("Design").First(&purchase, "id = ?", purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	if purchase.BuyerID != buyerID {
		return "", ErrUnauthorized
	}

	url, err := s.storageService.GeneratePresignedURL(purchase.Design.SourceKey, 15*time.Minute)
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}

	return url, nil
}

// ReleaseEscrow moves a transaction's funds from held to released. Only the
// buyer may release, and only once.
func (s *PurchaseService) ReleaseEscrow(transactionID, actorID uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transaction, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if transaction.BuyerID != actorID {
			return ErrUnauthorized
		}

		if transaction.EscrowStatus != models.EscrowStatusHeld {
			return ErrInvalidState
		}

		now := time.Now()
		result := tx.Model(&models.Transaction{}).
			Where("id = ? AND escrow_status = ?", transactionID, models.EscrowStatusHeld).
			Updates(map[string]interface{}{
				"escrow_status":     models.EscrowStatusReleased,
				"escrow_release_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to release escrow: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Someone else released it between the read and the update.
			return ErrInvalidState
		}

		transaction.EscrowStatus = models.EscrowStatusReleased
		transaction.EscrowReleaseAt = &now
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.notificationService.NotifyEscrowReleased(&transaction)

	return &transaction, nil
}
