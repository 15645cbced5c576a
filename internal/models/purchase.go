// internal/models/purchase.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase records a granted license. A buyer holds at most one purchase per
// design (unique index on design_id+buyer_id); an exclusive buyout holds the
// only purchase a design will ever have (partial unique index on design_id,
// created in database.createIndexes).
type Purchase struct {
	BaseModel
	DesignID    uuid.UUID   `json:"design_id" gorm:"type:uuid;not null;uniqueIndex:idx_purchases_design_buyer"`
	BuyerID     uuid.UUID   `json:"buyer_id" gorm:"type:uuid;not null;uniqueIndex:idx_purchases_design_buyer;index"`
	LicenseType LicenseType `json:"license_type" gorm:"type:varchar(20);not null;index"`
	PricePaid   float64     `json:"price_paid" gorm:"type:decimal(10,2);not null"`
	DownloadURL string      `json:"download_url" gorm:"size:1024"`
	PurchasedAt time.Time   `json:"purchased_at" gorm:"not null"`

	// Relationships
	Design      Design       `json:"design,omitempty" gorm:"foreignKey:DesignID"`
	Buyer       Profile      `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Transaction *Transaction `json:"transaction,omitempty" gorm:"foreignKey:PurchaseID"`
}

type Transaction struct {
	BaseModel
	PurchaseID       uuid.UUID         `json:"purchase_id" gorm:"type:uuid;not null;uniqueIndex"`
	BuyerID          uuid.UUID         `json:"buyer_id" gorm:"type:uuid;not null;index"`
	DesignerID       uuid.UUID         `json:"designer_id" gorm:"type:uuid;not null;index"`
	Amount           float64           `json:"amount" gorm:"type:decimal(10,2);not null"`
	PlatformFee      float64           `json:"platform_fee" gorm:"type:decimal(10,2);not null"`
	DesignerEarnings float64           `json:"designer_earnings" gorm:"type:decimal(10,2);not null"`
	Status           TransactionStatus `json:"status" gorm:"type:varchar(20);default:'completed';index"`
	EscrowStatus     EscrowStatus      `json:"escrow_status" gorm:"type:varchar(20);default:'held';index"`
	EscrowReleaseAt  *time.Time        `json:"escrow_release_at"`
	PaymentReference string            `json:"payment_reference" gorm:"size:255"`

	// Relationships
	Purchase Purchase `json:"purchase,omitempty" gorm:"foreignKey:PurchaseID"`
	Buyer    Profile  `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Designer Profile  `json:"designer,omitempty" gorm:"foreignKey:DesignerID"`
}
