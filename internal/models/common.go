// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type Role string

const (
	RoleDesigner   Role = "designer"
	RoleBrandOwner Role = "brand_owner"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDesigner, RoleBrandOwner, RoleAdmin:
		return true
	}
	return false
}

type DesignStatus string

const (
	DesignStatusPending       DesignStatus = "pending"
	DesignStatusApproved      DesignStatus = "approved"
	DesignStatusRejected      DesignStatus = "rejected"
	DesignStatusSoldExclusive DesignStatus = "sold_exclusive"
)

// CanTransition reports whether a status change is allowed. Moderation moves
// pending designs to approved or rejected; approved designs become
// sold_exclusive only as a purchase side effect. Rejected and sold_exclusive
// are terminal.
func (s DesignStatus) CanTransition(to DesignStatus) bool {
	switch s {
	case DesignStatusPending:
		return to == DesignStatusApproved || to == DesignStatusRejected
	case DesignStatusApproved:
		return to == DesignStatusSoldExclusive
	}
	return false
}

type LicenseType string

const (
	LicenseTypeNonExclusive    LicenseType = "non_exclusive"
	LicenseTypeExclusiveBuyout LicenseType = "exclusive_buyout"
)

func (l LicenseType) Valid() bool {
	return l == LicenseTypeNonExclusive || l == LicenseTypeExclusiveBuyout
}

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

type EscrowStatus string

const (
	EscrowStatusHeld     EscrowStatus = "held"
	EscrowStatusReleased EscrowStatus = "released"
)

type ConversationStatus string

const (
	ConversationStatusActive ConversationStatus = "active"
	ConversationStatusClosed ConversationStatus = "closed"
)
