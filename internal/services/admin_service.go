// internal/services/admin_service.go
package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/anondesigns/dsm-backend/internal/config"
	"github.com/anondesigns/dsm-backend/internal/models"
)

type AdminService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:  db,
		cfg: cfg,
	}
}

type DashboardStats struct {
	TotalProfiles      int64   `json:"total_profiles"`
	TotalDesigners     int64   `json:"total_designers"`
	TotalBrandOwners   int64   `json:"total_brand_owners"`
	TotalDesigns       int64   `json:"total_designs"`
	PendingDesigns     int64   `json:"pending_designs"`
	ApprovedDesigns    int64   `json:"approved_designs"`
	SoldExclusively    int64   `json:"sold_exclusively"`
	TotalPurchases     int64   `json:"total_purchases"`
	PurchasesThisMonth int64   `json:"purchases_this_month"`
	GrossRevenue       float64 `json:"gross_revenue"`
	PlatformRevenue    float64 `json:"platform_revenue"`
	EscrowHeld         float64 `json:"escrow_held"`
	ActiveChats        int64   `json:"active_chats"`
}

// GetDashboardStats aggregates the admin overview numbers.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Profile{}).Count(&stats.TotalProfiles).Error; err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}
	s.db.Model(&models.Profile{}).Where("role = ?", models.RoleDesigner).Count(&stats.TotalDesigners)
	s.db.Model(&models.Profile{}).Where("role = ?", models.RoleBrandOwner).Count(&stats.TotalBrandOwners)

	if err := s.db.Model(&models.Design{}).Count(&stats.TotalDesigns).Error; err != nil {
		return nil, fmt.Errorf("failed to count designs: %w", err)
	}
	s.db.Model(&models.Design{}).Where("status = ?", models.DesignStatusPending).Count(&stats.PendingDesigns)
	s.db.Model(&models.Design{}).Where("status = ?", models.DesignStatusApproved).Count(&stats.ApprovedDesigns)
	s.db.Model(&models.Design{}).Where("status = ?", models.DesignStatusSoldExclusive).Count(&stats.SoldExclusively)

	if err := s.db.Model(&models.Purchase{}).Count(&stats.TotalPurchases).Error; err != nil {
		return nil, fmt.Errorf("failed to count purchases: %w", err)
	}

	monthStart := time.Now().AddDate(0, 0, -30)
	s.db.Model(&models.Purchase{}).Where("purchased_at >= ?", monthStart).Count(&stats.PurchasesThisMonth)

	var revenue struct {
		Gross    float64
		Platform float64
	}
	if err := s.db.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0) as gross, COALESCE(SUM(platform_fee), 0) as platform").
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	stats.GrossRevenue = revenue.Gross
	stats.PlatformRevenue = revenue.Platform

	var held struct {
		Total float64
	}
	if err := s.db.Model(&models.Transaction{}).
		Where("escrow_status = ?", models.EscrowStatusHeld).
		Select("COALESCE(SUM(designer_earnings), 0) as total").
		Scan(&held).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate held escrow: %w", err)
	}
	stats.EscrowHeld = held.Total

	s.db.Model(&models.Conversation{}).Where("status = ?", models.ConversationStatusActive).Count(&stats.ActiveChats)

	return stats, nil
}
