// internal/services/design_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/anondesigns/dsm-backend/internal/config"
	"github.com/anondesigns/dsm-backend/internal/models"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

type DesignService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	storageService      *StorageService
	notificationService *NotificationService
}

func NewDesignService(db *gorm.DB, cfg *config.Config, storageService *StorageService, notificationService *NotificationService) *DesignService {
	return &DesignService{
		db:                  db,
		cfg:                 cfg,
		storageService:      storageService,
		notificationService: notificationService,
	}
}

// ValidationFailedError carries the human-readable reason returned to the
// submitter. Each validation rule produces a distinct message.
type ValidationFailedError struct {
	Message string
}

func (e *ValidationFailedError) Error() string {
	return e.Message
}

func validationFailed(message string) error {
	return &ValidationFailedError{Message: message}
}

// FileTooLargeError marks a size-ceiling violation, which gets its own wire
// code distinct from the other validation failures.
type FileTooLargeError struct {
	Message string
}

func (e *FileTooLargeError) Error() string {
	return e.Message
}

// SubmissionInput is the raw form payload of a design submission. Prices
// arrive as strings; tags arrive either as a JSON array or comma-separated.
type SubmissionInput struct {
	Title             string
	Description       string
	PriceNonExclusive string
	PriceExclusive    string
	Tags              string
	PreviewSize       int64
	HasPreview        bool
	SourceSize        int64
	HasSource         bool
}

// ValidatedSubmission is the normalized record ready for persistence. Status
// is always pending; no caller-supplied status survives validation.
type ValidatedSubmission struct {
	Title             string
	Description       string
	PriceNonExclusive float64
	PriceExclusive    float64
	Tags              []string
}

// ValidateSubmission applies the submission rules in order and stops at the
// first violation.
func ValidateSubmission(input SubmissionInput, limits config.UploadConfig) (*ValidatedSubmission, error) {
	title := strings.TrimSpace(input.Title)
	if utf8.RuneCountInString(title) < 3 {
		return nil, validationFailed("Title must be at least 3 characters long")
	}

	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) < 10 {
		return nil, validationFailed("Description must be at least 10 characters long")
	}

	nonExclusive, err := strconv.ParseFloat(strings.TrimSpace(input.PriceNonExclusive), 64)
	if err != nil || nonExclusive <= 0 {
		return nil, validationFailed("Non-exclusive price must be a valid number greater than $0. Example: 49.99")
	}

	exclusive, err := strconv.ParseFloat(strings.TrimSpace(input.PriceExclusive), 64)
	if err != nil || exclusive <= 0 {
		return nil, validationFailed("Exclusive price must be a valid number greater than $0. Example: 499.99")
	}

	if exclusive <= nonExclusive {
		return nil, validationFailed("Exclusive price must be higher than non-exclusive price")
	}

	if !input.HasPreview || input.PreviewSize == 0 {
		return nil, validationFailed("Design preview image is required")
	}

	if input.PreviewSize > limits.MaxPreviewSize {
		return nil, &FileTooLargeError{Message: fmt.Sprintf("Preview image must be smaller than %dMB", limits.MaxPreviewSize/(1024*1024))}
	}

	if !input.HasSource || input.SourceSize == 0 {
		return nil, validationFailed("Design source file is required")
	}

	if input.SourceSize > limits.MaxSourceSize {
		return nil, &FileTooLargeError{Message: fmt.Sprintf("Source file must be smaller than %dMB", limits.MaxSourceSize/(1024*1024))}
	}

	return &ValidatedSubmission{
		Title:             title,
		Description:       description,
		PriceNonExclusive: nonExclusive,
		PriceExclusive:    exclusive,
		Tags:              ParseTags(input.Tags),
	}, nil
}

// ParseTags accepts either a JSON array of strings or a comma-separated
// list. Entries are trimmed and empties dropped.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var fromJSON []string
	if err := json.Unmarshal([]byte(raw), &fromJSON); err == nil {
		tags := make([]string, 0, len(fromJSON))
		for _, tag := range fromJSON {
			if t := strings.TrimSpace(tag); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

type SubmitDesignFiles struct {
	Preview       multipart.File
	PreviewHeader *multipart.FileHeader
	Source        multipart.File
	SourceHeader  *multipart.FileHeader
}

// SubmitDesign validates, uploads both files, and persists the design with
// status pending.
func (s *DesignService) SubmitDesign(designerID uuid.UUID, input SubmissionInput, files SubmitDesignFiles) (*models.Design, error) {
	validated, err := ValidateSubmission(input, s.cfg.Upload)
	if err != nil {
		return nil, err
	}

	if !s.storageService.Configured() {
		return nil, fmt.Errorf("%w: blob storage", ErrConfig)
	}

	if err := s.storageService.ValidateImage(files.Preview); err != nil {
		return nil, validationFailed("Preview must be a valid JPEG, PNG, GIF, or WebP image")
	}

	previewResult, err := s.storageService.UploadFile(files.Preview, files.PreviewHeader, s.storageService.PreviewUploadOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: preview: %v", ErrBlobUpload, err)
	}

	sourceResult, err := s.storageService.UploadFile(files.Source, files.SourceHeader, s.storageService.SourceUploadOptions())
	if err != nil {
		// Don't leave the preview orphaned
		s.storageService.DeleteFile(previewResult.Key)
		return nil, fmt.Errorf("%w: source: %v", ErrBlobUpload, err)
	}

	design := &models.Design{
		DesignerID:        designerID,
		Title:             validated.Title,
		Description:       validated.Description,
		PreviewURL:        previewResult.URL,
		SourceURL:         sourceResult.URL,
		SourceKey:         sourceResult.Key,
		PriceNonExclusive: validated.PriceNonExclusive,
		PriceExclusive:    validated.PriceExclusive,
		Tags:              pq.StringArray(validated.Tags),
		Status:            models.DesignStatusPending,
	}

	if err := s.db.Create(design).Error; err != nil {
		return nil, fmt.Errorf("%w: design: %v", ErrDBInsert, err)
	}

	return design, nil
}

type DesignSearchParams struct {
	utils.PaginationParams
	Tag string
}

// ListMarketplace returns approved designs only, newest first by default.
func (s *DesignService) ListMarketplace(params DesignSearchParams) ([]models.Design, int64, error) {
	query := s.db.Model(&models.Design{}).
		Where("status = ?", models.DesignStatusApproved).
		Preload("Designer")

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	if params.Tag != "" {
		query = query.Where("? = ANY(tags)", params.Tag)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count designs: %w", err)
	}

	allowedSortFields := []string{"created_at", "price_non_exclusive", "price_exclusive", "title"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var designs []models.Design
	if err := query.Find(&designs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch designs: %w", err)
	}

	return designs, total, nil
}

func (s *DesignService) GetDesign(id uuid.UUID) (*models.Design, error) {
	var design models.Design
	if err := s.db.Preload("Designer").First(&design, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &design, nil
}

// ListByDesigner powers the designer dashboard: own designs, any status.
func (s *DesignService) ListByDesigner(designerID uuid.UUID, params utils.PaginationParams) ([]models.Design, int64, error) {
	query := s.db.Model(&models.Design{}).Where("designer_id = ?", designerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count designs: %w", err)
	}

	allowedSortFields := []string{"created_at", "status", "title"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var designs []models.Design
	if err := query.Find(&designs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch designs: %w", err)
	}

	return designs, total, nil
}

// ListPending is the moderation queue, oldest submission first.
func (s *DesignService) ListPending(params utils.PaginationParams) ([]models.Design, int64, error) {
	query := s.db.Model(&models.Design{}).
		Where("status = ?", models.DesignStatusPending).
		Preload("Designer")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending designs: %w", err)
	}

	query = query.Order("created_at asc")
	query = utils.ApplyPagination(query, params)

	var designs []models.Design
	if err := query.Find(&designs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch pending designs: %w", err)
	}

	return designs, total, nil
}

// Moderate transitions a design between moderation states. Only admins may
// call it; the rejection reason is logged, not persisted.
func (s *DesignService) Moderate(designID uuid.UUID, decision models.DesignStatus, actorRole models.Role, reason string) (*models.Design, error) {
	if actorRole != models.RoleAdmin {
		return nil, ErrUnauthorized
	}

	if decision != models.DesignStatusApproved && decision != models.DesignStatusRejected {
		return nil, ErrInvalidState
	}

	var design models.Design
	if err := s.db.First(&design, "id = ?", designID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !design.Status.CanTransition(decision) {
		return nil, ErrInvalidState
	}

	design.Status = decision
	if err := s.db.Save(&design).Error; err != nil {
		return nil, fmt.Errorf("failed to update design status: %w", err)
	}

	s.notificationService.NotifyModerationDecision(&design, decision, reason)

	return &design, nil
}
