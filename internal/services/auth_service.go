// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anondesigns/dsm-backend/internal/config"
	"github.com/anondesigns/dsm-backend/internal/models"
	"github.com/anondesigns/dsm-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	DisplayName string      `json:"display_name" validate:"required,display_name"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,strong_password"`
	Role        models.Role `json:"role" validate:"required"`
}

type AuthResponse struct {
	Profile      *models.Profile `json:"profile"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Admin accounts are seeded, never self-registered
	if req.Role != models.RoleDesigner && req.Role != models.RoleBrandOwner {
		return nil, errors.New("role must be designer or brand_owner")
	}

	// Check if profile already exists
	var existing models.Profile
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, errors.New("this email is already registered")
	}

	profile := &models.Profile{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Email:       req.Email,
		Role:        req.Role,
	}

	if err := profile.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(profile).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			return nil, errors.New("this email is already registered")
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return s.issueTokens(profile)
}

// EnsureProfile guarantees exactly one profile row for an identity. An
// existing row is returned unchanged; otherwise one is inserted with the
// suggested display name and role, falling back to a name derived from the
// email local part (or the id prefix) and the brand_owner role. A concurrent
// duplicate insert is not an error: the winner's row is fetched and returned.
func (s *AuthService) EnsureProfile(id uuid.UUID, email, displayName string, role models.Role) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.First(&profile, "id = ?", id).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = fallbackDisplayName(id, email)
	}
	if !role.Valid() {
		role = models.RoleBrandOwner
	}
	if email == "" {
		// Email is unique; a provisioned row without one gets a
		// deterministic placeholder so two such rows never collide.
		email = id.String() + "@placeholder.invalid"
	}

	created := models.Profile{
		BaseModel:   models.BaseModel{ID: id},
		DisplayName: displayName,
		Email:       email,
		Role:        role,
	}

	if err := s.db.Create(&created).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			// Lost the race to another request; the row exists now.
			if err := s.db.First(&profile, "id = ?", id).Error; err != nil {
				return nil, fmt.Errorf("failed to fetch profile after duplicate insert: %w", err)
			}
			return &profile, nil
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return &created, nil
}

func fallbackDisplayName(id uuid.UUID, email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "user-" + id.String()[:8]
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var profile models.Profile
	if err := s.db.Where("email = ?", req.Email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := profile.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	// Update last login time
	now := time.Now()
	profile.LastLoginAt = &now
	s.db.Save(&profile)

	return s.issueTokens(&profile)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	profileIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid profile ID in token: %w", err)
	}

	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.issueTokens(&profile)
}

func (s *AuthService) GetProfileByID(profileID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &profile, nil
}

func (s *AuthService) issueTokens(profile *models.Profile) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		profile.ID,
		profile.DisplayName,
		string(profile.Role),
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(profile.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		Profile:      profile,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}
