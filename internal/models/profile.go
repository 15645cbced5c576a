// internal/models/profile.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Profile is the single role-tagged record backing every authenticated
// identity. The role is fixed at creation.
type Profile struct {
	BaseModel
	DisplayName  string     `json:"display_name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Role         Role       `json:"role" gorm:"type:varchar(20);not null;index"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Designs   []Design   `json:"designs,omitempty" gorm:"foreignKey:DesignerID"`
	Purchases []Purchase `json:"purchases,omitempty" gorm:"foreignKey:BuyerID"`
}

func (p *Profile) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hashedPassword)
	return nil
}

func (p *Profile) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
}
