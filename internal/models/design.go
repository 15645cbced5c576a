// internal/models/design.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Design struct {
	BaseModel
	DesignerID        uuid.UUID      `json:"designer_id" gorm:"type:uuid;not null;index"`
	Title             string         `json:"title" gorm:"size:255;not null"`
	Description       string         `json:"description" gorm:"type:text;not null"`
	PreviewURL        string         `json:"preview_url" gorm:"size:1024;not null"`
	SourceURL         string         `json:"source_url" gorm:"size:1024;not null"`
	SourceKey         string         `json:"-" gorm:"size:512"` // blob key for presigned downloads
	PriceNonExclusive float64        `json:"price_non_exclusive" gorm:"type:decimal(10,2);not null"`
	PriceExclusive    float64        `json:"price_exclusive" gorm:"type:decimal(10,2);not null"`
	Tags              pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status            DesignStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// Relationships
	Designer  Profile    `json:"designer,omitempty" gorm:"foreignKey:DesignerID"`
	Purchases []Purchase `json:"purchases,omitempty" gorm:"foreignKey:DesignID"`
}
