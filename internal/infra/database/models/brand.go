package models

import (
	"time"
)

// BrandConfig stores one brand's policy document as JSON text, keyed by the
// normalized brand name.
type BrandConfig struct {
	Name      string    `json:"name" gorm:"type:text;primaryKey"`
	Document  string    `json:"document" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}
