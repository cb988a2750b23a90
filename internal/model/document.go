package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a public download: a dataset, paper, or book anyone can fetch
// without authentication.
type Document struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Introduction string    `gorm:"type:text" json:"introduction"`
	Size         int64     `gorm:"not null" json:"size"`
	Path         string    `gorm:"size:512;not null" json:"-"`
	Date         time.Time `gorm:"not null" json:"date"`

	UploaderID *uuid.UUID `gorm:"type:uuid;index" json:"uploader_id,omitempty"`
	Uploader   *User     `gorm:"foreignKey:UploaderID;constraint:OnDelete:SET NULL" json:"uploader,omitempty"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
