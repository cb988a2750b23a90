package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is a homepage carousel slide.
type Image struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Path string    `gorm:"size:512;uniqueIndex;not null" json:"path"`
	Date time.Time `gorm:"not null" json:"date"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
