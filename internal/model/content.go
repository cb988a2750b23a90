package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// News is a bilingual announcement. VisitCount is bumped atomically on every
// public single-item fetch and never on list views.
type News struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	TitleEn    string    `gorm:"size:255;not null" json:"title_en"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	ContentEn  string    `gorm:"type:text;not null" json:"content_en"`
	Date       time.Time `gorm:"not null" json:"date"`
	VisitCount int64     `gorm:"not null;default:0" json:"visit_count"`
}

func (n *News) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// Achievement is a bilingual research-result announcement. Same shape and
// visit-count behavior as News, kept as its own table and surface.
type Achievement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	TitleEn    string    `gorm:"size:255;not null" json:"title_en"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	ContentEn  string    `gorm:"type:text;not null" json:"content_en"`
	Date       time.Time `gorm:"not null" json:"date"`
	VisitCount int64     `gorm:"not null;default:0" json:"visit_count"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
