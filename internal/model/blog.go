package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blog is an activity post: a trip report, a seminar summary, or a group
// meeting log. Content is rich text and may embed uploaded image references.
type Blog struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title   string    `gorm:"size:255;not null" json:"title"`
	Content string    `gorm:"type:text;not null" json:"content"`

	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`

	// Set when the post is a group meeting summary.
	GroupID *uuid.UUID `gorm:"type:uuid" json:"group_id,omitempty"`
	Group   *Group     `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`

	Date time.Time `gorm:"not null" json:"date"`

	Attachments []File `gorm:"foreignKey:BlogID" json:"attachments,omitempty"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// File is a private attachment. Downloads require a valid session token.
type File struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:255;not null" json:"name"`
	Size int64     `gorm:"not null" json:"size"`
	Path string    `gorm:"size:512;not null" json:"-"`
	Date time.Time `gorm:"not null" json:"date"`

	PublisherID uuid.UUID  `gorm:"type:uuid;index" json:"publisher_id"`
	BlogID      *uuid.UUID `gorm:"type:uuid;index" json:"blog_id,omitempty"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
