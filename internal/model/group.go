package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupCategory separates student seminar groups from faculty groups.
type GroupCategory int

const (
	GroupStudent GroupCategory = 0
	GroupFaculty GroupCategory = 1
)

// Group is a lab subdivision. Groups form a tree one level deep through the
// optional parent reference; an account can belong to any number of groups.
type Group struct {
	ID       uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string        `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Category GroupCategory `gorm:"not null;default:0" json:"category"`

	ParentID *uuid.UUID `gorm:"type:uuid" json:"parent_id,omitempty"`
	Parent   *Group     `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"parent,omitempty"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
