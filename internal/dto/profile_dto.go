package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/hpclab/labsite/internal/model"
)

// UpdateProfileInput carries the self-service editable profile fields. Role,
// admin flag and group membership are deliberately absent: those change only
// through the admin surface, and the password only through the dedicated
// password operation.
type UpdateProfileInput struct {
	Name         *string     `json:"name"`
	NameEn       *string     `json:"name_en"`
	Interests    *string     `json:"interests"`
	Introduction *string     `json:"introduction"`
	Email        *string     `json:"email"`
	Homepage     *string     `json:"homepage"`
	SupervisorID *uuid.UUID  `json:"supervisor_id"`
	Graduate     *bool       `json:"graduate"`
}

// ProfileResponse is the safe projection of an account: no password hash, no
// admin flag.
type ProfileResponse struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	NameEn       string     `json:"name_en"`
	Role         model.Role `json:"role"`
	Interests    string     `json:"interests"`
	Introduction string     `json:"introduction"`
	Email        string     `json:"email"`
	Homepage     string     `json:"homepage"`
	Photo        string     `json:"photo"`
	Graduate     bool       `json:"graduate"`

	Supervisor *MemberRef `json:"supervisor,omitempty"`

	Publications []model.Publication `json:"publications"`
	Educations   []model.Education   `json:"educations"`
	Awards       []model.Award       `json:"awards"`
	Groups       []model.Group       `json:"groups"`
}

// MemberRef is the inline summary used when expanding an account reference.
type MemberRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	NameEn string    `json:"name_en"`
}

type PublicationInput struct {
	Title   string                `json:"title" binding:"required"`
	Venue   string                `json:"name" binding:"required"`
	Type    model.PublicationType `json:"type" binding:"oneof=0 1"`
	Date    time.Time             `json:"date" binding:"required"`
	Authors string                `json:"authors" binding:"required"`
	Page    string                `json:"page"`
	Vol     string                `json:"vol"`
	Issue   string                `json:"issue"`
}

type EducationInput struct {
	Start  time.Time             `json:"start" binding:"required"`
	End    *time.Time            `json:"end"`
	School string                `json:"school" binding:"required"`
	Major  string                `json:"major" binding:"required"`
	Degree model.EducationDegree `json:"type" binding:"oneof=0 1 2"`
}

type AwardInput struct {
	Name string `json:"name" binding:"required"`
	Date string `json:"date"`
}
