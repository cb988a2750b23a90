package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the academic standing of an account. The admin privilege is an
// orthogonal flag, not a role.
type Role int

const (
	RoleUndergraduate Role = 0
	RoleMaster        Role = 1
	RoleDoctoral      Role = 2
	RoleFaculty       Role = 3
)

const DefaultPhoto = "/img/no_avatar.png"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	// Native-language and English display names.
	Name   string `gorm:"size:100;not null" json:"name"`
	NameEn string `gorm:"size:100;not null" json:"name_en"`
	Role   Role   `gorm:"not null;default:0" json:"role"`
	Admin  bool   `gorm:"not null;default:false" json:"admin"`

	SupervisorID *uuid.UUID `gorm:"type:uuid" json:"supervisor_id,omitempty"`
	Supervisor   *User      `gorm:"foreignKey:SupervisorID;constraint:OnDelete:SET NULL" json:"supervisor,omitempty"`

	Interests    string `gorm:"type:text" json:"interests"`
	Introduction string `gorm:"type:text" json:"introduction"`
	Email        string `gorm:"size:100" json:"email"`
	Homepage     string `gorm:"size:255" json:"homepage"`
	Photo        string `gorm:"size:255;not null;default:'/img/no_avatar.png'" json:"photo"`
	Graduate     bool   `gorm:"not null;default:false" json:"graduate"`

	Groups       []Group       `gorm:"many2many:user_groups;constraint:OnDelete:CASCADE" json:"groups,omitempty"`
	Publications []Publication `gorm:"constraint:OnDelete:CASCADE" json:"publications,omitempty"`
	Educations   []Education   `gorm:"constraint:OnDelete:CASCADE" json:"educations,omitempty"`
	Awards       []Award       `gorm:"constraint:OnDelete:CASCADE" json:"awards,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PublicationType distinguishes conference papers from journal articles.
type PublicationType int

const (
	PublicationConference PublicationType = 0
	PublicationJournal    PublicationType = 1
)

// Publication is a paper owned by exactly one account.
type Publication struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Title  string    `gorm:"size:255;not null" json:"title"`
	// Venue is the conference or journal name.
	Venue   string          `gorm:"size:255;not null" json:"name"`
	Type    PublicationType `gorm:"not null;default:0" json:"type"`
	Date    time.Time       `gorm:"not null" json:"date"`
	Authors string          `gorm:"type:text;not null" json:"authors"`
	Page    string          `gorm:"size:50" json:"page,omitempty"`
	Vol     string          `gorm:"size:50" json:"vol,omitempty"`
	Issue   string          `gorm:"size:50" json:"issue,omitempty"`
}

func (p *Publication) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EducationDegree is the degree pursued during an education period.
type EducationDegree int

const (
	DegreeBachelor EducationDegree = 0
	DegreeMaster   EducationDegree = 1
	DegreeDoctor   EducationDegree = 2
)

type Education struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Start  time.Time       `gorm:"not null" json:"start"`
	End    *time.Time      `json:"end,omitempty"`
	School string          `gorm:"size:255;not null" json:"school"`
	Major  string          `gorm:"size:255;not null" json:"major"`
	Degree EducationDegree `gorm:"not null;default:0" json:"type"`
}

func (e *Education) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type Award struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name   string    `gorm:"size:255;not null" json:"name"`
	// Date is recorded as free text ("2016", "Spring 2017").
	Date string `gorm:"size:50" json:"date"`
}

func (a *Award) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
