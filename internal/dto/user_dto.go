package dto

import (
	"github.com/google/uuid"

	"github.com/hpclab/labsite/internal/model"
)

// SaveUserInput serves the admin create-or-update operation: without an ID it
// creates an account (username, password and both names then required), with
// an ID it partially updates the existing one.
type SaveUserInput struct {
	ID *uuid.UUID `json:"id"`

	Username     *string       `json:"username"`
	Password     *string       `json:"password"`
	Name         *string       `json:"name"`
	NameEn       *string       `json:"name_en"`
	Role         *model.Role   `json:"role"`
	Admin        *bool         `json:"admin"`
	SupervisorID *uuid.UUID    `json:"supervisor_id"`
	Groups       *[]uuid.UUID  `json:"groups"`
	Graduate     *bool         `json:"graduate"`
	Interests    *string       `json:"interests"`
	Introduction *string       `json:"introduction"`
	Email        *string       `json:"email"`
	Homepage     *string       `json:"homepage"`
}

// UserSummary is the admin user-list projection.
type UserSummary struct {
	ID         uuid.UUID     `json:"id"`
	Username   string        `json:"username"`
	Name       string        `json:"name"`
	NameEn     string        `json:"name_en"`
	Photo      string        `json:"photo"`
	Admin      bool          `json:"admin"`
	Role       model.Role    `json:"role"`
	Graduate   bool          `json:"graduate"`
	Supervisor *MemberRef    `json:"supervisor,omitempty"`
	Groups     []GroupRef    `json:"groups"`
}

type GroupRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
