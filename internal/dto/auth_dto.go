package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/hpclab/labsite/internal/model"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SignupInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	NameEn   string `json:"name_en" binding:"required"`

	Role         *model.Role `json:"role"`
	SupervisorID *uuid.UUID  `json:"supervisor_id"`
	Interests    *string     `json:"interests"`
	Introduction *string     `json:"introduction"`
	Email        *string     `json:"email"`
	Homepage     *string     `json:"homepage"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}
