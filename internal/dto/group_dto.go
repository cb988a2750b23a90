package dto

import (
	"github.com/google/uuid"

	"github.com/hpclab/labsite/internal/model"
)

// SaveGroupInput creates a group when ID is absent and updates it otherwise.
type SaveGroupInput struct {
	ID       *uuid.UUID           `json:"id"`
	Name     *string              `json:"name"`
	Category *model.GroupCategory `json:"category"`
	ParentID *uuid.UUID           `json:"parent_id"`
}
