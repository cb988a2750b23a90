package dto

import (
	"time"

	"github.com/google/uuid"
)

// BlogInput is the multipart form of the activity editor. Attachment files
// ride alongside in the "attachments" file field.
type BlogInput struct {
	ID      *uuid.UUID `form:"id"`
	Title   string     `form:"title" binding:"required"`
	Content string     `form:"content" binding:"required"`
	GroupID *uuid.UUID `form:"group"`
}

type AttachmentRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type BlogSummary struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Date        time.Time       `json:"date"`
	Author      string          `json:"author,omitempty"`
	Group       string          `json:"group,omitempty"`
	Attachments []AttachmentRef `json:"attachments,omitempty"`
}

type BlogDetail struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Date        time.Time       `json:"date"`
	Author      string          `json:"author,omitempty"`
	Group       string          `json:"group,omitempty"`
	Attachments []AttachmentRef `json:"attachments"`
}
