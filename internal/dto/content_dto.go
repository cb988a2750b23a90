package dto

import (
	"time"

	"github.com/google/uuid"
)

// SaveContentInput serves news and achievement create-or-update. Creation
// requires the full bilingual title/content pairs; updates are partial.
type SaveContentInput struct {
	ID        *uuid.UUID `json:"id"`
	Title     *string    `json:"title"`
	TitleEn   *string    `json:"title_en"`
	Content   *string    `json:"content"`
	ContentEn *string    `json:"content_en"`
	Date      *time.Time `json:"date"`
}

// ContentSummary is a list entry with the title already projected to the
// requested language.
type ContentSummary struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	VisitCount int64     `json:"visit_count"`
}

// ContentDetail is a single public item, language-projected.
type ContentDetail struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Date       time.Time `json:"date"`
	VisitCount int64     `json:"visit_count"`
}
