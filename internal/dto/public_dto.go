package dto

import (
	"github.com/google/uuid"

	"github.com/hpclab/labsite/internal/model"
)

// HomeResponse aggregates the homepage sections. A section whose read failed
// degrades to an empty list instead of failing the whole page.
type HomeResponse struct {
	TopNews         []ContentSummary `json:"top_news"`
	Slides          []model.Image    `json:"slides"`
	TopAchievements []ContentSummary `json:"top_achievements"`
	LatestBlogs     []BlogSummary    `json:"latest_blogs"`
}

// MemberSummary is a directory entry.
type MemberSummary struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Photo      string     `json:"photo"`
	Homepage   string     `json:"homepage,omitempty"`
	Interests  string     `json:"interests,omitempty"`
	Role       model.Role `json:"role"`
	Graduate   bool       `json:"graduate"`
	Supervisor string     `json:"supervisor,omitempty"`
}

// MemberDirectory splits the lab roster the way the member page renders it.
type MemberDirectory struct {
	Teachers []MemberSummary `json:"teachers"`
	Students []MemberSummary `json:"students"`
}

// ActivityPage is the public activity listing plus the group filter choices.
type ActivityPage struct {
	Blogs  []BlogSummary  `json:"blogs"`
	Groups []model.Group  `json:"groups"`
}

// SearchHit is one result from the optional content search.
type SearchHit struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Title string `json:"title"`
}
