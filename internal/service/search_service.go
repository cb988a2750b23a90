package service

import (
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
)

// SearchService maintains the optional full-text indexes for public content.
// Every method degrades to a no-op when no search backend is configured, so
// callers treat indexing as best effort.
type SearchService interface {
	IndexNews(item *model.News) error
	IndexAchievement(item *model.Achievement) error
	IndexBlog(blog *model.Blog) error
	DeleteNews(id string) error
	DeleteAchievement(id string) error
	DeleteBlog(id string) error
	Search(query string) ([]dto.SearchHit, error)
	Enabled() bool
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

const (
	indexNews         = "news"
	indexAchievements = "achievements"
	indexBlogs        = "blogs"
)

// NewSearchService accepts a nil client when search is disabled.
func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	if client != nil {
		s.initIndexes()
	}
	return s
}

func (s *meiliSearchService) Enabled() bool {
	return s.client != nil
}

func (s *meiliSearchService) initIndexes() {
	for _, name := range []string{indexNews, indexAchievements, indexBlogs} {
		_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
			Uid:        name,
			PrimaryKey: "id",
		})
		if err != nil {
			log.Printf("Failed to ensure search index %s: %v", name, err)
		}
	}
}

type contentDoc struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	TitleEn string `json:"title_en,omitempty"`
	Content string `json:"content"`
}

func (s *meiliSearchService) cleanContentForIndex(raw string) string {
	stripped := s.sanitizer.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

func (s *meiliSearchService) indexDoc(index string, doc contentDoc) error {
	if s.client == nil {
		return nil
	}
	task, err := s.client.Index(index).AddDocuments([]contentDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed %s document %s, task id: %d", index, doc.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) IndexNews(item *model.News) error {
	return s.indexDoc(indexNews, contentDoc{
		ID:      item.ID.String(),
		Title:   item.Title,
		TitleEn: item.TitleEn,
		Content: s.cleanContentForIndex(item.Content + " " + item.ContentEn),
	})
}

func (s *meiliSearchService) IndexAchievement(item *model.Achievement) error {
	return s.indexDoc(indexAchievements, contentDoc{
		ID:      item.ID.String(),
		Title:   item.Title,
		TitleEn: item.TitleEn,
		Content: s.cleanContentForIndex(item.Content + " " + item.ContentEn),
	})
}

func (s *meiliSearchService) IndexBlog(blog *model.Blog) error {
	return s.indexDoc(indexBlogs, contentDoc{
		ID:      blog.ID.String(),
		Title:   blog.Title,
		Content: s.cleanContentForIndex(blog.Content),
	})
}

func (s *meiliSearchService) deleteDoc(index string, id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(index).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) DeleteNews(id string) error {
	return s.deleteDoc(indexNews, id)
}

func (s *meiliSearchService) DeleteAchievement(id string) error {
	return s.deleteDoc(indexAchievements, id)
}

func (s *meiliSearchService) DeleteBlog(id string) error {
	return s.deleteDoc(indexBlogs, id)
}

// Search queries the three public indexes and merges the hits.
func (s *meiliSearchService) Search(query string) ([]dto.SearchHit, error) {
	if s.client == nil {
		return []dto.SearchHit{}, nil
	}

	kinds := map[string]string{
		indexNews:         "news",
		indexAchievements: "achievement",
		indexBlogs:        "activity",
	}

	hits := []dto.SearchHit{}
	for index, kind := range kinds {
		resp, err := s.client.Index(index).Search(query, &meilisearch.SearchRequest{Limit: 10})
		if err != nil {
			return nil, fmt.Errorf("search on %s failed: %w", index, err)
		}
		hits = append(hits, collectHits(kind, resp.Hits)...)
	}
	return hits, nil
}

// collectHits converts raw index hits into response entries. A hit that does
// not decode is skipped rather than failing the whole query.
func collectHits(kind string, found meilisearch.Hits) []dto.SearchHit {
	hits := make([]dto.SearchHit, 0, len(found))
	for _, raw := range found {
		var doc contentDoc
		if err := raw.DecodeInto(&doc); err != nil {
			log.Printf("Skipping malformed %s hit: %v", kind, err)
			continue
		}
		hits = append(hits, dto.SearchHit{Kind: kind, ID: doc.ID, Title: doc.Title})
	}
	return hits
}

func strPtr(s string) *string {
	return &s
}
