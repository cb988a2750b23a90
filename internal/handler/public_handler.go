package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hpclab/labsite/internal/service"
	"github.com/hpclab/labsite/pkg/response"
)

// PublicHandler serves the aggregate pages that need no authentication: the
// homepage, the member directory and the optional search.
type PublicHandler struct {
	homeService   service.HomeService
	searchService service.SearchService
}

func NewPublicHandler(homeService service.HomeService, searchService service.SearchService) *PublicHandler {
	return &PublicHandler{
		homeService:   homeService,
		searchService: searchService,
	}
}

func (h *PublicHandler) Home(c *gin.Context) {
	home, err := h.homeService.Home(c.Request.Context(), c.Query("lang"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, home)
}

// Members returns the roster, or one member's full profile when ?id= is
// present.
func (h *PublicHandler) Members(c *gin.Context) {
	if raw := c.Query("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		member, err := h.homeService.Member(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, member)
		return
	}

	dir, err := h.homeService.Members(c.Request.Context(), c.Query("lang"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dir)
}

func (h *PublicHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	if !h.searchService.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	hits, err := h.searchService.Search(query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, hits)
}
