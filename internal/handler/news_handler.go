package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/service"
	"github.com/hpclab/labsite/pkg/response"
	"github.com/hpclab/labsite/pkg/validator"
)

// NewsHandler serves the public news pages and the admin editor. The public
// single-item fetch is the only path that counts a visit.
type NewsHandler struct {
	newsService service.NewsService
}

func NewNewsHandler(newsService service.NewsService) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
	}
}

func (h *NewsHandler) ListAdmin(c *gin.Context) {
	items, err := h.newsService.ListAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *NewsHandler) GetAdmin(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	item, err := h.newsService.GetAdmin(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *NewsHandler) Save(c *gin.Context) {
	var input dto.SaveContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	item, err := h.newsService.Save(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *NewsHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.newsService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "news deleted"})
}

// Admin returns the editor list, or a single full item when ?id= is present.
// No visit is counted on this path.
func (h *NewsHandler) Admin(c *gin.Context) {
	if c.Query("id") == "" {
		h.ListAdmin(c)
		return
	}
	h.GetAdmin(c)
}

// Public returns the full list, or a single visit-counted item when ?id= is
// present.
func (h *NewsHandler) Public(c *gin.Context) {
	lang := c.Query("lang")

	if c.Query("id") == "" {
		items, err := h.newsService.ListPublic(c.Request.Context(), lang)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
		return
	}

	id, ok := queryID(c)
	if !ok {
		return
	}

	item, err := h.newsService.GetPublic(c.Request.Context(), id, lang)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
