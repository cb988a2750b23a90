package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/service"
	"github.com/hpclab/labsite/pkg/response"
	"github.com/hpclab/labsite/pkg/validator"
)

type AchievementHandler struct {
	achievementService service.AchievementService
}

func NewAchievementHandler(achievementService service.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
	}
}

func (h *AchievementHandler) ListAdmin(c *gin.Context) {
	items, err := h.achievementService.ListAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *AchievementHandler) GetAdmin(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	item, err := h.achievementService.GetAdmin(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *AchievementHandler) Save(c *gin.Context) {
	var input dto.SaveContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	item, err := h.achievementService.Save(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *AchievementHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.achievementService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "achievement deleted"})
}

func (h *AchievementHandler) Admin(c *gin.Context) {
	if c.Query("id") == "" {
		h.ListAdmin(c)
		return
	}
	h.GetAdmin(c)
}

func (h *AchievementHandler) Public(c *gin.Context) {
	lang := c.Query("lang")

	if c.Query("id") == "" {
		items, err := h.achievementService.ListPublic(c.Request.Context(), lang)
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

	item, err := h.achievementService.GetPublic(c.Request.Context(), id, lang)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
