package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/service"
	"github.com/hpclab/labsite/pkg/response"
	"github.com/hpclab/labsite/pkg/validator"
)

type GroupHandler struct {
	groupService service.GroupService
}

func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// List returns all groups, or one user's memberships when ?user= is given.
func (h *GroupHandler) List(c *gin.Context) {
	if raw := c.Query("user"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		groups, err := h.groupService.ListByUser(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, groups)
		return
	}

	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) Save(c *gin.Context) {
	var input dto.SaveGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	group, err := h.groupService.Save(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "group deleted"})
}
