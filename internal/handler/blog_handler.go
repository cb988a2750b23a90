package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/internal/service"
	"github.com/hpclab/labsite/pkg/response"
	"github.com/hpclab/labsite/pkg/validator"
)

// BlogHandler serves the dashboard activity editor, the public activity page
// and the gated attachment downloads.
type BlogHandler struct {
	blogService  service.BlogService
	groupService service.GroupService
}

func NewBlogHandler(blogService service.BlogService, groupService service.GroupService) *BlogHandler {
	return &BlogHandler{
		blogService:  blogService,
		groupService: groupService,
	}
}

// openUploads opens the multipart files under field. The returned closer must
// run after the service call.
func openUploads(c *gin.Context, field string) ([]service.FileUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all is fine: the post just has no files.
		return nil, func() {}, nil
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	uploads := make([]service.FileUpload, 0, len(form.File[field]))
	for _, header := range form.File[field] {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		uploads = append(uploads, service.FileUpload{Name: header.Filename, Content: f})
	}
	return uploads, closeAll, nil
}

func (h *BlogHandler) Save(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.BlogInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	uploads, closeUploads, err := openUploads(c, "attachments")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read attachments"})
		return
	}
	defer closeUploads()

	blog, err := h.blogService.Save(c.Request.Context(), userID, response.IsAdmin(c), input, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

func (h *BlogHandler) List(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	blogs, err := h.blogService.List(c.Request.Context(), userID, response.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, blogs)
}

func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	blog, err := h.blogService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.blogService.Delete(c.Request.Context(), userID, response.IsAdmin(c), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
}

// Public lists activity posts for the public page, optionally filtered by
// group, together with the group filter choices.
func (h *BlogHandler) Public(c *gin.Context) {
	var groupID *uuid.UUID
	if raw := c.Query("group"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
			return
		}
		groupID = &id
	}

	if raw := c.Query("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		blog, err := h.blogService.Get(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, blog)
		return
	}

	blogs, err := h.blogService.ListPublic(c.Request.Context(), groupID)
	if err != nil {
		response.Error(c, err)
		return
	}

	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	page := dto.ActivityPage{Blogs: blogs, Groups: make([]model.Group, 0, len(groups))}
	for _, g := range groups {
		page.Groups = append(page.Groups, *g)
	}
	c.JSON(http.StatusOK, page)
}

func (h *BlogHandler) DeleteFile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.blogService.DeleteFile(c.Request.Context(), userID, response.IsAdmin(c), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}

// Download streams an attachment. The route sits behind the auth middleware,
// which accepts the session cookie, so a plain browser link works once logged
// in.
func (h *BlogHandler) Download(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	file, absPath, err := h.blogService.OpenFile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.FileAttachment(absPath, file.Name)
}
