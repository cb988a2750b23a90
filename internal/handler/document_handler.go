package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hpclab/labsite/internal/service"
	"github.com/hpclab/labsite/pkg/response"
)

// DocumentHandler serves the public data-resource downloads and their
// authenticated management.
type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// Upload takes a batch of files plus one description per file in the
// "information" form field. A count mismatch rejects the whole batch.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	uploads, closeUploads, err := openUploads(c, "files")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read files"})
		return
	}
	defer closeUploads()

	introductions := c.PostFormArray("information")

	docs, err := h.documentService.Upload(c.Request.Context(), userID, uploads, introductions)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, docs)
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	doc, absPath, err := h.documentService.Open(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.FileAttachment(absPath, doc.Name)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}
