package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hpclab/labsite/internal/service"
	"github.com/hpclab/labsite/pkg/response"
)

// ImageHandler covers editor image uploads and the homepage carousel.
type ImageHandler struct {
	imageService service.ImageService
}

func NewImageHandler(imageService service.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

// StoreContent saves editor images and returns their URLs for embedding.
func (h *ImageHandler) StoreContent(c *gin.Context) {
	uploads, closeUploads, err := openUploads(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read images"})
		return
	}
	defer closeUploads()

	urls, err := h.imageService.StoreContent(uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"urls": urls})
}

func (h *ImageHandler) UploadCarousel(c *gin.Context) {
	uploads, closeUploads, err := openUploads(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read images"})
		return
	}
	defer closeUploads()

	images, err := h.imageService.UploadCarousel(c.Request.Context(), uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, images)
}

func (h *ImageHandler) ListCarousel(c *gin.Context) {
	images, err := h.imageService.ListCarousel(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

func (h *ImageHandler) DeleteCarousel(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.imageService.DeleteCarousel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
