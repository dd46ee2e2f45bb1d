package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-bff/internal/models"
)

// UploadHandler issues upload URLs.
type UploadHandler struct {
	uploads UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploads UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// UploadURL returns a presigned PUT URL valid for a few minutes.
// @Summary Presigned upload URL
// @Tags upload
// @Accept json
// @Produce json
// @Param body body models.UploadURLRequest true "File"
// @Success 200 {object} models.UploadURLResponse
// @Failure 400 {object} ErrorResponse
// @Router /upload/upload-url [post]
func (h *UploadHandler) UploadURL(c fiber.Ctx) error {
	var req models.UploadURLRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.uploads.UploadURL(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
