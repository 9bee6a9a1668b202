package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/bistro/internal/services"
)

// UploadHandler accepts image uploads.
type UploadHandler struct {
	uploads *services.UploadService
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload stores the multipart "image" field and returns its public URL.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	url, err := h.uploads.SaveImage(header)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "url": url})
}
