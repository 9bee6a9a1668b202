package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bistro/internal/middleware"
	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/services"
	"github.com/example/bistro/internal/utils"
)

// MenuHandler manages menu items and reviews.
type MenuHandler struct {
	catalog *services.CatalogService
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(catalog *services.CatalogService) *MenuHandler {
	return &MenuHandler{catalog: catalog}
}

// ListMenu returns paginated menu items with optional filters.
func (h *MenuHandler) ListMenu(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	items, total, err := h.catalog.ListMenu(c.UserContext(), services.MenuFilter{
		Category:  models.MenuCategory(strings.ToLower(c.Query("category"))),
		Search:    c.Query("search"),
		Featured:  c.QueryBool("featured"),
		Available: c.QueryBool("available"),
		Limit:     pg.Limit,
		Offset:    pg.Offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       items,
		"pagination": pg.Meta(total),
	})
}

func (h *MenuHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": models.MenuCategories})
}

// GetMenuItem loads an item with its reviews.
func (h *MenuHandler) GetMenuItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.catalog.GetMenuItem(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *MenuHandler) CreateMenuItem(c *fiber.Ctx) error {
	var req services.MenuItemInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	item, err := h.catalog.CreateMenuItem(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

func (h *MenuHandler) UpdateMenuItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req services.MenuItemInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	item, err := h.catalog.UpdateMenuItem(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *MenuHandler) DeleteMenuItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteMenuItem(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "menu item deleted"})
}

// ToggleAvailability flips is_available.
func (h *MenuHandler) ToggleAvailability(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.catalog.ToggleAvailability(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

// AddReview records a review and answers with the re-rated item.
func (h *MenuHandler) AddReview(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req services.ReviewInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	item, err := h.catalog.AddReview(c.UserContext(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}
