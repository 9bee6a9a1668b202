package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/bistro/internal/middleware"
	"github.com/example/bistro/internal/services"
)

// ProfileHandler manages the address book of the authenticated user.
type ProfileHandler struct {
	addresses *services.AddressService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(addresses *services.AddressService) *ProfileHandler {
	return &ProfileHandler{addresses: addresses}
}

func (h *ProfileHandler) ListAddresses(c *fiber.Ctx) error {
	list, err := h.addresses.List(c.UserContext(), middleware.GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}

func (h *ProfileHandler) CreateAddress(c *fiber.Ctx) error {
	var req services.AddressInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	list, err := h.addresses.Add(c.UserContext(), middleware.GetPrincipal(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": list})
}

func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req services.AddressInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	list, err := h.addresses.Update(c.UserContext(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}

func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	list, err := h.addresses.Delete(c.UserContext(), middleware.GetPrincipal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}
