package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/services"
	"github.com/example/bistro/internal/utils"
)

// BookingHandler manages table reservations.
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler constructs BookingHandler.
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateBooking accepts a reservation request (public endpoint).
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req services.BookingInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": booking})
}

// ListBookings returns bookings filtered by status and date (admin).
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	bookings, total, err := h.bookings.List(c.UserContext(), services.BookingFilter{
		Status: models.BookingStatus(c.Query("status")),
		Date:   c.Query("date"),
		Limit:  pg.Limit,
		Offset: pg.Offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       bookings,
		"pagination": pg.Meta(total),
	})
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req bookingStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.UpdateStatus(c.UserContext(), id, models.BookingStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": booking})
}
