package handlers

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bistro/internal/models"
)

// SettingsHandler manages the restaurant settings singleton.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// load returns the single settings row, creating it with defaults on first use.
func (h *SettingsHandler) load(db *gorm.DB) (*models.Settings, error) {
	settings := models.DefaultSettings()
	if err := db.Order("created_at asc").FirstOrCreate(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func validateSettings(input *models.Settings) error {
	if strings.TrimSpace(input.RestaurantName) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "restaurant_name is required")
	}
	if strings.TrimSpace(input.Email) != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid email format")
		}
	}
	if input.TaxRate < 0 || input.TaxRate > 1 {
		return fiber.NewError(fiber.StatusBadRequest, "tax_rate must be between 0 and 1")
	}
	if input.DeliveryFee < 0 || input.MinimumOrder < 0 || input.FreeDeliveryThreshold < 0 || input.DeliveryRadiusKm < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "delivery values must not be negative")
	}
	return nil
}

// GetSettings returns the current settings (public endpoint).
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.load(h.db.WithContext(c.UserContext()))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

// UpdateSettings overwrites the editable settings (admin endpoint).
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	existing, err := h.load(h.db.WithContext(c.UserContext()))
	if err != nil {
		return err
	}

	// Start from the stored row so omitted fields keep their values.
	input := *existing
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := validateSettings(&input); err != nil {
		return err
	}

	// Update explicitly to avoid overwriting immutable fields like id and
	// created_at with values from the client payload.
	existing.RestaurantName = strings.TrimSpace(input.RestaurantName)
	existing.Tagline = input.Tagline
	existing.Description = input.Description
	existing.Phone = input.Phone
	existing.Email = strings.TrimSpace(input.Email)
	existing.Address = input.Address
	existing.Currency = input.Currency
	existing.Hours = input.Hours

	existing.DeliveryEnabled = input.DeliveryEnabled
	existing.DeliveryRadiusKm = input.DeliveryRadiusKm
	existing.MinimumOrder = input.MinimumOrder
	existing.DeliveryFee = input.DeliveryFee
	existing.FreeDeliveryThreshold = input.FreeDeliveryThreshold
	existing.TaxRate = input.TaxRate

	existing.Social = input.Social

	if err := h.db.WithContext(c.UserContext()).Save(existing).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": existing})
}
