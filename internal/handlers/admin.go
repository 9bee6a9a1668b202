package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bistro/internal/middleware"
	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/services"
	"github.com/example/bistro/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db      *gorm.DB
	reports *services.ReportService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, reports *services.ReportService) *AdminHandler {
	return &AdminHandler{db: db, reports: reports}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.reports.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// ListUsers returns registered users with pagination and search.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	db := h.db.WithContext(c.UserContext())
	query := db.Model(&models.User{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := utils.ContainsPattern(search)
		query = query.Where("LOWER(name) LIKE ? "+utils.LikeEscape+" OR LOWER(email) LIKE ? "+utils.LikeEscape, q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	// Enrich users with order counts and total spent
	type userStats struct {
		UserID     string
		OrderCount int64
		TotalSpent float64
	}

	ids := make([]interface{}, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var stats []userStats
	if len(ids) > 0 {
		if err := db.Model(&models.Order{}).
			Select("user_id, count(*) as order_count, COALESCE(SUM(total), 0) as total_spent").
			Where("user_id IN ? AND status <> ?", ids, models.OrderCancelled).
			Group("user_id").
			Scan(&stats).Error; err != nil {
			return err
		}
	}

	statsMap := make(map[string]userStats, len(stats))
	for _, s := range stats {
		statsMap[s.UserID] = s
	}

	type userResponse struct {
		models.User
		OrderCount int64   `json:"order_count"`
		TotalSpent float64 `json:"total_spent"`
	}

	result := make([]userResponse, len(users))
	for i, u := range users {
		result[i] = userResponse{User: u}
		if s, ok := statsMap[u.ID.String()]; ok {
			result[i].OrderCount = s.OrderCount
			result[i].TotalSpent = s.TotalSpent
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       result,
		"pagination": pg.Meta(total),
	})
}

// ToggleBlock blocks or unblocks a user. Admins cannot block themselves.
func (h *AdminHandler) ToggleBlock(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	principal := middleware.GetPrincipal(c)
	if principal.ID() == id {
		return fiber.NewError(fiber.StatusBadRequest, "you cannot block your own account")
	}

	db := h.db.WithContext(c.UserContext())
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	user.IsBlocked = !user.IsBlocked
	if err := db.Model(&user).Update("is_blocked", user.IsBlocked).Error; err != nil {
		return err
	}

	slog.Info("user block toggled",
		slog.String("user_id", user.ID.String()),
		slog.Bool("blocked", user.IsBlocked),
		slog.String("by", principal.ID().String()),
	)
	return c.JSON(fiber.Map{"success": true, "data": user})
}
