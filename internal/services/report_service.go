package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/bistro/internal/models"
)

const (
	revenueWindowDays = 30
	topItemsLimit     = 5
)

// activeStatuses are the orders the kitchen is still working on.
var activeStatuses = []models.OrderStatus{models.OrderPending, models.OrderPreparing, models.OrderReady}

type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type ItemSales struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type CategorySales struct {
	Category models.MenuCategory `json:"category"`
	Quantity int64               `json:"quantity"`
}

// DashboardStats is the admin dashboard summary. Cancelled orders are
// excluded from every figure.
type DashboardStats struct {
	TotalRevenue         float64         `json:"total_revenue"`
	TotalOrders          int64           `json:"total_orders"`
	ActiveOrders         int64           `json:"active_orders"`
	TotalCustomers       int64           `json:"total_customers"`
	TotalMenuItems       int64           `json:"total_menu_items"`
	DailyRevenue         []DailyRevenue  `json:"daily_revenue"`
	TopItems             []ItemSales     `json:"top_items"`
	CategoryDistribution []CategorySales `json:"category_distribution"`
}

// ReportService computes read-only aggregates over orders and users.
type ReportService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

func (s *ReportService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	billable := func() *gorm.DB {
		return db.Model(&models.Order{}).Where("status <> ?", models.OrderCancelled)
	}

	var totals []float64
	if err := billable().Pluck("total", &totals).Error; err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for _, t := range totals {
		revenue = revenue.Add(decimal.NewFromFloat(t))
	}
	stats.TotalRevenue = revenue.Round(2).InexactFloat64()
	stats.TotalOrders = int64(len(totals))

	if err := db.Model(&models.Order{}).Where("status IN ?", activeStatuses).
		Count(&stats.ActiveOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleUser).
		Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.MenuItem{}).Count(&stats.TotalMenuItems).Error; err != nil {
		return nil, err
	}

	daily, err := s.dailyRevenue(billable())
	if err != nil {
		return nil, err
	}
	stats.DailyRevenue = daily

	stats.TopItems = make([]ItemSales, 0, topItemsLimit)
	if err := db.Table("order_items").
		Select("order_items.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.price * order_items.quantity) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.OrderCancelled).
		Group("order_items.name").
		Order("quantity desc, name asc").
		Limit(topItemsLimit).
		Scan(&stats.TopItems).Error; err != nil {
		return nil, err
	}
	for i := range stats.TopItems {
		stats.TopItems[i].Revenue = decimal.NewFromFloat(stats.TopItems[i].Revenue).Round(2).InexactFloat64()
	}

	stats.CategoryDistribution = make([]CategorySales, 0, len(models.MenuCategories))
	if err := db.Table("order_items").
		Select("order_items.category AS category, SUM(order_items.quantity) AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.OrderCancelled).
		Group("order_items.category").
		Order("quantity desc").
		Scan(&stats.CategoryDistribution).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// dailyRevenue buckets the trailing window by UTC calendar day, oldest
// first, with empty days reported as zero.
func (s *ReportService) dailyRevenue(query *gorm.DB) ([]DailyRevenue, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(revenueWindowDays - 1))

	var rows []struct {
		PlacedAt time.Time
		Total    float64
	}
	if err := query.Select("placed_at", "total").Where("placed_at >= ?", start).Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal, revenueWindowDays)
	counts := make(map[string]int, revenueWindowDays)
	for _, row := range rows {
		day := row.PlacedAt.UTC().Format(time.DateOnly)
		sums[day] = sums[day].Add(decimal.NewFromFloat(row.Total))
		counts[day]++
	}

	out := make([]DailyRevenue, 0, revenueWindowDays)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		day := d.Format(time.DateOnly)
		out = append(out, DailyRevenue{
			Date:    day,
			Revenue: sums[day].Round(2).InexactFloat64(),
			Orders:  counts[day],
		})
	}
	return out, nil
}
