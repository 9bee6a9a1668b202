package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/utils"
	"github.com/example/bistro/internal/validation"
)

const orderListCap = 50

// OrderService owns order placement and the order lifecycle.
type OrderService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewOrderService(db *gorm.DB, dispatcher *Dispatcher) *OrderService {
	return &OrderService{db: db, dispatcher: dispatcher, now: time.Now}
}

type OrderItemInput struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"min=1,max=99"`
}

type DeliveryAddressInput struct {
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"max=100"`
	ZipCode string `json:"zip_code" validate:"max=20"`
}

type ContactInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"required,max=32"`
	Email string `json:"email" validate:"omitempty,email"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput     `json:"items" validate:"required,min=1,max=50,dive"`
	DeliveryAddress DeliveryAddressInput `json:"delivery_address"`
	Contact         ContactInput         `json:"contact_info"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash card online"`
	Notes           string               `json:"notes" validate:"max=500"`
}

// CreateOrder prices the requested items from the live menu, snapshots them
// onto the order and stores it as pending and paid.
func (s *OrderService) CreateOrder(ctx context.Context, p *Principal, in CreateOrderInput) (*models.Order, error) {
	if p == nil || p.User == nil {
		return nil, ErrUnauthenticated
	}
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError(err)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCash
	}

	now := s.now()
	order := models.Order{
		UserID:        p.ID(),
		Status:        models.OrderPending,
		PaymentMethod: in.PaymentMethod,
		// No gateway is integrated; every order is recorded as paid.
		PaymentStatus: models.PaymentPaid,
		DeliveryAddress: models.DeliveryAddress{
			Street:  strings.TrimSpace(in.DeliveryAddress.Street),
			City:    strings.TrimSpace(in.DeliveryAddress.City),
			State:   strings.TrimSpace(in.DeliveryAddress.State),
			ZipCode: strings.TrimSpace(in.DeliveryAddress.ZipCode),
		},
		Contact: models.ContactInfo{
			Name:  strings.TrimSpace(in.Contact.Name),
			Phone: strings.TrimSpace(in.Contact.Phone),
			Email: strings.TrimSpace(in.Contact.Email),
		},
		Notes:    strings.TrimSpace(in.Notes),
		PlacedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uuid.UUID, 0, len(in.Items))
		for _, item := range in.Items {
			ids = append(ids, item.MenuItemID)
		}

		var menu []models.MenuItem
		if err := tx.Where("id IN ?", ids).Find(&menu).Error; err != nil {
			return err
		}
		byID := make(map[uuid.UUID]models.MenuItem, len(menu))
		for _, m := range menu {
			byID[m.ID] = m
		}

		lines := make([]PricedLine, 0, len(in.Items))
		for _, item := range in.Items {
			m, ok := byID[item.MenuItemID]
			if !ok {
				return badRequest("menu item %s does not exist", item.MenuItemID)
			}
			if !m.IsAvailable {
				return badRequest("%s is currently unavailable", m.Name)
			}
			order.Items = append(order.Items, models.OrderItem{
				MenuItemID: m.ID,
				Name:       m.Name,
				Category:   m.Category,
				Price:      m.Price,
				Quantity:   item.Quantity,
				Image:      m.Image,
			})
			lines = append(lines, PricedLine{Price: m.Price, Quantity: item.Quantity})
		}

		order.Subtotal, order.Tax, order.DeliveryFee, order.Total = ComputeTotals(lines).Floats()

		number, err := newOrderNumber(now)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Create(&models.OrderStatusChange{
			OrderID:   order.ID,
			ToStatus:  models.OrderPending,
			ChangedBy: p.ID(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("order created",
		slog.String("order_id", order.ID.String()),
		slog.String("order_number", order.OrderNumber),
		slog.Float64("total", order.Total),
	)
	s.dispatcher.OrderCreated(order)

	return &order, nil
}

// ListOrders returns the newest orders visible to the principal: all orders
// for admins, own orders otherwise.
func (s *OrderService) ListOrders(ctx context.Context, p *Principal, status models.OrderStatus) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")

	if p.IsAdmin() {
		query = query.Preload("User", publicUserColumns)
	} else {
		query = query.Where("user_id = ?", p.ID())
	}

	if status != "" {
		if !status.Valid() {
			return nil, badRequest("invalid status %q", status)
		}
		query = query.Where("status = ?", status)
	}

	orders := make([]models.Order, 0)
	if err := query.Order("placed_at desc").Limit(orderListCap).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder loads a single order the principal owns, or any order for admins.
func (s *OrderService) GetOrder(ctx context.Context, p *Principal, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("User", publicUserColumns).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order")
		}
		return nil, err
	}

	if !p.CanAccess(order.UserID) {
		return nil, forbidden("not authorized to view this order")
	}
	return &order, nil
}

// UpdateStatus lets an admin move an order to any of the six statuses.
func (s *OrderService) UpdateStatus(ctx context.Context, p *Principal, id uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	if err := p.RequireRole(models.RoleAdmin); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, badRequest("invalid status %q", next)
	}

	var order models.Order
	var previous models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("order")
			}
			return err
		}
		previous = order.Status

		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusChange{
			OrderID:    order.ID,
			FromStatus: previous,
			ToStatus:   next,
			ChangedBy:  p.ID(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	order.Status = next
	slog.Info("order status updated",
		slog.String("order_id", order.ID.String()),
		slog.String("from", string(previous)),
		slog.String("to", string(next)),
	)
	s.dispatcher.OrderStatusChanged(order, previous, p.ID())

	return s.GetOrder(ctx, p, order.ID)
}

// CancelOrder cancels a pending order on behalf of its owner or an admin.
func (s *OrderService) CancelOrder(ctx context.Context, p *Principal, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("order")
			}
			return err
		}

		if order.Status != models.OrderPending {
			return badRequest("cannot cancel order with status %s", order.Status)
		}
		if !p.CanAccess(order.UserID) {
			return forbidden("not authorized to cancel this order")
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderPending).
			Update("status", models.OrderCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return badRequest("order is no longer pending")
		}

		return tx.Create(&models.OrderStatusChange{
			OrderID:    order.ID,
			FromStatus: models.OrderPending,
			ToStatus:   models.OrderCancelled,
			ChangedBy:  p.ID(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderCancelled
	slog.Info("order cancelled", slog.String("order_id", order.ID.String()), slog.String("by", p.ID().String()))
	s.dispatcher.OrderStatusChanged(order, models.OrderPending, p.ID())

	return s.GetOrder(ctx, p, order.ID)
}

func newOrderNumber(now time.Time) (string, error) {
	suffix, err := utils.RandomHex(3)
	if err != nil {
		return "", fmt.Errorf("order number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(suffix)), nil
}

func publicUserColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "phone", "role")
}
