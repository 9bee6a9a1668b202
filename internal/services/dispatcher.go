package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/bistro/internal/models"
)

// Dispatcher fans order and booking changes out to the admin chat and the
// event stream without holding up the request that produced them. A nil
// Dispatcher is valid and does nothing.
type Dispatcher struct {
	telegram *TelegramService
	events   EventPublisher
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(telegram *TelegramService, events EventPublisher) *Dispatcher {
	if events == nil {
		events = NopPublisher{}
	}
	return &Dispatcher{telegram: telegram, events: events, timeout: 10 * time.Second}
}

// OrderCreated announces a newly placed order.
func (d *Dispatcher) OrderCreated(order models.Order) {
	if d == nil {
		return
	}

	d.run("order.created", func(ctx context.Context) error {
		return d.events.Publish(ctx, Event{
			Entity:     "orders",
			Action:     "created",
			ResourceID: order.ID.String(),
			Metadata: map[string]string{
				"orderNumber": order.OrderNumber,
				"userId":      order.UserID.String(),
				"status":      string(order.Status),
			},
			Data: order,
		})
	})

	if !d.telegram.Enabled() {
		return
	}
	d.run("order.telegram", func(ctx context.Context) error {
		items := make([]OrderItemNotification, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, OrderItemNotification{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
		}
		addr := order.DeliveryAddress
		return d.telegram.NotifyNewOrder(ctx, OrderNotification{
			OrderNumber:   order.OrderNumber,
			Items:         items,
			Total:         order.Total,
			CustomerName:  order.Contact.Name,
			CustomerPhone: order.Contact.Phone,
			PaymentMethod: string(order.PaymentMethod),
			Address:       joinNonEmpty(", ", addr.Street, addr.City, addr.State, addr.ZipCode),
		})
	})
}

// OrderStatusChanged announces a status transition.
func (d *Dispatcher) OrderStatusChanged(order models.Order, from models.OrderStatus, by uuid.UUID) {
	if d == nil {
		return
	}

	d.run("order.status_changed", func(ctx context.Context) error {
		return d.events.Publish(ctx, Event{
			Entity:     "orders",
			Action:     "status_changed",
			ResourceID: order.ID.String(),
			Metadata: map[string]string{
				"orderNumber": order.OrderNumber,
				"userId":      order.UserID.String(),
				"from":        string(from),
				"to":          string(order.Status),
				"changedBy":   by.String(),
			},
		})
	})
}

// BookingCreated announces a table booking request.
func (d *Dispatcher) BookingCreated(b models.Booking) {
	if d == nil {
		return
	}

	d.run("booking.created", func(ctx context.Context) error {
		return d.events.Publish(ctx, Event{
			Entity:     "bookings",
			Action:     "created",
			ResourceID: b.ID.String(),
			Metadata:   map[string]string{"date": b.Date, "time": b.Time},
			Data:       b,
		})
	})

	if !d.telegram.Enabled() {
		return
	}
	d.run("booking.telegram", func(ctx context.Context) error {
		return d.telegram.NotifyNewBooking(ctx, BookingNotification{
			Name:     b.Name,
			Phone:    b.Phone,
			Date:     b.Date,
			Time:     b.Time,
			Guests:   b.Guests,
			Requests: b.SpecialRequests,
		})
	})
}

// Wait blocks until every in-flight notification has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

func (d *Dispatcher) run(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			slog.Warn("notification failed", slog.String("kind", name), slog.Any("error", err))
		}
	}()
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
