package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderConfirmed,
	OrderPreparing,
	OrderReady,
	OrderDelivered,
	OrderCancelled,
}

// Valid reports whether s is one of OrderStatuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

type PaymentStatus string

const (
	PaymentPaid PaymentStatus = "paid"
)

// DeliveryAddress is the address snapshot stored on an order.
type DeliveryAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// ContactInfo is how the restaurant reaches the customer for an order.
type ContactInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type Order struct {
	BaseModel
	OrderNumber     string              `gorm:"uniqueIndex" json:"order_number"`
	UserID          uuid.UUID           `gorm:"type:uuid;index" json:"user_id"`
	User            *User               `json:"user,omitempty"`
	Items           []OrderItem         `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Status          OrderStatus         `gorm:"type:varchar(16);index" json:"status"`
	Subtotal        float64             `json:"subtotal"`
	Tax             float64             `json:"tax"`
	DeliveryFee     float64             `json:"delivery_fee"`
	Total           float64             `json:"total"`
	PaymentMethod   PaymentMethod       `gorm:"type:varchar(16)" json:"payment_method"`
	PaymentStatus   PaymentStatus       `gorm:"type:varchar(16)" json:"payment_status"`
	DeliveryAddress DeliveryAddress     `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`
	Contact         ContactInfo         `gorm:"embedded;embeddedPrefix:contact_" json:"contact_info"`
	Notes           string              `json:"notes"`
	PlacedAt        time.Time           `gorm:"index" json:"placed_at"`
	StatusHistory   []OrderStatusChange `gorm:"constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
}

// OrderItem is a snapshot of a menu item taken when the order was placed.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID    `gorm:"type:uuid;index" json:"order_id"`
	MenuItemID uuid.UUID    `gorm:"type:uuid;index" json:"menu_item_id"`
	Name       string       `json:"name"`
	Category   MenuCategory `gorm:"type:varchar(32)" json:"category"`
	Price      float64      `json:"price"`
	Quantity   int          `json:"quantity"`
	Image      string       `json:"image"`
}

// OrderStatusChange is one row of an order's audit trail.
type OrderStatusChange struct {
	BaseModel
	OrderID    uuid.UUID   `gorm:"type:uuid;index" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:varchar(16)" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:varchar(16)" json:"to_status"`
	ChangedBy  uuid.UUID   `gorm:"type:uuid" json:"changed_by"`
}
