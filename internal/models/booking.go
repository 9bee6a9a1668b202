package models

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCancelled
}

// Booking is a table reservation request.
type Booking struct {
	BaseModel
	Name            string        `gorm:"not null" json:"name"`
	Email           string        `json:"email"`
	Phone           string        `gorm:"not null" json:"phone"`
	Date            string        `gorm:"type:varchar(10);index" json:"date"`
	Time            string        `gorm:"type:varchar(5)" json:"time"`
	Guests          int           `json:"guests"`
	Type            string        `json:"type"`
	SpecialRequests string        `json:"special_requests"`
	Status          BookingStatus `gorm:"type:varchar(16);index" json:"status"`
}
