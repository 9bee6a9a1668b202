package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/validation"
)

// BookingService accepts public table reservations and lets admins work them.
type BookingService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
}

func NewBookingService(db *gorm.DB, dispatcher *Dispatcher) *BookingService {
	return &BookingService{db: db, dispatcher: dispatcher}
}

type BookingInput struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"required,max=32"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	Guests          int    `json:"guests" validate:"min=1,max=50"`
	Type            string `json:"type" validate:"max=50"`
	SpecialRequests string `json:"special_requests" validate:"max=500"`
}

// Create stores a booking request as Pending.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (*models.Booking, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError(err)
	}

	booking := models.Booking{
		Name:            strings.TrimSpace(in.Name),
		Email:           normalizeEmail(in.Email),
		Phone:           strings.TrimSpace(in.Phone),
		Date:            in.Date,
		Time:            in.Time,
		Guests:          in.Guests,
		Type:            strings.TrimSpace(in.Type),
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Status:          models.BookingPending,
	}
	if err := s.db.WithContext(ctx).Create(&booking).Error; err != nil {
		return nil, err
	}

	slog.Info("booking created", slog.String("booking_id", booking.ID.String()), slog.String("date", booking.Date))
	s.dispatcher.BookingCreated(booking)

	return &booking, nil
}

type BookingFilter struct {
	Status models.BookingStatus
	Date   string
	Limit  int
	Offset int
}

// List returns bookings ordered by reservation date and time.
func (s *BookingService) List(ctx context.Context, f BookingFilter) ([]models.Booking, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Booking{})
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, 0, badRequest("invalid status %q", f.Status)
		}
		query = query.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		query = query.Where("date = ?", f.Date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	bookings := make([]models.Booking, 0)
	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}
	if err := query.Order("date desc, time desc").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// UpdateStatus sets a booking to any of its three statuses.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, badRequest("invalid status %q", status)
	}

	db := s.db.WithContext(ctx)
	var booking models.Booking
	if err := db.First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("booking")
		}
		return nil, err
	}

	if err := db.Model(&booking).Update("status", status).Error; err != nil {
		return nil, err
	}
	booking.Status = status
	return &booking, nil
}
