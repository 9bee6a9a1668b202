package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bistro/internal/models"
)

func TestBookingLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewBookingService(db, nil)

	booking, err := svc.Create(ctx, BookingInput{
		Name:   "Ann",
		Phone:  "555-0100",
		Date:   "2026-05-01",
		Time:   "19:30",
		Guests: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)

	_, err = svc.Create(ctx, BookingInput{Name: "Bob", Phone: "555-0101", Date: "2026-05-02", Time: "20:00", Guests: 2})
	require.NoError(t, err)

	list, total, err := svc.List(ctx, BookingFilter{Date: "2026-05-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, booking.ID, list[0].ID)

	updated, err := svc.UpdateStatus(ctx, booking.ID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	list, _, err = svc.List(ctx, BookingFilter{Status: models.BookingPending})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bob", list[0].Name)

	_, err = svc.UpdateStatus(ctx, booking.ID, "Seated")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.UpdateStatus(ctx, uuid.New(), models.BookingCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingValidation(t *testing.T) {
	svc := NewBookingService(newTestDB(t), nil)
	ctx := context.Background()

	cases := map[string]BookingInput{
		"bad date":    {Name: "Ann", Phone: "1", Date: "05/01/2026", Time: "19:30", Guests: 2},
		"bad time":    {Name: "Ann", Phone: "1", Date: "2026-05-01", Time: "7pm", Guests: 2},
		"no guests":   {Name: "Ann", Phone: "1", Date: "2026-05-01", Time: "19:30"},
		"no phone":    {Name: "Ann", Date: "2026-05-01", Time: "19:30", Guests: 2},
		"bad email":   {Name: "Ann", Phone: "1", Email: "nope", Date: "2026-05-01", Time: "19:30", Guests: 2},
		"huge party":  {Name: "Ann", Phone: "1", Date: "2026-05-01", Time: "19:30", Guests: 51},
		"missing all": {},
	}
	for name, input := range cases {
		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}
