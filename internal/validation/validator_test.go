package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Guests int    `json:"guests" validate:"min=1,max=50"`
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "a@b.co", Guests: 2, Date: "2026-01-31"}))

	err := Struct(sample{Email: "nope", Guests: 0, Date: "31/01/2026"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "email must be a valid email")
		assert.Contains(t, err.Error(), "guests must be at least 1")
		assert.Contains(t, err.Error(), "date must match 2006-01-02")
	}
}
