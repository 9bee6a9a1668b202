package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/example/bistro/internal/services"
)

func TestDomainErrors(t *testing.T) {
	mapper := DomainErrors()

	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{services.ErrUnauthenticated, http.StatusUnauthorized, services.ErrUnauthenticated.Error()},
		{services.ErrPrincipalNotFound, http.StatusUnauthorized, services.ErrPrincipalNotFound.Error()},
		{services.ErrAccountBlocked, http.StatusForbidden, services.ErrAccountBlocked.Error()},
		{&services.DomainError{Kind: services.ErrNotFound, Message: "order not found"}, http.StatusNotFound, "order not found"},
		{&services.DomainError{Kind: services.ErrConflict, Message: "already reviewed"}, http.StatusBadRequest, "already reviewed"},
		{services.ErrUserExists, http.StatusBadRequest, "User already exists"},
		{fiber.NewError(http.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge, "too big"},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "request timeout"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		info := mapper.Map(tc.err)
		assert.Equal(t, tc.status, info.Status, tc.err.Error())
		assert.Equal(t, tc.msg, info.Message, tc.err.Error())
	}
}

func TestMapNil(t *testing.T) {
	assert.Equal(t, http.StatusOK, NewErrorMapper().Map(nil).Status)
}
