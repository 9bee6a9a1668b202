package httputil

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bistro/internal/services"
)

// HTTPErrorInfo contains the HTTP status code and message for an error.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

// ErrorMapping represents a single error to HTTP status mapping. An empty
// Message means the error text itself is safe to return to the client.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// ErrorMapper maps domain errors to HTTP status codes and messages.
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
}

// NewErrorMapper creates a new ErrorMapper with default settings.
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
}

// WithMapping adds an error mapping to the mapper.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{Error: err, Status: status, Message: message})
	return m
}

// Map converts an error to HTTP status and message.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return HTTPErrorInfo{Status: fe.Code, Message: fe.Message}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Error) {
			msg := mapping.Message
			if msg == "" {
				msg = err.Error()
			}
			return HTTPErrorInfo{Status: mapping.Status, Message: msg}
		}
	}

	return HTTPErrorInfo{Status: m.defaultStatus, Message: m.defaultMessage}
}

// DomainErrors is the mapper used by the API for the services error taxonomy.
func DomainErrors() *ErrorMapper {
	return NewErrorMapper().
		WithMapping(services.ErrUnauthenticated, http.StatusUnauthorized, "").
		WithMapping(services.ErrPrincipalNotFound, http.StatusUnauthorized, "").
		WithMapping(services.ErrInvalidCredentials, http.StatusUnauthorized, "").
		WithMapping(services.ErrAccountBlocked, http.StatusForbidden, "").
		WithMapping(services.ErrForbidden, http.StatusForbidden, "").
		WithMapping(services.ErrNotFound, http.StatusNotFound, "").
		WithMapping(services.ErrBadRequest, http.StatusBadRequest, "").
		WithMapping(services.ErrValidation, http.StatusBadRequest, "").
		WithMapping(services.ErrConflict, http.StatusBadRequest, "").
		WithMapping(services.ErrUserExists, http.StatusBadRequest, "").
		WithMapping(services.ErrInvalidResetToken, http.StatusBadRequest, "")
}

// ErrorHandler renders every failure as {"error": message}.
func ErrorHandler(mapper *ErrorMapper) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		info := mapper.Map(err)
		if info.Status >= http.StatusInternalServerError {
			slog.Error("request failed",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}
		return c.Status(info.Status).JSON(fiber.Map{"error": info.Message})
	}
}
