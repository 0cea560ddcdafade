package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"paperapi/internal/http/middleware"
)

// Error codes returned alongside the message.
const (
	codeIDRequired    = "ID_REQUIRED"
	codeBadRequest    = "BAD_REQUEST"
	codeMissingFields = "MISSING_FIELDS"
	codeInvalidType   = "INVALID_TYPE"
	codeInvalidLimit  = "INVALID_LIMIT"
	codeNotFound      = "NOT_FOUND"
	codeUnavailable   = "SERVICE_UNAVAILABLE"
	codeRateLimited   = "RATE_LIMITED"
	codeInternal      = "INTERNAL_ERROR"
)

// errorPayload is the body of every error response. Error is a safe,
// human-readable message; internal error detail is never included.
type errorPayload struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromCtx(c),
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, codeBadRequest, "Bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, codeNotFound, "Resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "Method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "Request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, codeRateLimited, "Too many requests")
		default:
			return writeError(c, fiber.StatusInternalServerError, codeInternal, "Internal server error")
		}
	}
}
