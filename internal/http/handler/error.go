package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"memorybook/internal/http/middleware"
	"memorybook/internal/media"
	"memorybook/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_QUERY", "NOT_FOUND")
// - message: human-readable safe message
// - detail: optional context for the client, never a stack or driver error
func writeError(c *fiber.Ctx, status int, code, message string, detail ...string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Code:      code,
		Error:     message,
	}
	if len(detail) > 0 {
		res.Detail = detail[0]
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
	// detail exposes err.Error() to the client.
	detail bool
}

var serviceErrors = []errorMapping{
	{media.ErrNoFileProvided, fiber.StatusBadRequest, "NO_FILE", "no file provided", false},
	{media.ErrInvalidFilename, fiber.StatusBadRequest, "INVALID_FILENAME", "invalid filename", true},
	{media.ErrUnsupportedType, fiber.StatusBadRequest, "UNSUPPORTED_TYPE", "unsupported file type", true},
	{media.ErrDurationExceeded, fiber.StatusBadRequest, "DURATION_EXCEEDED", "video exceeds the maximum duration", true},
	{media.ErrInvalidMedia, fiber.StatusBadRequest, "INVALID_MEDIA", "unable to read video duration", true},
	{service.ErrIDRequired, fiber.StatusBadRequest, "INVALID_ID", "id is required", false},
	{service.ErrMemoryNotFound, fiber.StatusNotFound, "MEMORY_NOT_FOUND", "memory not found", false},
	{media.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "media not found", false},
	{media.ErrPlacementFailure, fiber.StatusInternalServerError, "PLACEMENT_FAILED", "failed to store file", true},
	{media.ErrUploadFailed, fiber.StatusInternalServerError, "UPLOAD_FAILED", "upload failed", true},
}

// writeServiceError maps a service error onto the error envelope. Unknown errors
// become a bare 500 without detail.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.detail {
			return writeError(c, m.status, m.code, m.message, err.Error())
		}
		return writeError(c, m.status, m.code, m.message)
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
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
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body exceeds the upload limit")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
