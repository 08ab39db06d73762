package models

import (
	"errors"
	"fmt"

	"scrawl/internal/store"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the standardized API failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// AppError is a classified application error.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewDuplicateKeyError(message string) *AppError {
	return &AppError{
		Code:    "DUPLICATE_KEY",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// ClassifyStorageError maps document-store sentinel errors onto the
// application taxonomy. Raw I/O internals never reach the caller; they stay
// wrapped for logging only.
func ClassifyStorageError(err error) *AppError {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &AppError{Code: "NOT_FOUND", Message: "Resource not found", Err: err}
	case errors.Is(err, store.ErrDuplicate):
		return &AppError{Code: "DUPLICATE_KEY", Message: "Resource already exists", Err: err}
	case errors.Is(err, store.ErrDanglingReference):
		return &AppError{Code: "DANGLING_REFERENCE", Message: "Referenced resource no longer exists", Err: err}
	case errors.Is(err, store.ErrBusy):
		return &AppError{Code: "STORAGE_BUSY", Message: "Storage is busy, please retry", Err: err}
	case errors.Is(err, store.ErrDecode):
		return &AppError{Code: "DECODE_FAILED", Message: "Stored data is corrupted", Err: err}
	case errors.Is(err, store.ErrUnavailable):
		return &AppError{Code: "STORAGE_UNAVAILABLE", Message: "Storage is unavailable", Err: err}
	default:
		return NewInternalError(err)
	}
}

// StatusForError picks the HTTP status for a classified error.
func StatusForError(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "NOT_FOUND", "DANGLING_REFERENCE":
		return fiber.StatusNotFound
	case "VALIDATION_ERROR", "DUPLICATE_KEY":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "STORAGE_BUSY":
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standardized failure envelope. Internal and
// storage failures are reported generically; their details are for logs.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{Success: false}

	var appErr *AppError
	if errors.As(err, &appErr) {
		response.Error = appErr.Message
		response.Code = appErr.Code
	} else {
		response.Error = "Internal server error"
	}

	return c.Status(status).JSON(response)
}
