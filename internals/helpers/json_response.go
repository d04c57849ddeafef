package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Every response shares the {success, message, ...} envelope.

type ErrorResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	Details   map[string]any      `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

var errorCodes = map[int]string{
	fiber.StatusBadRequest:          "BAD_REQUEST",
	fiber.StatusUnauthorized:        "UNAUTHORIZED",
	fiber.StatusForbidden:           "FORBIDDEN",
	fiber.StatusNotFound:            "NOT_FOUND",
	fiber.StatusConflict:            "CONFLICT",
	fiber.StatusUnprocessableEntity: "VALIDATION_ERROR",
	fiber.StatusTooManyRequests:     "TOO_MANY_REQUESTS",
	fiber.StatusBadGateway:          "GATEWAY_ERROR",
}

func statusToErrorCode(status int) string {
	if code, ok := errorCodes[status]; ok {
		return code
	}
	if status >= 500 {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

/* ===============================
   Errors
=================================*/

func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(ErrorResponse{
		Message:   orDefault(message, fiber.ErrInternalServerError.Message),
		ErrorCode: statusToErrorCode(status),
	})
}

// JsonValidationError answers 422 with field -> messages.
func JsonValidationError(c *fiber.Ctx, fieldErrors map[string][]string) error {
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Message:   "validation failed",
		ErrorCode: "VALIDATION_ERROR",
		Errors:    fieldErrors,
	})
}

// JsonErrorWithDetails is a business-rule rejection with machine-readable context (e.g. max_payable).
func JsonErrorWithDetails(c *fiber.Ctx, status int, errorCode, message string, details map[string]any) error {
	if status == 0 {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(ErrorResponse{
		Message:   message,
		ErrorCode: orDefault(errorCode, statusToErrorCode(status)),
		Details:   details,
	})
}

// ErrorHandler is fiber.Config.ErrorHandler. Non-fiber errors are logged and reported as a bare 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).WithError(err).Error("[HTTP] unhandled error")
	return JsonError(c, fiber.StatusInternalServerError, "")
}

/* ===============================
   Success
=================================*/

func writeSuccess(c *fiber.Ctx, status int, message, fallback string, data any, p *Pagination) error {
	return c.Status(status).JSON(SuccessResponse{
		Success:    true,
		Message:    orDefault(message, fallback),
		Data:       data,
		Pagination: p,
	})
}

func JsonList(c *fiber.Ctx, message string, data any, pagination *Pagination) error {
	if pagination != nil && pagination.Count == 0 {
		p := *pagination
		p.Count = lenOf(data)
		pagination = &p
	}
	return writeSuccess(c, fiber.StatusOK, message, "ok", data, pagination)
}

func JsonOK(c *fiber.Ctx, message string, data any) error {
	return writeSuccess(c, fiber.StatusOK, message, "ok", data, nil)
}

func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return writeSuccess(c, fiber.StatusCreated, message, "created", data, nil)
}

func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return writeSuccess(c, fiber.StatusOK, message, "updated", data, nil)
}

func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return writeSuccess(c, fiber.StatusOK, message, "deleted", data, nil)
}
