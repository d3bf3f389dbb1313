package utils

import (
	domainerrors "falko/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a 201 JSON response.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// Fail sends the standard error envelope: a machine-readable type plus a
// human-readable message.
func Fail(c *fiber.Ctx, status int, kind, message string) error {
	return Respond(c, status, fiber.Map{
		"type":    kind,
		"message": message,
	})
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, kind, message string) error {
	return Fail(c, fiber.StatusBadRequest, kind, message)
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, "unauthorized", message)
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusForbidden, "forbidden", message)
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, kind, message string) error {
	return Fail(c, fiber.StatusNotFound, kind, message)
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, "internal_server_error", message)
}

// DomainFail maps a DomainError onto the error envelope.
func DomainFail(c *fiber.Ctx, status int, err *domainerrors.DomainError) error {
	return Fail(c, status, err.Code, err.Message)
}
