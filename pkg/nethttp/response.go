// Package nethttp holds the fiber response helpers shared by Intake and the
// Config plane's HTTP surface, grounded on the teacher's pkg/net/http
// response/error helpers (OK/Created/WithError, a stable {code,title,message}
// error body shape).
package nethttp

import "github.com/gofiber/fiber/v2"

// OK writes a 200 with a JSON body.
func OK(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusOK).JSON(body)
}

// Created writes a 201 with a JSON body, per spec.md §6.
func Created(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}

// NoContent writes a 204 with no body, used by successful deletes.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// BadRequest writes a 400 with an arbitrary JSON body, used for field-level
// validation failures.
func BadRequest(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// errorBody is the stable shape spec.md §7 calls for: synchronous callers
// always see {code, title, message}, whatever the internal failure was.
type errorBody struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Unauthorized writes a 401 with the stable error body shape.
func Unauthorized(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(errorBody{Code: code, Title: title, Message: message})
}

// Forbidden writes a 403 with the stable error body shape.
func Forbidden(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(errorBody{Code: code, Title: title, Message: message})
}

// NotFound writes a 404 with the stable error body shape.
func NotFound(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(errorBody{Code: code, Title: title, Message: message})
}

// Conflict writes a 409 with the stable error body shape.
func Conflict(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusConflict).JSON(errorBody{Code: code, Title: title, Message: message})
}

// InternalServerError writes an opaque 500, per spec.md §7's propagation
// policy: synchronous request paths never leak internal error detail.
func InternalServerError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
		Code:    "0500",
		Title:   "Internal Server Error",
		Message: "An internal error occurred while processing the request.",
	})
}
