package nethttp

import (
	"errors"

	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/gofiber/fiber/v2"
)

// WithError maps an internal error to its synchronous HTTP response, per
// spec.md §7's propagation policy: validation errors map to 400 with field
// detail, not-found errors to 404 and a duplicate active routing to 409;
// everything else collapses to a single opaque 5xx so internal failure
// detail never reaches a caller.
func WithError(c *fiber.Ctx, err error) error {
	var (
		validationErr constant.ValidationError
		notFoundErr   constant.EntityNotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return BadRequest(c, map[string]string{
			"code":    validationErr.Code,
			"title":   "Validation Error",
			"message": validationErr.Message,
		})
	case errors.As(err, &notFoundErr):
		return NotFound(c, notFoundErr.Code, "Entity Not Found", notFoundErr.Message)
	case errors.Is(err, constant.ErrNoActiveRouting):
		return NotFound(c, err.Error(), "No Active Routing", "The Config plane has no routing configuration marked active.")
	case errors.Is(err, constant.ErrDuplicateActiveRouting):
		return Conflict(c, err.Error(), "Duplicate Active Routing", "A routing configuration is already active.")
	case errors.Is(err, constant.ErrMissingRequiredField):
		return BadRequest(c, map[string]string{"error": "missing required field"})
	default:
		return InternalServerError(c)
	}
}
