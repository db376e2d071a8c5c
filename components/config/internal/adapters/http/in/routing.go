// Package in holds the Config plane's fiber route handlers, the HTTP CRUD
// surface spec.md §6 calls for over Routing, Rule and Typology. Grounded on
// the teacher's handler split (one struct per entity family holding both
// UseCases, one method per route) from
// components/ledger_two/internal/bootstrap/http/organization.go.
package in

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/components/config/internal/services/command"
	"github.com/fraudmesh/evalengine/components/config/internal/services/query"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/nethttp"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// parseUUIDParam validates c.Params(name) as a UUID before it ever reaches
// the database, short-circuiting a malformed-id request with a 400 instead
// of letting it surface as a confusing query failure downstream.
func parseUUIDParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)

	if _, err := uuid.Parse(raw); err != nil {
		return "", nethttp.BadRequest(c, map[string]string{"error": "invalid " + name + ": must be a uuid"})
	}

	return raw, nil
}

// RoutingHandler serves /api/v0/routing and /api/v0/routing/active.
type RoutingHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// Create handles POST /api/v0/routing.
func (h *RoutingHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_routing")
	defer span.End()

	var payload mmodel.RoutingConfiguration
	if err := c.BodyParser(&payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to parse routing payload", err)
		return nethttp.BadRequest(c, map[string]string{"error": "malformed request body"})
	}

	created, err := h.Command.CreateRouting(ctx, &payload)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to create routing", err)
		logger.Errorf("failed to create routing: %v", err)

		return nethttp.WithError(c, err)
	}

	return nethttp.Created(c, created)
}

// Update handles PUT /api/v0/routing/:uuid.
func (h *RoutingHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.update_routing")
	defer span.End()

	var payload mmodel.RoutingConfiguration
	if err := c.BodyParser(&payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to parse routing payload", err)
		return nethttp.BadRequest(c, map[string]string{"error": "malformed request body"})
	}

	id, err := parseUUIDParam(c, "uuid")
	if err != nil {
		return err
	}

	updated, err := h.Command.UpdateRouting(ctx, id, &payload)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to update routing", err)
		logger.Errorf("failed to update routing %s: %v", id, err)

		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, updated)
}

// Delete handles DELETE /api/v0/routing/:uuid.
func (h *RoutingHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.delete_routing")
	defer span.End()

	id, err := parseUUIDParam(c, "uuid")
	if err != nil {
		return err
	}

	if err := h.Command.DeleteRouting(ctx, id); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to delete routing", err)
		logger.Errorf("failed to delete routing %s: %v", id, err)

		return nethttp.WithError(c, err)
	}

	return nethttp.NoContent(c)
}

// Get handles GET /api/v0/routing/:uuid.
func (h *RoutingHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_routing")
	defer span.End()

	id, err := parseUUIDParam(c, "uuid")
	if err != nil {
		return err
	}

	cfg, err := h.Query.GetRouting(ctx, id)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get routing", err)
		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, cfg)
}

// GetActive handles GET /api/v0/routing/active.
func (h *RoutingHandler) GetActive(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_active_routing")
	defer span.End()

	cfg, err := h.Query.GetActiveRouting(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get active routing", err)
		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, cfg)
}

// GetAll handles GET /api/v0/routing.
func (h *RoutingHandler) GetAll(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_all_routings")
	defer span.End()

	routings, err := h.Query.GetAllRoutings(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get routings", err)
		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, routings)
}
