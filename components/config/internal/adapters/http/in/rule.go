package in

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/components/config/internal/services/command"
	"github.com/fraudmesh/evalengine/components/config/internal/services/query"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/nethttp"
	"github.com/gofiber/fiber/v2"
)

// RuleHandler serves /api/v0/rule and /api/v0/rule/:id/:version.
type RuleHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// Create handles POST /api/v0/rule.
func (h *RuleHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_rule")
	defer span.End()

	var payload mmodel.RuleConfiguration
	if err := c.BodyParser(&payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to parse rule payload", err)
		return nethttp.BadRequest(c, map[string]string{"error": "malformed request body"})
	}

	created, err := h.Command.CreateRule(ctx, &payload)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to create rule", err)
		logger.Errorf("failed to create rule %s.%s: %v", payload.ID, payload.Version, err)

		return nethttp.WithError(c, err)
	}

	return nethttp.Created(c, created)
}

// Update handles PUT /api/v0/rule/:id/:version.
func (h *RuleHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.update_rule")
	defer span.End()

	var payload mmodel.RuleConfiguration
	if err := c.BodyParser(&payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to parse rule payload", err)
		return nethttp.BadRequest(c, map[string]string{"error": "malformed request body"})
	}

	id, version := c.Params("id"), c.Params("version")

	updated, err := h.Command.UpdateRule(ctx, id, version, &payload)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to update rule", err)
		logger.Errorf("failed to update rule %s.%s: %v", id, version, err)

		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, updated)
}

// Delete handles DELETE /api/v0/rule/:id/:version.
func (h *RuleHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.delete_rule")
	defer span.End()

	id, version := c.Params("id"), c.Params("version")

	if err := h.Command.DeleteRule(ctx, id, version); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to delete rule", err)
		logger.Errorf("failed to delete rule %s.%s: %v", id, version, err)

		return nethttp.WithError(c, err)
	}

	return nethttp.NoContent(c)
}

// Get handles GET /api/v0/rule/:id/:version.
func (h *RuleHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_rule")
	defer span.End()

	id, version := c.Params("id"), c.Params("version")

	cfg, err := h.Query.GetRule(ctx, id, version)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get rule", err)
		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, cfg)
}

// GetAll handles GET /api/v0/rule.
func (h *RuleHandler) GetAll(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_all_rules")
	defer span.End()

	rules, err := h.Query.GetAllRules(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get rules", err)
		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, rules)
}
