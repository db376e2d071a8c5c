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

// TypologyHandler serves /api/v0/typology and /api/v0/typology/:id/:version.
type TypologyHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// Create handles POST /api/v0/typology.
func (h *TypologyHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_typology")
	defer span.End()

	var payload mmodel.TypologyConfiguration
	if err := c.BodyParser(&payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to parse typology payload", err)
		return nethttp.BadRequest(c, map[string]string{"error": "malformed request body"})
	}

	created, err := h.Command.CreateTypology(ctx, &payload)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to create typology", err)
		logger.Errorf("failed to create typology %s.%s: %v", payload.ID, payload.Version, err)

		return nethttp.WithError(c, err)
	}

	return nethttp.Created(c, created)
}

// Update handles PUT /api/v0/typology/:id/:version.
func (h *TypologyHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.update_typology")
	defer span.End()

	var payload mmodel.TypologyConfiguration
	if err := c.BodyParser(&payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to parse typology payload", err)
		return nethttp.BadRequest(c, map[string]string{"error": "malformed request body"})
	}

	id, version := c.Params("id"), c.Params("version")

	updated, err := h.Command.UpdateTypology(ctx, id, version, &payload)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to update typology", err)
		logger.Errorf("failed to update typology %s.%s: %v", id, version, err)

		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, updated)
}

// Delete handles DELETE /api/v0/typology/:id/:version.
func (h *TypologyHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.delete_typology")
	defer span.End()

	id, version := c.Params("id"), c.Params("version")

	if err := h.Command.DeleteTypology(ctx, id, version); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to delete typology", err)
		logger.Errorf("failed to delete typology %s.%s: %v", id, version, err)

		return nethttp.WithError(c, err)
	}

	return nethttp.NoContent(c)
}

// Get handles GET /api/v0/typology/:id/:version.
func (h *TypologyHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_typology")
	defer span.End()

	id, version := c.Params("id"), c.Params("version")

	cfg, err := h.Query.GetTypology(ctx, id, version)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get typology", err)
		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, cfg)
}

// GetAll handles GET /api/v0/typology.
func (h *TypologyHandler) GetAll(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_all_typologies")
	defer span.End()

	typologies, err := h.Query.GetAllTypologies(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get typologies", err)
		return nethttp.WithError(c, err)
	}

	return nethttp.OK(c, typologies)
}
