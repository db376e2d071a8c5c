// Package in holds Intake's fiber route handlers, the synchronous HTTP
// ingress spec.md §4.2 describes. Grounded on the Config plane's
// adapters/http/in.RoutingHandler handler-method convention.
package in

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/components/intake/internal/services/intake"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/nethttp"
	"github.com/gofiber/fiber/v2"
)

// IntakeHandler serves /api/v0/pacs008 and /api/v0/pacs002.
type IntakeHandler struct {
	UseCase *intake.UseCase
}

// CreatePacs008 handles POST /api/v0/pacs008.
func (h *IntakeHandler) CreatePacs008(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_pacs008")
	defer span.End()

	var doc mmodel.Pacs008Document
	if err := c.BodyParser(&doc); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to parse pacs008 document", err)
		return nethttp.BadRequest(c, map[string]string{"error": "malformed request body"})
	}

	payload, err := h.UseCase.HandlePacs008(ctx, doc)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to ingest pacs008 document", err)
		logger.Errorf("failed to ingest pacs008 document: %v", err)

		return nethttp.WithError(c, err)
	}

	return nethttp.Created(c, payload)
}

// CreatePacs002 handles POST /api/v0/pacs002.
func (h *IntakeHandler) CreatePacs002(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_pacs002")
	defer span.End()

	var doc mmodel.Pacs002Document
	if err := c.BodyParser(&doc); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to parse pacs002 document", err)
		return nethttp.BadRequest(c, map[string]string{"error": "malformed request body"})
	}

	payload, err := h.UseCase.HandlePacs002(ctx, doc)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to ingest pacs002 document", err)
		logger.Errorf("failed to ingest pacs002 document: %v", err)

		return nethttp.WithError(c, err)
	}

	return nethttp.Created(c, payload)
}
