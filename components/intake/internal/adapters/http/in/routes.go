package in

import (
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// HealthChecker reports whether a downstream dependency is reachable.
type HealthChecker interface {
	CheckHealth() bool
}

// NewRouter assembles Intake's fiber app: the pacs.008/pacs.002 ingress
// routes plus a health endpoint folding in every downstream dependency's
// health check. Grounded on the Config plane's adapters/http/in.NewRouter.
func NewRouter(lg libLog.Logger, h *IntakeHandler, checks ...HealthChecker) *fiber.App {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	f.Use(recover.New())
	f.Use(cors.New())
	f.Use(logger.New())

	f.Get("/", func(c *fiber.Ctx) error {
		for _, check := range checks {
			if !check.CheckHealth() {
				return c.SendStatus(fiber.StatusServiceUnavailable)
			}
		}

		return c.SendStatus(fiber.StatusOK)
	})

	f.Post("/api/v0/pacs008", h.CreatePacs008)
	f.Post("/api/v0/pacs002", h.CreatePacs002)

	lg.Info("Intake HTTP routes registered")

	return f
}
