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

// NewRouter assembles the Config plane's fiber app: CRUD routes for
// Routing, Rule and Typology, plus a health endpoint that folds in every
// downstream dependency's health check. Grounded on the teacher's
// components/ledger/internal/bootstrap/http/routes.go middleware stack,
// minus the JWT/casdoor layer this system's internal plane has no use for.
func NewRouter(lg libLog.Logger, rh *RoutingHandler, ruh *RuleHandler, th *TypologyHandler, checks ...HealthChecker) *fiber.App {
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

	f.Post("/api/v0/routing", rh.Create)
	f.Get("/api/v0/routing", rh.GetAll)
	f.Get("/api/v0/routing/active", rh.GetActive)
	f.Get("/api/v0/routing/:uuid", rh.Get)
	f.Put("/api/v0/routing/:uuid", rh.Update)
	f.Delete("/api/v0/routing/:uuid", rh.Delete)

	f.Post("/api/v0/rule", ruh.Create)
	f.Get("/api/v0/rule", ruh.GetAll)
	f.Get("/api/v0/rule/:id/:version", ruh.Get)
	f.Put("/api/v0/rule/:id/:version", ruh.Update)
	f.Delete("/api/v0/rule/:id/:version", ruh.Delete)

	f.Post("/api/v0/typology", th.Create)
	f.Get("/api/v0/typology", th.GetAll)
	f.Get("/api/v0/typology/:id/:version", th.Get)
	f.Put("/api/v0/typology/:id/:version", th.Update)
	f.Delete("/api/v0/typology/:id/:version", th.Delete)

	lg.Info("Config plane HTTP routes registered")

	return f
}
