package bootstrap

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libCommonsServer "github.com/LerianStudio/lib-commons/v2/commons/server"
	"github.com/gofiber/fiber/v2"
)

// Server is the Config plane's HTTP server.
type Server struct {
	app           *fiber.App
	serverAddress string
	logger        libLog.Logger
	telemetry     libOpentelemetry.Telemetry
}

// NewServer creates a Server bound to cfg.ServerAddress.
func NewServer(cfg *Config, app *fiber.App, logger libLog.Logger, telemetry *libOpentelemetry.Telemetry) *Server {
	serverAddress := cfg.ServerAddress
	if serverAddress == "" {
		serverAddress = ":3003"
	}

	return &Server{
		app:           app,
		serverAddress: serverAddress,
		logger:        logger,
		telemetry:     *telemetry,
	}
}

// Run runs the server, blocking until a graceful shutdown signal arrives.
func (s *Server) Run(l *libCommons.Launcher) error {
	libCommonsServer.NewServerManager(nil, &s.telemetry, s.logger).
		WithHTTPServer(s.app, s.serverAddress).
		StartWithGracefulShutdown()

	return nil
}
