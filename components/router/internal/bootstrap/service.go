package bootstrap

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	routerrabbitmq "github.com/fraudmesh/evalengine/components/router/internal/adapters/rabbitmq"
)

// Service is the application glue holding every top-level component needed
// to run the Router stage: the intake fan-out consumer, the reload
// listener, and the gRPC health surface, each run as an independent
// libCommons.App.
type Service struct {
	Logger     libLog.Logger
	IntakeApp  *ConsumerApp
	ReloadApp  *ConsumerApp
	Publisher  *routerrabbitmq.FanoutPublisher
	Connection *libRabbitmq.RabbitMQConnection
	HealthAddr string
}

// Run starts the Router stage, blocking until shutdown.
func (s *Service) Run() {
	libCommons.NewLauncher(
		libCommons.WithLogger(s.Logger),
		libCommons.RunApp("Router Intake Consumer", s.IntakeApp),
		libCommons.RunApp("Router Reload Listener", s.ReloadApp),
		libCommons.RunApp("Router Health", NewGRPCHealthApp(s.HealthAddr, s.Logger)),
	).Run()
}
