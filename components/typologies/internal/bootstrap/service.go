package bootstrap

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	tyrabbitmq "github.com/fraudmesh/evalengine/components/typologies/internal/adapters/rabbitmq"
)

// Service is the application glue holding every top-level component needed
// to run the Typologies stage.
type Service struct {
	Logger      libLog.Logger
	TypologyApp *ConsumerApp
	ReloadApp   *ConsumerApp
	Publisher   *tyrabbitmq.AggregatorPublisher
	Connection  *libRabbitmq.RabbitMQConnection
	HealthAddr  string
}

// Run starts the Typologies stage, blocking until shutdown.
func (s *Service) Run() {
	libCommons.NewLauncher(
		libCommons.WithLogger(s.Logger),
		libCommons.RunApp("Typologies Consumer", s.TypologyApp),
		libCommons.RunApp("Typologies Reload Listener", s.ReloadApp),
		libCommons.RunApp("Typologies Health", NewGRPCHealthApp(s.HealthAddr, s.Logger)),
	).Run()
}
