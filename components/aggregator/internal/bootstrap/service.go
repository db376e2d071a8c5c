package bootstrap

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
)

// Service is the application glue holding every top-level component needed
// to run the Aggregator stage.
type Service struct {
	Logger        libLog.Logger
	AggregatorApp *ConsumerApp
	Connection    *libRabbitmq.RabbitMQConnection
	HealthAddr    string
}

// Run starts the Aggregator stage, blocking until shutdown.
func (s *Service) Run() {
	libCommons.NewLauncher(
		libCommons.WithLogger(s.Logger),
		libCommons.RunApp("Aggregator Consumer", s.AggregatorApp),
		libCommons.RunApp("Aggregator Health", NewGRPCHealthApp(s.HealthAddr, s.Logger)),
	).Run()
}
