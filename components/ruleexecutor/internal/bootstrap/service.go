package bootstrap

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	rerabbitmq "github.com/fraudmesh/evalengine/components/ruleexecutor/internal/adapters/rabbitmq"
)

// Service is the application glue holding every top-level component needed
// to run the Rule-Executor stage.
type Service struct {
	Logger     libLog.Logger
	RuleApp    *ConsumerApp
	ReloadApp  *ConsumerApp
	Publisher  *rerabbitmq.TypologyPublisher
	Connection *libRabbitmq.RabbitMQConnection
	HealthAddr string
}

// Run starts the Rule-Executor stage, blocking until shutdown.
func (s *Service) Run() {
	libCommons.NewLauncher(
		libCommons.WithLogger(s.Logger),
		libCommons.RunApp("Rule-Executor Consumer", s.RuleApp),
		libCommons.RunApp("Rule-Executor Reload Listener", s.ReloadApp),
		libCommons.RunApp("Rule-Executor Health", NewGRPCHealthApp(s.HealthAddr, s.Logger)),
	).Run()
}
