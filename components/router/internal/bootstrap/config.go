// Package bootstrap wires the Router stage's dependencies: a durable
// consumer on the intake stream, a rule fan-out publisher, a reload
// listener and the two-tier routing cache, following the teacher's
// Config-struct-then-InitX-function convention
// (components/consumer/internal/bootstrap/config.go).
package bootstrap

import (
	"fmt"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libCircuitBreaker "github.com/LerianStudio/lib-commons/v2/commons/circuitbreaker"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mconfigclient"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"

	routerrabbitmq "github.com/fraudmesh/evalengine/components/router/internal/adapters/rabbitmq"
	routersvc "github.com/fraudmesh/evalengine/components/router/internal/services/router"
)

// ApplicationName identifies this component to OpenTelemetry and to the
// Config plane RPC client's logger.
const ApplicationName = "router"

// Config is the environment-sourced configuration for the Router stage.
type Config struct {
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`

	RabbitURI              string `env:"RABBITMQ_URI"`
	RabbitMQHost           string `env:"RABBITMQ_HOST"`
	RabbitMQPortHost       string `env:"RABBITMQ_PORT_HOST"`
	RabbitMQPortAMQP       string `env:"RABBITMQ_PORT_AMQP"`
	RabbitMQUser           string `env:"RABBITMQ_DEFAULT_USER"`
	RabbitMQPass           string `env:"RABBITMQ_DEFAULT_PASS"`
	RabbitMQHealthCheckURL string `env:"RABBITMQ_HEALTH_CHECK_URL"`
	RabbitMQExchange       string `env:"RABBITMQ_EXCHANGE" envDefault:"fraudmesh.pipeline"`

	IntakeQueue       string `env:"ROUTER_INTAKE_QUEUE" envDefault:"router.intake"`
	ReloadQueue       string `env:"ROUTER_RELOAD_QUEUE" envDefault:"router.reload"`
	ConsumerGroupName string `env:"ROUTER_CONSUMER_NAME" envDefault:"router-intake"`
	Prefetch          int    `env:"ROUTER_PREFETCH" envDefault:"32"`

	IntakeSubjectPrefix string `env:"INTAKE_SUBJECT_PREFIX" envDefault:"intake"`
	RuleSubjectPrefix   string `env:"RULE_SUBJECT_PREFIX" envDefault:"rule"`
	ReloadSubjectPrefix string `env:"RELOAD_SUBJECT_PREFIX" envDefault:"config"`

	ConfigPlaneBaseURL string        `env:"CONFIG_PLANE_BASE_URL" envDefault:"http://config:3003"`
	ConfigPlaneTimeout time.Duration `env:"CONFIG_PLANE_TIMEOUT" envDefault:"5s"`

	RoutingCacheSize int           `env:"ROUTING_CACHE_SIZE" envDefault:"8"`
	RoutingCacheTTL  time.Duration `env:"ROUTING_CACHE_TTL" envDefault:"5m"`

	GRPCHealthAddress string `env:"GRPC_HEALTH_ADDRESS" envDefault:":50051"`
}

// InitRouter wires every Router stage dependency and returns the runnable
// Service.
func InitRouter() *Service {
	cfg := &Config{}

	if err := libCommons.SetConfigFromEnvVars(cfg); err != nil {
		panic(err)
	}

	logger := libZap.InitializeLogger()

	rabbitSource := fmt.Sprintf("%s://%s:%s@%s:%s",
		cfg.RabbitURI, cfg.RabbitMQUser, cfg.RabbitMQPass, cfg.RabbitMQHost, cfg.RabbitMQPortHost)

	rabbitMQConnection := &libRabbitmq.RabbitMQConnection{
		ConnectionStringSource: rabbitSource,
		HealthCheckURL:         cfg.RabbitMQHealthCheckURL,
		Host:                   cfg.RabbitMQHost,
		Port:                   cfg.RabbitMQPortAMQP,
		User:                   cfg.RabbitMQUser,
		Pass:                   cfg.RabbitMQPass,
		Logger:                 logger,
	}

	fanoutPublisher := routerrabbitmq.NewFanoutPublisher(rabbitMQConnection, cfg.RabbitMQExchange, cfg.RuleSubjectPrefix)

	intakeConsumer := mtransport.NewConsumer(rabbitMQConnection, cfg.IntakeQueue, cfg.ConsumerGroupName, cfg.Prefetch, logger)
	reloadConsumer := mtransport.NewConsumer(rabbitMQConnection, cfg.ReloadQueue, cfg.ConsumerGroupName+"-reload", 1, logger)

	localRoutingCache, err := mcache.NewLocal[mmodel.RoutingConfiguration](cfg.RoutingCacheSize)
	if err != nil {
		panic(err)
	}

	cbManager := libCircuitBreaker.NewManager(logger)
	configClient := mconfigclient.New(cfg.ConfigPlaneBaseURL, cfg.ConfigPlaneTimeout, cbManager, logger)

	resolver := mcache.NewResolver(localRoutingCache, nil, cfg.RoutingCacheTTL)

	useCase := &routersvc.UseCase{
		Resolver:     resolver,
		ConfigClient: configClient,
		Publisher:    fanoutPublisher,
	}

	intakeApp := &ConsumerApp{consumer: intakeConsumer, handle: useCase.HandleIntake, name: "router-intake"}
	reloadApp := &ConsumerApp{consumer: reloadConsumer, handle: useCase.HandleReload, name: "router-reload"}

	return &Service{
		Logger:     logger,
		IntakeApp:  intakeApp,
		ReloadApp:  reloadApp,
		Publisher:  fanoutPublisher,
		Connection: rabbitMQConnection,
		HealthAddr: cfg.GRPCHealthAddress,
	}
}
