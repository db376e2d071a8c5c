// Package bootstrap wires the Typologies stage's dependencies: a durable
// consumer bound to the typology wildcard subject, a Redis-backed
// rendezvous store, an aggregator fan-forward publisher, a reload listener
// and the two-tier typology cache, following the Rule-Executor stage's
// bootstrap.Config convention.
package bootstrap

import (
	"fmt"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libCircuitBreaker "github.com/LerianStudio/lib-commons/v2/commons/circuitbreaker"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	libRedis "github.com/LerianStudio/lib-commons/v2/commons/redis"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mconfigclient"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"

	tyrabbitmq "github.com/fraudmesh/evalengine/components/typologies/internal/adapters/rabbitmq"
	tyredis "github.com/fraudmesh/evalengine/components/typologies/internal/adapters/redis"
	tysvc "github.com/fraudmesh/evalengine/components/typologies/internal/services/typologies"
)

// ApplicationName identifies this component to OpenTelemetry and the Redis
// connection pool.
const ApplicationName = "typologies"

// Config is the environment-sourced configuration for the Typologies stage.
type Config struct {
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`

	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT"`
	RedisUser     string `env:"REDIS_USER"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	RabbitURI              string `env:"RABBITMQ_URI"`
	RabbitMQHost           string `env:"RABBITMQ_HOST"`
	RabbitMQPortHost       string `env:"RABBITMQ_PORT_HOST"`
	RabbitMQPortAMQP       string `env:"RABBITMQ_PORT_AMQP"`
	RabbitMQUser           string `env:"RABBITMQ_DEFAULT_USER"`
	RabbitMQPass           string `env:"RABBITMQ_DEFAULT_PASS"`
	RabbitMQHealthCheckURL string `env:"RABBITMQ_HEALTH_CHECK_URL"`
	RabbitMQExchange       string `env:"RABBITMQ_EXCHANGE" envDefault:"fraudmesh.pipeline"`

	TypologyQueue     string `env:"TYPOLOGIES_TYPOLOGY_QUEUE" envDefault:"typologies.typology"`
	ReloadQueue       string `env:"TYPOLOGIES_RELOAD_QUEUE" envDefault:"typologies.reload"`
	ConsumerGroupName string `env:"TYPOLOGIES_CONSUMER_NAME" envDefault:"typologies-typology"`
	Prefetch          int    `env:"TYPOLOGIES_PREFETCH" envDefault:"32"`

	TypologySubjectPrefix   string `env:"TYPOLOGY_SUBJECT_PREFIX" envDefault:"typology"`
	AggregatorSubjectPrefix string `env:"AGGREGATOR_SUBJECT_PREFIX" envDefault:"aggregate"`
	ReloadSubjectPrefix     string `env:"RELOAD_SUBJECT_PREFIX" envDefault:"config"`

	ConfigPlaneBaseURL string        `env:"CONFIG_PLANE_BASE_URL" envDefault:"http://config:3003"`
	ConfigPlaneTimeout time.Duration `env:"CONFIG_PLANE_TIMEOUT" envDefault:"5s"`

	TypologyCacheSize int           `env:"TYPOLOGY_CACHE_SIZE" envDefault:"64"`
	TypologyCacheTTL  time.Duration `env:"TYPOLOGY_CACHE_TTL" envDefault:"5m"`

	GRPCHealthAddress string `env:"GRPC_HEALTH_ADDRESS" envDefault:":50051"`
}

// InitTypologies wires every Typologies stage dependency and returns the
// runnable Service.
func InitTypologies() *Service {
	cfg := &Config{}

	if err := libCommons.SetConfigFromEnvVars(cfg); err != nil {
		panic(err)
	}

	logger := libZap.InitializeLogger()

	redisConnection := &libRedis.RedisConnection{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		User:     cfg.RedisUser,
		Password: cfg.RedisPassword,
		Logger:   logger,
	}

	remoteCache := mcache.NewRemote(redisConnection)
	rendezvous := tyredis.NewRendezvousStore(remoteCache)

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

	aggregatorPublisher := tyrabbitmq.NewAggregatorPublisher(rabbitMQConnection, cfg.RabbitMQExchange, cfg.AggregatorSubjectPrefix)

	typologyConsumer := mtransport.NewConsumer(rabbitMQConnection, cfg.TypologyQueue, cfg.ConsumerGroupName, cfg.Prefetch, logger)
	reloadConsumer := mtransport.NewConsumer(rabbitMQConnection, cfg.ReloadQueue, cfg.ConsumerGroupName+"-reload", 1, logger)

	localTypologyCache, err := mcache.NewLocal[mmodel.TypologyConfiguration](cfg.TypologyCacheSize)
	if err != nil {
		panic(err)
	}

	cbManager := libCircuitBreaker.NewManager(logger)
	configClient := mconfigclient.New(cfg.ConfigPlaneBaseURL, cfg.ConfigPlaneTimeout, cbManager, logger)

	resolver := mcache.NewResolver(localTypologyCache, nil, cfg.TypologyCacheTTL)

	useCase := &tysvc.UseCase{
		Resolver:     resolver,
		ConfigClient: configClient,
		Rendezvous:   rendezvous,
		Publisher:    aggregatorPublisher,
	}

	typologyApp := &ConsumerApp{consumer: typologyConsumer, handle: useCase.HandleRuleResult, name: "typologies-typology"}
	reloadApp := &ConsumerApp{consumer: reloadConsumer, handle: useCase.HandleReload, name: "typologies-reload"}

	return &Service{
		Logger:      logger,
		TypologyApp: typologyApp,
		ReloadApp:   reloadApp,
		Publisher:   aggregatorPublisher,
		Connection:  rabbitMQConnection,
		HealthAddr:  cfg.GRPCHealthAddress,
	}
}
