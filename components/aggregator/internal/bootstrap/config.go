// Package bootstrap wires the Aggregator stage's dependencies: a durable
// consumer on the aggregator subject, a Redis-backed rendezvous store and a
// Postgres-backed terminal evaluation writer, following the Typologies
// stage's bootstrap.Config convention. Aggregator has no reload listener —
// it resolves no cached configuration of its own.
package bootstrap

import (
	"fmt"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	libRedis "github.com/LerianStudio/lib-commons/v2/commons/redis"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mtransport"

	agpostgres "github.com/fraudmesh/evalengine/components/aggregator/internal/adapters/postgres"
	agredis "github.com/fraudmesh/evalengine/components/aggregator/internal/adapters/redis"
	agsvc "github.com/fraudmesh/evalengine/components/aggregator/internal/services/aggregator"
)

// ApplicationName identifies this component to the Postgres connection pool
// and to OpenTelemetry.
const ApplicationName = "aggregator"

// Config is the environment-sourced configuration for the Aggregator stage.
type Config struct {
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`

	PrimaryDBHost      string `env:"DB_HOST"`
	PrimaryDBUser      string `env:"DB_USER"`
	PrimaryDBPassword  string `env:"DB_PASSWORD"`
	PrimaryDBName      string `env:"DB_NAME"`
	PrimaryDBPort      string `env:"DB_PORT"`
	ReplicaDBHost      string `env:"DB_REPLICA_HOST"`
	ReplicaDBUser      string `env:"DB_REPLICA_USER"`
	ReplicaDBPassword  string `env:"DB_REPLICA_PASSWORD"`
	ReplicaDBName      string `env:"DB_REPLICA_NAME"`
	ReplicaDBPort      string `env:"DB_REPLICA_PORT"`
	MaxOpenConnections int    `env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConnections int    `env:"DB_MAX_IDLE_CONNS"`

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

	AggregatorQueue   string `env:"AGGREGATOR_QUEUE" envDefault:"aggregator.result"`
	ConsumerGroupName string `env:"AGGREGATOR_CONSUMER_NAME" envDefault:"aggregator-result"`
	Prefetch          int    `env:"AGGREGATOR_PREFETCH" envDefault:"32"`

	GRPCHealthAddress string `env:"GRPC_HEALTH_ADDRESS" envDefault:":50051"`
}

// InitAggregator wires every Aggregator stage dependency and returns the
// runnable Service.
func InitAggregator() *Service {
	cfg := &Config{}

	if err := libCommons.SetConfigFromEnvVars(cfg); err != nil {
		panic(err)
	}

	logger := libZap.InitializeLogger()

	postgreSourcePrimary := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.PrimaryDBHost, cfg.PrimaryDBUser, cfg.PrimaryDBPassword, cfg.PrimaryDBName, cfg.PrimaryDBPort)

	postgreSourceReplica := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.ReplicaDBHost, cfg.ReplicaDBUser, cfg.ReplicaDBPassword, cfg.ReplicaDBName, cfg.ReplicaDBPort)

	postgresConnection := &libPostgres.PostgresConnection{
		ConnectionStringPrimary: postgreSourcePrimary,
		ConnectionStringReplica: postgreSourceReplica,
		PrimaryDBName:           cfg.PrimaryDBName,
		ReplicaDBName:           cfg.ReplicaDBName,
		Component:               ApplicationName,
		Logger:                  logger,
		MaxOpenConnections:      cfg.MaxOpenConnections,
		MaxIdleConnections:      cfg.MaxIdleConnections,
	}

	evaluationRepo := agpostgres.NewEvaluationRepository(postgresConnection)

	redisConnection := &libRedis.RedisConnection{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		User:     cfg.RedisUser,
		Password: cfg.RedisPassword,
		Logger:   logger,
	}

	rendezvous := agredis.NewRendezvousStore(mcache.NewRemote(redisConnection))

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

	aggregatorConsumer := mtransport.NewConsumer(rabbitMQConnection, cfg.AggregatorQueue, cfg.ConsumerGroupName, cfg.Prefetch, logger)

	useCase := &agsvc.UseCase{
		Rendezvous: rendezvous,
		Store:      evaluationRepo,
	}

	aggregatorApp := &ConsumerApp{consumer: aggregatorConsumer, handle: useCase.HandleTypologyResult, name: "aggregator-result"}

	return &Service{
		Logger:        logger,
		AggregatorApp: aggregatorApp,
		Connection:    rabbitMQConnection,
		HealthAddr:    cfg.GRPCHealthAddress,
	}
}
