// Package bootstrap wires the Config plane's dependencies together: three
// Postgres-backed repositories (routing, rule, typology), a Redis snapshot cache, a RabbitMQ reload
// publisher and the fiber HTTP surface, following the teacher's
// Config-struct-then-InitX-function convention
// (components/consumer/internal/bootstrap/config.go).
package bootstrap

import (
	"context"
	"fmt"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	libRedis "github.com/LerianStudio/lib-commons/v2/commons/redis"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	httpin "github.com/fraudmesh/evalengine/components/config/internal/adapters/http/in"
	"github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/routing"
	"github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/rule"
	"github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/typology"
	"github.com/fraudmesh/evalengine/components/config/internal/adapters/rabbitmq"
	"github.com/fraudmesh/evalengine/components/config/internal/services/command"
	"github.com/fraudmesh/evalengine/components/config/internal/services/query"
	"github.com/fraudmesh/evalengine/pkg/mcache"
)

// ApplicationName identifies this component to the Postgres connection pool
// and to OpenTelemetry.
const ApplicationName = "config"

// Config is the environment-sourced configuration for the Config plane.
type Config struct {
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`

	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":3003"`

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
	RabbitMQExchange       string `env:"RABBITMQ_RELOAD_EXCHANGE" envDefault:"fraudmesh.reload"`
	ReloadSubjectPrefix    string `env:"RELOAD_SUBJECT_PREFIX" envDefault:"config"`

	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`
}

// postgresHealth and redisHealth adapt the shared connection wrappers to
// httpin.HealthChecker, since neither wrapper's own health probe is part of
// this system's public surface.
type postgresHealth struct{ conn *libPostgres.PostgresConnection }

func (h postgresHealth) CheckHealth() bool {
	db, err := h.conn.GetDB()
	return err == nil && db.PingContext(context.Background()) == nil
}

type redisHealth struct{ conn *libRedis.RedisConnection }

func (h redisHealth) CheckHealth() bool {
	client, err := h.conn.GetClient(context.Background())
	return err == nil && client.Ping(context.Background()).Err() == nil
}

// InitConfig wires every Config plane dependency and returns the runnable
// Service.
func InitConfig() *Service {
	cfg := &Config{}

	if err := libCommons.SetConfigFromEnvVars(cfg); err != nil {
		panic(err)
	}

	logger := libZap.InitializeLogger()

	telemetry := &libOpentelemetry.Telemetry{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.OtelServiceVersion,
		DeploymentEnv:             cfg.OtelDeploymentEnv,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
		EnableTelemetry:           cfg.EnableTelemetry,
	}

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

	redisSource := fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort)

	redisConnection := &libRedis.RedisConnection{
		Addr:     redisSource,
		User:     cfg.RedisUser,
		Password: cfg.RedisPassword,
		Logger:   logger,
	}

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

	routingRepo := routing.NewPostgreSQLRepository(postgresConnection)
	ruleRepo := rule.NewPostgreSQLRepository(postgresConnection)
	typologyRepo := typology.NewPostgreSQLRepository(postgresConnection)

	remoteCache := mcache.NewRemote(redisConnection)
	reloadPublisher := rabbitmq.NewReloadPublisher(rabbitMQConnection, cfg.RabbitMQExchange, cfg.ReloadSubjectPrefix)

	commandUseCase := &command.UseCase{
		RoutingRepo:  routingRepo,
		RuleRepo:     ruleRepo,
		TypologyRepo: typologyRepo,
		Cache:        remoteCache,
		Reload:       reloadPublisher,
	}

	queryUseCase := &query.UseCase{
		RoutingRepo:  routingRepo,
		RuleRepo:     ruleRepo,
		TypologyRepo: typologyRepo,
		Cache:        remoteCache,
	}

	routingHandler := &httpin.RoutingHandler{Command: commandUseCase, Query: queryUseCase}
	ruleHandler := &httpin.RuleHandler{Command: commandUseCase, Query: queryUseCase}
	typologyHandler := &httpin.TypologyHandler{Command: commandUseCase, Query: queryUseCase}

	app := httpin.NewRouter(logger, routingHandler, ruleHandler, typologyHandler,
		postgresHealth{conn: postgresConnection}, redisHealth{conn: redisConnection}, reloadPublisher)

	server := NewServer(cfg, app, logger, telemetry)

	return &Service{
		Server: server,
		Logger: logger,
	}
}
