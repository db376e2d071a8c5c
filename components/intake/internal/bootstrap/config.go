// Package bootstrap wires Intake's dependencies: two Postgres-backed raw
// document archives, a transaction-relationship history store, a
// Redis-backed data cache, a pseudonym-service client, a RabbitMQ publisher
// and the fiber HTTP surface, following the Config plane's
// Config-struct-then-InitX-function convention.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libCircuitBreaker "github.com/LerianStudio/lib-commons/v2/commons/circuitbreaker"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	libRedis "github.com/LerianStudio/lib-commons/v2/commons/redis"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"

	httpin "github.com/fraudmesh/evalengine/components/intake/internal/adapters/http/in"
	inhistory "github.com/fraudmesh/evalengine/components/intake/internal/adapters/postgres/history"
	inpacs002 "github.com/fraudmesh/evalengine/components/intake/internal/adapters/postgres/pacs002"
	inpacs008 "github.com/fraudmesh/evalengine/components/intake/internal/adapters/postgres/pacs008"
	inpseudonym "github.com/fraudmesh/evalengine/components/intake/internal/adapters/pseudonym"
	inrabbitmq "github.com/fraudmesh/evalengine/components/intake/internal/adapters/rabbitmq"
	inredis "github.com/fraudmesh/evalengine/components/intake/internal/adapters/redis"
	insvc "github.com/fraudmesh/evalengine/components/intake/internal/services/intake"
	"github.com/fraudmesh/evalengine/pkg/mcache"
)

// ApplicationName identifies this component to the Postgres connection pool
// and to OpenTelemetry.
const ApplicationName = "intake"

// Config is the environment-sourced configuration for the Intake stage.
type Config struct {
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`

	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":3001"`

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
	RabbitMQExchange       string `env:"RABBITMQ_EXCHANGE" envDefault:"fraudmesh.pipeline"`
	IntakeSubjectPrefix    string `env:"INTAKE_SUBJECT_PREFIX" envDefault:"intake"`

	PseudonymBaseURL string        `env:"PSEUDONYM_BASE_URL" envDefault:"http://pseudonym:8090"`
	PseudonymTimeout time.Duration `env:"PSEUDONYM_TIMEOUT" envDefault:"5s"`

	DataCacheTTL time.Duration `env:"DATA_CACHE_TTL" envDefault:"15m"`

	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`
}

// postgresHealth and redisHealth adapt the shared connection wrappers to
// httpin.HealthChecker, mirroring the Config plane's bootstrap.Config.
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

// InitIntake wires every Intake stage dependency and returns the runnable
// Service.
func InitIntake() *Service {
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

	pacs008Archive := inpacs008.NewArchiveRepository(postgresConnection)
	pacs002Archive := inpacs002.NewArchiveRepository(postgresConnection)
	historyRepo := inhistory.NewRepository(postgresConnection)

	redisConnection := &libRedis.RedisConnection{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		User:     cfg.RedisUser,
		Password: cfg.RedisPassword,
		Logger:   logger,
	}

	dataCacheStore := inredis.NewDataCacheStore(mcache.NewRemote(redisConnection), cfg.DataCacheTTL)

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

	routerPublisher := inrabbitmq.NewRouterPublisher(rabbitMQConnection, cfg.RabbitMQExchange, cfg.IntakeSubjectPrefix)

	cbManager := libCircuitBreaker.NewManager(logger)
	pseudonymClient := inpseudonym.New(cfg.PseudonymBaseURL, cfg.PseudonymTimeout, cbManager, logger)

	useCase := &insvc.UseCase{
		Pacs008Archive: pacs008Archive,
		Pacs002Archive: pacs002Archive,
		History:        historyRepo,
		DataCache:      dataCacheStore,
		Pseudonym:      pseudonymClient,
		Publisher:      routerPublisher,
	}

	intakeHandler := &httpin.IntakeHandler{UseCase: useCase}

	app := httpin.NewRouter(logger, intakeHandler,
		postgresHealth{conn: postgresConnection}, redisHealth{conn: redisConnection}, routerPublisher)

	server := NewServer(cfg, app, logger, telemetry)

	return &Service{
		Server: server,
		Logger: logger,
	}
}
