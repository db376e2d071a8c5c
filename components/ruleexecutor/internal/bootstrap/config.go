// Package bootstrap wires the Rule-Executor stage's dependencies: a durable
// consumer on the rule stream, a Postgres-backed transaction-history reader,
// a typology fan-forward publisher, a reload listener and the two-tier rule
// cache, following the Router stage's bootstrap.Config convention.
package bootstrap

import (
	"fmt"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libCircuitBreaker "github.com/LerianStudio/lib-commons/v2/commons/circuitbreaker"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mconfigclient"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"

	rerabbitmq "github.com/fraudmesh/evalengine/components/ruleexecutor/internal/adapters/rabbitmq"
	repostgres "github.com/fraudmesh/evalengine/components/ruleexecutor/internal/adapters/postgres"
	resvc "github.com/fraudmesh/evalengine/components/ruleexecutor/internal/services/ruleexecutor"
)

// ApplicationName identifies this component to the Postgres connection pool
// and to OpenTelemetry.
const ApplicationName = "ruleexecutor"

// Config is the environment-sourced configuration for the Rule-Executor
// stage.
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

	RabbitURI              string `env:"RABBITMQ_URI"`
	RabbitMQHost           string `env:"RABBITMQ_HOST"`
	RabbitMQPortHost       string `env:"RABBITMQ_PORT_HOST"`
	RabbitMQPortAMQP       string `env:"RABBITMQ_PORT_AMQP"`
	RabbitMQUser           string `env:"RABBITMQ_DEFAULT_USER"`
	RabbitMQPass           string `env:"RABBITMQ_DEFAULT_PASS"`
	RabbitMQHealthCheckURL string `env:"RABBITMQ_HEALTH_CHECK_URL"`
	RabbitMQExchange       string `env:"RABBITMQ_EXCHANGE" envDefault:"fraudmesh.pipeline"`

	RuleQueue         string `env:"RULEEXECUTOR_RULE_QUEUE" envDefault:"ruleexecutor.rule"`
	ReloadQueue       string `env:"RULEEXECUTOR_RELOAD_QUEUE" envDefault:"ruleexecutor.reload"`
	ConsumerGroupName string `env:"RULEEXECUTOR_CONSUMER_NAME" envDefault:"ruleexecutor-rule"`
	Prefetch          int    `env:"RULEEXECUTOR_PREFETCH" envDefault:"32"`

	RuleSubjectPrefix     string `env:"RULE_SUBJECT_PREFIX" envDefault:"rule"`
	TypologySubjectPrefix string `env:"TYPOLOGY_SUBJECT_PREFIX" envDefault:"typology"`
	ReloadSubjectPrefix   string `env:"RELOAD_SUBJECT_PREFIX" envDefault:"config"`

	ConfigPlaneBaseURL string        `env:"CONFIG_PLANE_BASE_URL" envDefault:"http://config:3003"`
	ConfigPlaneTimeout time.Duration `env:"CONFIG_PLANE_TIMEOUT" envDefault:"5s"`

	RuleCacheSize int           `env:"RULE_CACHE_SIZE" envDefault:"64"`
	RuleCacheTTL  time.Duration `env:"RULE_CACHE_TTL" envDefault:"5m"`

	GRPCHealthAddress string `env:"GRPC_HEALTH_ADDRESS" envDefault:":50051"`
}

// InitRuleExecutor wires every Rule-Executor stage dependency and returns
// the runnable Service.
func InitRuleExecutor() *Service {
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

	historyRepo := repostgres.NewHistoryRepository(postgresConnection)

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

	typologyPublisher := rerabbitmq.NewTypologyPublisher(rabbitMQConnection, cfg.RabbitMQExchange, cfg.TypologySubjectPrefix)

	ruleConsumer := mtransport.NewConsumer(rabbitMQConnection, cfg.RuleQueue, cfg.ConsumerGroupName, cfg.Prefetch, logger)
	reloadConsumer := mtransport.NewConsumer(rabbitMQConnection, cfg.ReloadQueue, cfg.ConsumerGroupName+"-reload", 1, logger)

	localRuleCache, err := mcache.NewLocal[mmodel.RuleConfiguration](cfg.RuleCacheSize)
	if err != nil {
		panic(err)
	}

	cbManager := libCircuitBreaker.NewManager(logger)
	configClient := mconfigclient.New(cfg.ConfigPlaneBaseURL, cfg.ConfigPlaneTimeout, cbManager, logger)

	resolver := mcache.NewResolver(localRuleCache, nil, cfg.RuleCacheTTL)

	useCase := &resvc.UseCase{
		Resolver:          resolver,
		ConfigClient:      configClient,
		History:           historyRepo,
		Publisher:         typologyPublisher,
		RuleSubjectPrefix: cfg.RuleSubjectPrefix,
	}

	ruleApp := &ConsumerApp{consumer: ruleConsumer, handle: useCase.HandleRule, name: "ruleexecutor-rule"}
	reloadApp := &ConsumerApp{consumer: reloadConsumer, handle: useCase.HandleReload, name: "ruleexecutor-reload"}

	return &Service{
		Logger:     logger,
		RuleApp:    ruleApp,
		ReloadApp:  reloadApp,
		Publisher:  typologyPublisher,
		Connection: rabbitMQConnection,
		HealthAddr: cfg.GRPCHealthAddress,
	}
}
