//go:build integration

package rabbitmq

import (
	"context"
	"fmt"
	"testing"
	"time"

	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRabbitMQContainer(t *testing.T) (amqpURI, host, amqpPort, mgmtPort string) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-management-alpine",
		ExposedPorts: []string{"5672/tcp", "15672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err = container.Host(ctx)
	require.NoError(t, err)

	mapped5672, err := container.MappedPort(ctx, "5672")
	require.NoError(t, err)

	mapped15672, err := container.MappedPort(ctx, "15672")
	require.NoError(t, err)

	amqpPort = mapped5672.Port()
	mgmtPort = mapped15672.Port()
	amqpURI = fmt.Sprintf("amqp://guest:guest@%s:%s/", host, amqpPort)

	return amqpURI, host, amqpPort, mgmtPort
}

// TestAggregatorPublisher_PublishesToAggregatorSubject exercises a real
// AggregatorPublisher against a real broker, verifying the aggregator
// subject is what actually lands in the queue.
func TestAggregatorPublisher_PublishesToAggregatorSubject(t *testing.T) {
	amqpURI, host, amqpPort, mgmtPort := startRabbitMQContainer(t)

	exchange := "typologies"
	prefix := "aggregator"

	conn := &libRabbitmq.RabbitMQConnection{
		ConnectionStringSource: amqpURI,
		HealthCheckURL:         fmt.Sprintf("http://%s:%s", host, mgmtPort),
		Host:                   host,
		Port:                   amqpPort,
		User:                   "guest",
		Pass:                   "guest",
		Logger:                 libZap.InitializeLogger(),
	}

	amqpConn, err := amqp.Dial(amqpURI)
	require.NoError(t, err)
	defer amqpConn.Close()

	ch, err := amqpConn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil))

	q, err := ch.QueueDeclare("aggregator-queue", true, false, false, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, prefix, exchange, false, nil))

	pub := NewAggregatorPublisher(conn, exchange, prefix)

	require.NoError(t, pub.PublishAggregation(context.Background(), map[string]string{"typology_id": "typ-1"}))

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case delivered := <-msgs:
		require.NotEmpty(t, delivered.Body)
	case <-time.After(10 * time.Second):
		t.Fatal("aggregation result was not delivered to the bound queue within the timeout")
	}
}
