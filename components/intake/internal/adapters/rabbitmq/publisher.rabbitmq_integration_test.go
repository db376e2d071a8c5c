//go:build integration

package rabbitmq

import (
	"context"
	"fmt"
	"testing"
	"time"

	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// rabbitMQContainer holds a running RabbitMQ testcontainer and the exchange
// it was set up with, grounded on the teacher's
// components/transaction/internal/adapters/rabbitmq integration-test
// convention (real broker, no mocked transport).
type rabbitMQContainer struct {
	container testcontainers.Container
	amqpURI   string
	host      string
	amqpPort  string
	mgmtPort  string
}

func startRabbitMQContainer(t *testing.T) *rabbitMQContainer {
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

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	amqpPort, err := container.MappedPort(ctx, "5672")
	require.NoError(t, err)

	mgmtPort, err := container.MappedPort(ctx, "15672")
	require.NoError(t, err)

	return &rabbitMQContainer{
		container: container,
		amqpURI:   fmt.Sprintf("amqp://guest:guest@%s:%s/", host, amqpPort.Port()),
		host:      host,
		amqpPort:  amqpPort.Port(),
		mgmtPort:  mgmtPort.Port(),
	}
}

func (c *rabbitMQContainer) newConnection() *libRabbitmq.RabbitMQConnection {
	return &libRabbitmq.RabbitMQConnection{
		ConnectionStringSource: c.amqpURI,
		HealthCheckURL:         fmt.Sprintf("http://%s:%s", c.host, c.mgmtPort),
		Host:                   c.host,
		Port:                   c.amqpPort,
		User:                   "guest",
		Pass:                   "guest",
		Logger:                 libZap.InitializeLogger(),
	}
}

// TestRouterPublisher_PublishesToIntakeSubject exercises a real RouterPublisher
// against a real broker, verifying that spec.md §4.2 step 5's subject naming
// ("{intake-prefix}.{msgID}") is what actually lands in the queue.
func TestRouterPublisher_PublishesToIntakeSubject(t *testing.T) {
	rmq := startRabbitMQContainer(t)

	exchange := "intake"
	prefix := "intake"
	msgID := "msg-integration-1"

	conn := rmq.newConnection()

	amqpConn, err := amqp.Dial(rmq.amqpURI)
	require.NoError(t, err)
	defer amqpConn.Close()

	ch, err := amqpConn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil))

	q, err := ch.QueueDeclare("intake-queue", true, false, false, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, exchange+"."+msgID, exchange, false, nil))

	pub := NewRouterPublisher(conn, exchange, prefix)

	payload := mmodel.Payload{TxTp: mmodel.TxTypePacs008}
	require.NoError(t, pub.PublishIntake(context.Background(), msgID, payload))

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case delivered := <-msgs:
		require.NotEmpty(t, delivered.Body)
	case <-time.After(10 * time.Second):
		t.Fatal("message was not delivered to the bound queue within the timeout")
	}
}
