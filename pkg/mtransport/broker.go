package mtransport

import (
	"context"
	"fmt"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libConstants "github.com/LerianStudio/lib-commons/v2/commons/constants"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes a msgpack-encoded, trace-propagated message to a
// broker subject, grounded on the teacher's
// components/consumer/internal/adapters/rabbitmq/producer.rabbitmq.go. Every
// stage's producer adapter embeds one of these rather than re-wrapping
// amqp091-go directly.
type Publisher struct {
	conn     *libRabbitmq.RabbitMQConnection
	exchange string
}

// NewPublisher wraps an already-configured RabbitMQConnection. exchange is
// the topic exchange every subject in this system publishes through; the
// subject itself is used as the routing key, per spec.md §6's `.`-joined
// subject scheme.
func NewPublisher(conn *libRabbitmq.RabbitMQConnection, exchange string) *Publisher {
	return &Publisher{conn: conn, exchange: exchange}
}

// CheckHealth reports the underlying connection's health, surfaced by the
// HTTP `/` health route of Intake and the Config plane.
func (p *Publisher) CheckHealth() bool {
	return p.conn.HealthCheck()
}

// Publish msgpack-encodes v, injects the current trace context as AMQP
// headers, and publishes it to subject on the configured exchange.
func (p *Publisher) Publish(ctx context.Context, subject string, v any) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "rabbitmq.publisher.publish")
	defer span.End()

	body, err := Encode(v)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to msgpack-encode message body", err)
		return err
	}

	headers := InjectHeaders(ctx, map[string]any{
		libConstants.HeaderID: libCommons.NewHeaderIDFromContext(ctx),
	})

	err = p.conn.Channel.PublishWithContext(ctx, p.exchange, subject, false, false, amqp.Publishing{
		ContentType:  "application/msgpack",
		DeliveryMode: amqp.Persistent,
		Headers:      amqp.Table(headers),
		Body:         body,
	})
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to publish message", err)
		logger.Errorf("failed to publish to subject %s: %v", subject, err)

		return err
	}

	return nil
}

// Handler processes one decoded delivery. subject is the routing key the
// message was published under, letting a stage bound to a wildcard pattern
// (Rule-Executor's "{rule-prefix}.*.*", Typologies' "{typology-prefix}.*")
// recover which concrete rule or typology the delivery targets. Returning an
// error that the handler wants redelivered (a transient dependency failure,
// spec.md §7) must be distinguishable from a poison-message condition it
// wants dropped; handlers signal that by returning a *PoisonError rather
// than a bare error.
type Handler func(ctx context.Context, subject string, headers amqp.Table, body []byte) error

// PoisonError marks a message as unrecoverable: the consumer acks and drops
// it rather than letting the broker redeliver, per spec.md §7's "poison
// message" / "configuration missing or malformed" error kinds.
type PoisonError struct {
	Err error
}

func (e *PoisonError) Error() string { return e.Err.Error() }
func (e *PoisonError) Unwrap() error { return e.Err }

// Poison wraps err so the consumer loop acks-and-drops instead of
// redelivering.
func Poison(err error) error {
	if err == nil {
		return nil
	}

	return &PoisonError{Err: err}
}

// Consumer is a durable pull consumer on one subject or subject pattern,
// grounded on the teacher's rabbitmq.ConsumerRoutes
// (components/consumer/internal/bootstrap/consumer.go registers one handler
// per queue); generalised here to one handler per Consumer since each
// pipeline stage only ever consumes a single logical stream.
type Consumer struct {
	conn        *libRabbitmq.RabbitMQConnection
	queue       string
	durableName string
	prefetch    int
	logger      interface {
		Infof(string, ...any)
		Errorf(string, ...any)
		Warnf(string, ...any)
	}
}

// NewConsumer builds a Consumer against queue, a durable queue already bound
// to the subject pattern this stage cares about (bound at deployment time,
// outside this process's responsibility per spec.md §1's packaging
// non-goal).
func NewConsumer(conn *libRabbitmq.RabbitMQConnection, queue, durableName string, prefetch int, logger interface {
	Infof(string, ...any)
	Errorf(string, ...any)
	Warnf(string, ...any)
}) *Consumer {
	return &Consumer{conn: conn, queue: queue, durableName: durableName, prefetch: prefetch, logger: logger}
}

// Run blocks, delivering messages to handle until ctx is cancelled
// (SIGINT/SIGTERM via the launcher, spec.md §5's cooperative cancellation).
// Ack discipline: handle returning nil acks; returning a *PoisonError acks
// and drops with a logged warning; any other error leaves the delivery
// unacked so the broker redelivers it.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	ch := c.conn.Channel

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, c.queue, c.durableName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			c.handleOne(ctx, d, handle)
		}
	}
}

func (c *Consumer) handleOne(ctx context.Context, d amqp.Delivery, handle Handler) {
	msgCtx := ExtractContext(ctx, d.Headers)

	err := handle(msgCtx, d.RoutingKey, d.Headers, d.Body)

	var poison *PoisonError

	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.Errorf("failed to ack delivery on %s: %v", c.queue, ackErr)
		}
	case asPoison(err, &poison):
		c.logger.Warnf("dropping poison message on %s: %v", c.queue, poison.Err)

		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.Errorf("failed to ack poison delivery on %s: %v", c.queue, ackErr)
		}
	default:
		c.logger.Errorf("transient failure handling delivery on %s, leaving unacked for redelivery: %v", c.queue, err)

		if nackErr := d.Nack(false, true); nackErr != nil {
			c.logger.Errorf("failed to nack delivery on %s: %v", c.queue, nackErr)
		}
	}
}

func asPoison(err error, target **PoisonError) bool {
	p, ok := err.(*PoisonError)
	if !ok {
		return false
	}

	*target = p

	return true
}
