// Package rabbitmq is Intake's broker adapter: the one publisher that
// starts the pipeline, grounded on the Rule-Executor stage's
// adapters/rabbitmq.TypologyPublisher convention.
package rabbitmq

import (
	"context"

	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// RouterPublisher publishes an enriched Payload to the intake subject, per
// spec.md §4.2 step 5.
type RouterPublisher struct {
	publisher *mtransport.Publisher
	prefix    string
}

// NewRouterPublisher wraps an already-configured RabbitMQConnection.
func NewRouterPublisher(conn *libRabbitmq.RabbitMQConnection, exchange, intakePrefix string) *RouterPublisher {
	return &RouterPublisher{publisher: mtransport.NewPublisher(conn, exchange), prefix: intakePrefix}
}

// CheckHealth reports the underlying connection's health.
func (p *RouterPublisher) CheckHealth() bool {
	return p.publisher.CheckHealth()
}

// PublishIntake publishes v to "{intake-prefix}.{msgID}", the broker
// subject Router consumes from.
func (p *RouterPublisher) PublishIntake(ctx context.Context, msgID string, v any) error {
	return p.publisher.Publish(ctx, constant.IntakeSubject(p.prefix, msgID), v)
}
