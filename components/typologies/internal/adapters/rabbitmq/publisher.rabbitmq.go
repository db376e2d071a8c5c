// Package rabbitmq is the Typologies stage's broker adapter: an aggregator
// publisher wrapping pkg/mtransport.Publisher, grounded on the Rule-Executor
// adapter's TypologyPublisher convention.
package rabbitmq

import (
	"context"

	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// AggregatorPublisher publishes a scored typology result to the aggregator
// subject.
type AggregatorPublisher struct {
	publisher *mtransport.Publisher
	subject   string
}

// NewAggregatorPublisher wraps an already-configured RabbitMQConnection.
func NewAggregatorPublisher(conn *libRabbitmq.RabbitMQConnection, exchange, aggregatorPrefix string) *AggregatorPublisher {
	return &AggregatorPublisher{publisher: mtransport.NewPublisher(conn, exchange), subject: constant.AggregatorSubject(aggregatorPrefix)}
}

// CheckHealth reports the underlying connection's health.
func (p *AggregatorPublisher) CheckHealth() bool {
	return p.publisher.CheckHealth()
}

// PublishAggregation publishes v to the aggregator subject.
func (p *AggregatorPublisher) PublishAggregation(ctx context.Context, v any) error {
	return p.publisher.Publish(ctx, p.subject, v)
}
