// Package rabbitmq is Rule-Executor's broker adapter: a typology-subject
// publisher wrapping pkg/mtransport.Publisher, grounded on the Router
// adapter's FanoutPublisher convention.
package rabbitmq

import (
	"context"

	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// TypologyPublisher publishes a scored payload to the typology subject for
// the rule that just evaluated it.
type TypologyPublisher struct {
	publisher *mtransport.Publisher
	prefix    string
}

// NewTypologyPublisher wraps an already-configured RabbitMQConnection.
func NewTypologyPublisher(conn *libRabbitmq.RabbitMQConnection, exchange, typologyPrefix string) *TypologyPublisher {
	return &TypologyPublisher{publisher: mtransport.NewPublisher(conn, exchange), prefix: typologyPrefix}
}

// CheckHealth reports the underlying connection's health.
func (p *TypologyPublisher) CheckHealth() bool {
	return p.publisher.CheckHealth()
}

// PublishTypology publishes v to the subject for ruleID.
func (p *TypologyPublisher) PublishTypology(ctx context.Context, ruleID string, v any) error {
	return p.publisher.Publish(ctx, constant.TypologySubject(p.prefix, ruleID), v)
}
