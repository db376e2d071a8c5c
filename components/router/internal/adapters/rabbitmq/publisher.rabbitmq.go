// Package rabbitmq is the Router stage's broker adapter: a rule-subject
// fan-out publisher wrapping pkg/mtransport.Publisher, grounded on the
// Config plane's adapters/rabbitmq/publisher.rabbitmq.go wrapper convention,
// itself grounded on the teacher's
// components/consumer/internal/adapters/rabbitmq/producer.rabbitmq.go.
package rabbitmq

import (
	"context"

	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// FanoutPublisher publishes a routed payload to a specific rule's subject.
type FanoutPublisher struct {
	publisher *mtransport.Publisher
	prefix    string
}

// NewFanoutPublisher wraps an already-configured RabbitMQConnection.
func NewFanoutPublisher(conn *libRabbitmq.RabbitMQConnection, exchange, rulePrefix string) *FanoutPublisher {
	return &FanoutPublisher{publisher: mtransport.NewPublisher(conn, exchange), prefix: rulePrefix}
}

// CheckHealth reports the underlying connection's health.
func (p *FanoutPublisher) CheckHealth() bool {
	return p.publisher.CheckHealth()
}

// PublishRule publishes v to the subject for (ruleID, ruleVersion).
func (p *FanoutPublisher) PublishRule(ctx context.Context, ruleID, ruleVersion string, v any) error {
	return p.publisher.Publish(ctx, constant.RuleSubject(p.prefix, ruleID, ruleVersion), v)
}
