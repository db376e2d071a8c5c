// Package rabbitmq is the Config plane's reload-event producer, publishing
// to the well-known `{config-prefix}.reload` subject (spec.md §6) with
// LastPerSubject delivery semantics configured at the broker/stream level
// (outside this process's responsibility, same packaging non-goal as every
// other broker topology decision). Grounded on
// components/consumer/internal/adapters/rabbitmq/producer.rabbitmq.go.
package rabbitmq

import (
	"context"

	libRabbitmq "github.com/LerianStudio/lib-commons/v2/commons/rabbitmq"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// ReloadPublisher publishes ReloadEvent structs, never a bare string, per
// spec.md §9's open-question resolution.
type ReloadPublisher struct {
	publisher *mtransport.Publisher
	prefix    string
}

// NewReloadPublisher wraps an already-configured RabbitMQConnection.
func NewReloadPublisher(conn *libRabbitmq.RabbitMQConnection, exchange, prefix string) *ReloadPublisher {
	return &ReloadPublisher{publisher: mtransport.NewPublisher(conn, exchange), prefix: prefix}
}

// CheckHealth reports the underlying connection's health.
func (p *ReloadPublisher) CheckHealth() bool {
	return p.publisher.CheckHealth()
}

// Publish emits a ReloadEvent to the reload subject.
func (p *ReloadPublisher) Publish(ctx context.Context, event mmodel.ReloadEvent) error {
	if err := p.publisher.Publish(ctx, constant.ReloadSubject(p.prefix), event); err != nil {
		return err
	}

	return nil
}
