// Package aggregator holds the Aggregator stage's business logic: fold one
// typology result into its message's rendezvous set and, once every
// typology the routing declared has reported, persist the terminal
// evaluation. Grounded on the Typologies stage's UseCase shape.
package aggregator

import (
	"context"
	"fmt"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Rendezvous is the narrow correlation port Aggregator needs, implemented
// by *redis.RendezvousStore.
type Rendezvous interface {
	AddAndCount(ctx context.Context, msgID string, result mmodel.TypologyResult) (int64, error)
	Collect(ctx context.Context, msgID string) ([]mmodel.TypologyResult, error)
	Delete(ctx context.Context, msgID string) error
}

// Store is the narrow persistence port Aggregator needs, implemented by
// *postgres.EvaluationRepository.
type Store interface {
	Insert(ctx context.Context, id string, payload mmodel.Payload) error
}

// UseCase is the Aggregator stage's single use case: correlate typology
// results per message and persist the terminal evaluation once complete.
type UseCase struct {
	Rendezvous Rendezvous
	Store      Store
}

// HandleTypologyResult implements mtransport.Handler against the aggregator
// stream, per spec.md §4.6.
func (uc *UseCase) HandleTypologyResult(ctx context.Context, _ string, _ amqp.Table, body []byte) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "aggregator.handle_typology_result")
	defer span.End()

	var payload mmodel.Payload
	if err := mtransport.Decode(body, &payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to decode aggregation payload", err)
		return mtransport.Poison(fmt.Errorf("decode aggregation payload: %w", err))
	}

	if payload.TypologyResult == nil {
		return mtransport.Poison(fmt.Errorf("aggregation message missing typology_result"))
	}

	if payload.Routing == nil {
		return mtransport.Poison(fmt.Errorf("aggregation message missing routing"))
	}

	msgID, ok := payload.MsgID()
	if !ok {
		return mtransport.Poison(fmt.Errorf("aggregation message missing msg_id"))
	}

	count, err := uc.Rendezvous.AddAndCount(ctx, msgID, *payload.TypologyResult)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to add to rendezvous set", err)
		return fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	expected := int64(payload.Routing.TypologyCount())
	if expected == 0 || count < expected {
		logger.Infof("aggregator: %s has %d/%d typology results, waiting", msgID, count, expected)
		return nil
	}

	results, err := uc.Rendezvous.Collect(ctx, msgID)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to collect rendezvous members", err)
		return fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	review := false

	for _, r := range results {
		if r.Review {
			review = true
			break
		}
	}

	aggregation := mmodel.AggregationResult{
		ID:              payload.Routing.Messages[0].ID,
		Version:         payload.Routing.Messages[0].Version,
		TypologyResults: results,
		Review:          review,
	}

	final := payload
	final.AggregationResult = &aggregation
	final.RuleResult = nil
	final.TypologyResult = nil

	id := libCommons.GenerateUUIDv7().String()

	if err := uc.Store.Insert(ctx, id, final); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to persist evaluation", err)
		return fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	if err := uc.Rendezvous.Delete(ctx, msgID); err != nil {
		logger.Warnf("aggregator: failed to delete rendezvous set for %s: %v", msgID, err)
	}

	return nil
}
