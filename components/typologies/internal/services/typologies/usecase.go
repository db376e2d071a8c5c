// Package typologies holds the Typologies stage's business logic:
// correlate rule results per message via a rendezvous set, evaluate each
// typology the routing declares once its rules have all reported, and
// forward completed typology results to Aggregator. Grounded on the
// Rule-Executor stage's UseCase shape.
package typologies

import (
	"context"
	"fmt"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
	"github.com/fraudmesh/evalengine/pkg/mtypology"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Fetcher is the config-plane RPC surface Typologies needs on a full cache
// miss, narrowed from *mconfigclient.Client so tests can fake it.
type Fetcher interface {
	GetTypology(ctx context.Context, id, version string) (mmodel.TypologyConfiguration, error)
}

// Rendezvous is the narrow correlation port Typologies needs, implemented
// by *redis.RendezvousStore.
type Rendezvous interface {
	AddAndCollect(ctx context.Context, msgID string, result mmodel.RuleResult) ([]mmodel.RuleResult, error)
	Delete(ctx context.Context, msgID string) error
}

// AggregatorPublisher is the narrow forward port Typologies needs,
// implemented by *rabbitmq.AggregatorPublisher.
type AggregatorPublisher interface {
	PublishAggregation(ctx context.Context, v any) error
}

// UseCase is the Typologies stage's single use case: fold one rule result
// into its message's rendezvous set and evaluate every typology it
// completes.
type UseCase struct {
	Resolver     *mcache.Resolver[mmodel.TypologyConfiguration]
	ConfigClient Fetcher
	Rendezvous   Rendezvous
	Publisher    AggregatorPublisher
}

func (uc *UseCase) resolveTypology(ctx context.Context, id, version string) (mmodel.TypologyConfiguration, error) {
	key := constant.TypologyKey(id, version)

	return uc.Resolver.Resolve(ctx, key, func(ctx context.Context) (mmodel.TypologyConfiguration, error) {
		return uc.ConfigClient.GetTypology(ctx, id, version)
	})
}

// resultsFor returns the subset of results whose (id, version) is one of
// t's declared rules.
func resultsFor(results []mmodel.RuleResult, t mmodel.RoutingTypology) []mmodel.RuleResult {
	want := make(map[mmodel.VersionedID]struct{}, len(t.Rules))
	for _, r := range t.Rules {
		want[mmodel.VersionedID{ID: r.ID, Version: r.Version}] = struct{}{}
	}

	out := make([]mmodel.RuleResult, 0, len(t.Rules))

	for _, rr := range results {
		if _, ok := want[mmodel.VersionedID{ID: rr.ID, Version: rr.Version}]; ok {
			out = append(out, rr)
		}
	}

	return out
}

// HandleRuleResult implements mtransport.Handler against the typology
// stream, per spec.md §4.5.
func (uc *UseCase) HandleRuleResult(ctx context.Context, _ string, _ amqp.Table, body []byte) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "typologies.handle_rule_result")
	defer span.End()

	var payload mmodel.Payload
	if err := mtransport.Decode(body, &payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to decode typology payload", err)
		return mtransport.Poison(fmt.Errorf("decode typology payload: %w", err))
	}

	if payload.RuleResult == nil {
		return mtransport.Poison(fmt.Errorf("typology message missing rule_result"))
	}

	if payload.Routing == nil {
		return mtransport.Poison(fmt.Errorf("typology message missing routing"))
	}

	msgID, ok := payload.MsgID()
	if !ok {
		return mtransport.Poison(fmt.Errorf("typology message missing msg_id"))
	}

	allResults, err := uc.Rendezvous.AddAndCollect(ctx, msgID, *payload.RuleResult)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to add to rendezvous set", err)
		return fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	currentRule := mmodel.RoutingRule{ID: payload.RuleResult.ID, Version: payload.RuleResult.Version}
	candidates := payload.Routing.TypologiesContainingRule(currentRule)

	for _, typology := range candidates {
		subset := resultsFor(allResults, typology)
		if len(subset) < len(typology.Rules) {
			continue
		}

		cfg, err := uc.resolveTypology(ctx, typology.ID, typology.Version)
		if err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to resolve typology configuration", err)
			return fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
		}

		score := mtypology.EvaluateWithWarn(cfg, subset, func(format string, args ...any) {
			logger.Warnf(format, args...)
		})

		review, attached := mtypology.ApplyWorkflow(score, cfg.Workflow)

		result := mmodel.TypologyResult{
			ID:          cfg.ID,
			Version:     cfg.Version,
			RuleResults: subset,
			Result:      score,
			Review:      review,
			Workflow:    attached,
		}

		out := payload
		out.TypologyResult = &result

		if pubErr := uc.Publisher.PublishAggregation(ctx, out); pubErr != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to publish aggregation message", pubErr)
			return fmt.Errorf("%w: %w", constant.ErrTransientDependency, pubErr)
		}
	}

	if allTypologiesComplete(payload.Routing, allResults) {
		if delErr := uc.Rendezvous.Delete(ctx, msgID); delErr != nil {
			logger.Warnf("typologies: failed to delete rendezvous set for %s: %v", msgID, delErr)
		}
	}

	return nil
}

// HandleReload invalidates the single cached typology configuration a
// reload event names, scoped the same way Rule-Executor's HandleReload is.
func (uc *UseCase) HandleReload(ctx context.Context, _ string, _ amqp.Table, body []byte) error {
	var event mmodel.ReloadEvent
	if err := mtransport.Decode(body, &event); err != nil {
		return mtransport.Poison(fmt.Errorf("decode reload event: %w", err))
	}

	if event.Kind == mmodel.ReloadKindTypology {
		uc.Resolver.Invalidate(constant.TypologyKey(event.ID, event.Version))
	}

	return nil
}

// allTypologiesComplete reports whether every typology the routing declares
// for its first message slot now has every rule result it needs, the
// signal spec.md §4.5 step 5 uses to delete the rendezvous key.
func allTypologiesComplete(routing *mmodel.RoutingConfiguration, results []mmodel.RuleResult) bool {
	if len(routing.Messages) == 0 {
		return true
	}

	for _, t := range routing.Messages[0].Typologies {
		if len(resultsFor(results, t)) < len(t.Rules) {
			return false
		}
	}

	return true
}
