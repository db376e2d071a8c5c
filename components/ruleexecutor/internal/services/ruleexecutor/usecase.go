// Package ruleexecutor holds the Rule-Executor stage's business logic:
// resolve the targeted rule's configuration, evaluate it against the
// payload and its transaction history, and forward the scored result to
// Typologies. Grounded on the Router stage's UseCase shape, adapted from a
// fan-out port to a single-rule evaluate-and-forward port.
package ruleexecutor

import (
	"context"
	"errors"
	"fmt"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mrule"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Fetcher is the config-plane RPC surface Rule-Executor needs on a full
// cache miss, narrowed from *mconfigclient.Client so tests can fake it.
type Fetcher interface {
	GetRule(ctx context.Context, id, version string) (mmodel.RuleConfiguration, error)
}

// TypologyPublisher is the narrow forward port Rule-Executor needs,
// implemented by *rabbitmq.TypologyPublisher.
type TypologyPublisher interface {
	PublishTypology(ctx context.Context, ruleID string, v any) error
}

// UseCase is the Rule-Executor stage's single use case: evaluate one rule
// against one payload.
type UseCase struct {
	Resolver     *mcache.Resolver[mmodel.RuleConfiguration]
	ConfigClient Fetcher
	History      mrule.History
	Publisher    TypologyPublisher
	RuleSubjectPrefix string
}

func (uc *UseCase) resolveRule(ctx context.Context, id, version string) (mmodel.RuleConfiguration, error) {
	key := constant.RuleKey(id, version)

	return uc.Resolver.Resolve(ctx, key, func(ctx context.Context) (mmodel.RuleConfiguration, error) {
		return uc.ConfigClient.GetRule(ctx, id, version)
	})
}

// HandleRule implements mtransport.Handler against the rule stream, per
// spec.md §4.4: recover (rule_id, rule_version) from the subject, resolve
// the rule configuration, evaluate it, stamp the result and forward to
// Typologies.
func (uc *UseCase) HandleRule(ctx context.Context, subject string, _ amqp.Table, body []byte) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "ruleexecutor.handle_rule")
	defer span.End()

	ruleID, ruleVersion, ok := constant.ParseRuleSubject(uc.RuleSubjectPrefix, subject)
	if !ok {
		return mtransport.Poison(fmt.Errorf("cannot parse rule subject %q", subject))
	}

	var payload mmodel.Payload
	if err := mtransport.Decode(body, &payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to decode rule payload", err)
		return mtransport.Poison(fmt.Errorf("decode rule payload: %w", err))
	}

	cfg, err := uc.resolveRule(ctx, ruleID, ruleVersion)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to resolve rule configuration", err)
		return fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	result, err := mrule.EvaluateRule901(ctx, cfg, payload, uc.History)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to evaluate rule", err)
		logger.Warnf("ruleexecutor: rule %s.%s evaluation failed: %v", ruleID, ruleVersion, err)

		switch {
		case isPoisonCondition(err):
			return mtransport.Poison(err)
		default:
			return fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
		}
	}

	payload.RuleResult = &result

	if pubErr := uc.Publisher.PublishTypology(ctx, ruleID, payload); pubErr != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to publish typology message", pubErr)
		return fmt.Errorf("%w: %w", constant.ErrTransientDependency, pubErr)
	}

	return nil
}

// HandleReload implements mtransport.Handler against the config reload
// stream: a Rule-kind reload invalidates the single (id, version) entry it
// names, per spec.md §4.4 step 2's "reload-event invalidation scoped to
// Rule kind".
func (uc *UseCase) HandleReload(ctx context.Context, _ string, _ amqp.Table, body []byte) error {
	var event mmodel.ReloadEvent
	if err := mtransport.Decode(body, &event); err != nil {
		return mtransport.Poison(fmt.Errorf("decode reload event: %w", err))
	}

	if event.Kind == mmodel.ReloadKindRule {
		uc.Resolver.Invalidate(constant.RuleKey(event.ID, event.Version))
	}

	return nil
}

// isPoisonCondition reports whether err is one of the rule-evaluation
// errors spec.md §7 treats as unrecoverable for this specific message
// rather than a transient dependency failure worth redelivering.
func isPoisonCondition(err error) bool {
	switch {
	case errors.Is(err, constant.ErrMissingTransaction),
		errors.Is(err, constant.ErrMissingDataCache),
		errors.Is(err, constant.ErrMalformedRuleConfiguration),
		errors.Is(err, constant.ErrNoBandMatched):
		return true
	default:
		return false
	}
}
