// Package router holds the Router stage's business logic: resolve the
// active routing, fan a payload out to every rule it targets, and keep the
// local routing cache coherent with the Config plane via reload events.
// Grounded on the teacher's services/commands UseCase convention
// (components/consumer/internal/services/commands/command.go), adapted from
// a database-command surface to a broker-fan-out surface.
package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Fetcher is the config-plane RPC surface Router needs on a full cache
// miss, narrowed from *mconfigclient.Client so tests can fake it.
//
//go:generate mockgen --destination=../../gen/mock/router/router_mock.go --package=mock . Fetcher,RulePublisher
type Fetcher interface {
	GetActiveRouting(ctx context.Context) (mmodel.RoutingConfiguration, error)
}

// RulePublisher is the narrow fan-out port Router needs, implemented by
// *rabbitmq.FanoutPublisher.
type RulePublisher interface {
	PublishRule(ctx context.Context, ruleID, ruleVersion string, v any) error
}

// UseCase is the Router stage's single use case: route one intake payload
// to every rule its transaction type's active routing declares.
type UseCase struct {
	Resolver     *mcache.Resolver[mmodel.RoutingConfiguration]
	ConfigClient Fetcher
	Publisher    RulePublisher
}

func (uc *UseCase) resolveActiveRouting(ctx context.Context) (mmodel.RoutingConfiguration, error) {
	return uc.Resolver.Resolve(ctx, constant.RoutingActiveKey, uc.ConfigClient.GetActiveRouting)
}

// HandleIntake implements mtransport.Handler against the intake stream, per
// spec.md §4.3: resolve the active routing, compute the fan-out set, stamp
// the payload and publish one message per target rule, acking only once
// every fan-out publish has returned.
func (uc *UseCase) HandleIntake(ctx context.Context, _ string, _ amqp.Table, body []byte) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "router.handle_intake")
	defer span.End()

	var payload mmodel.Payload
	if err := mtransport.Decode(body, &payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to decode intake payload", err)
		return mtransport.Poison(fmt.Errorf("decode intake payload: %w", err))
	}

	routing, err := uc.resolveActiveRouting(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to resolve active routing", err)

		if errors.Is(err, constant.ErrConfigurationNotFound) {
			logger.Warnf("router: no active routing available, dropping message: %v", err)
			return mtransport.Poison(fmt.Errorf("%w: %w", constant.ErrNoActiveRouting, err))
		}

		logger.Warnf("router: failed to resolve active routing, will retry: %v", err)

		return fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	targets := routing.FanOut(payload.TxTp)
	if len(targets) == 0 {
		logger.Infof("router: no rules target tx_tp %s, dropping", payload.TxTp)
		return nil
	}

	payload.Routing = &routing

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, target := range targets {
		wg.Add(1)

		go func(target mmodel.RoutingRule) {
			defer wg.Done()

			if pubErr := uc.Publisher.PublishRule(ctx, target.ID, target.Version, payload); pubErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = pubErr
				}
				mu.Unlock()
			}
		}(target)
	}

	wg.Wait()

	if firstErr != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to publish one or more rule fan-out messages", firstErr)
		return fmt.Errorf("%w: %w", constant.ErrTransientDependency, firstErr)
	}

	return nil
}

// HandleReload implements mtransport.Handler against the config reload
// stream, per spec.md §9: any Routing-kind reload invalidates the whole
// local routing cache, since a new routing may now be the active one under
// the same "routing.active" key; Rule and Typology reloads are not this
// stage's concern.
func (uc *UseCase) HandleReload(ctx context.Context, _ string, _ amqp.Table, body []byte) error {
	var event mmodel.ReloadEvent
	if err := mtransport.Decode(body, &event); err != nil {
		return mtransport.Poison(fmt.Errorf("decode reload event: %w", err))
	}

	if event.Kind == mmodel.ReloadKindRouting {
		uc.Resolver.InvalidateAll()
	}

	return nil
}
