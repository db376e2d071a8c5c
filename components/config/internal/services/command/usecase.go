// Package command holds the Config plane's write-side use cases: every
// mutation on Routing, Rule or Typology follows the same
// persist -> invalidate-cache -> publish-reload sequence (spec.md §9's
// "Configuration polymorphism" design note), captured once in
// broadcastMutation rather than duplicated per entity family. Grounded on
// the teacher's components/ledger/internal/services/command package split
// (one UseCase struct holding every repository, one file per operation).
package command

import (
	"context"
	"errors"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/routing"
	"github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/rule"
	"github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/typology"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// CacheInvalidator is the snapshot-eviction port broadcastMutation needs,
// narrowed from *mcache.Remote so tests can fake it.
//
//go:generate mockgen --destination=../../gen/mock/command/command_mock.go --package=mock . CacheInvalidator,ReloadPublisher
type CacheInvalidator interface {
	DeleteSnapshot(ctx context.Context, key string) error
}

// ReloadPublisher is the reload-event port broadcastMutation needs,
// narrowed from *rabbitmq.ReloadPublisher so tests can fake it.
type ReloadPublisher interface {
	Publish(ctx context.Context, event mmodel.ReloadEvent) error
}

// UseCase is the Config plane's write-side application service.
type UseCase struct {
	RoutingRepo  routing.Repository
	RuleRepo     rule.Repository
	TypologyRepo typology.Repository
	Cache        CacheInvalidator
	Reload       ReloadPublisher
}

// broadcastMutation invalidates every key in cacheKeys and publishes event
// concurrently, per spec.md §4.1: both are required for the mutation to be
// reported successful; a partial failure surfaces as ErrReloadPublishFailed
// rather than retrying at this layer — the next mutation or a process
// restart re-converges.
func (uc *UseCase) broadcastMutation(ctx context.Context, cacheKeys []string, event mmodel.ReloadEvent) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.broadcast_mutation")
	defer span.End()

	var invalidateErr, publishErr error

	invalidateDone := make(chan struct{})
	publishDone := make(chan struct{})

	go func() {
		defer close(invalidateDone)

		for _, key := range cacheKeys {
			if err := uc.Cache.DeleteSnapshot(ctx, key); err != nil {
				invalidateErr = err
			}
		}
	}()

	go func() {
		defer close(publishDone)

		publishErr = uc.Reload.Publish(ctx, event)
	}()

	<-invalidateDone
	<-publishDone

	if invalidateErr != nil {
		logger.Warnf("cache invalidation failed for one or more of %v (will re-converge on next mutation or restart): %v", cacheKeys, invalidateErr)
	}

	if publishErr != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to publish reload event", publishErr)
		logger.Errorf("reload publish failed for %s.%s (kind %s): %v", event.ID, event.Version, event.Kind, publishErr)

		return errors.Join(constant.ErrReloadPublishFailed, publishErr, invalidateErr)
	}

	if invalidateErr != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to invalidate cache", invalidateErr)

		return errors.Join(constant.ErrReloadPublishFailed, invalidateErr)
	}

	return nil
}
