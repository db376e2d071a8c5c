package command

import (
	"context"
	"errors"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// CreateRouting persists a new routing configuration. If cfg.Active is true
// and a routing is already active, the mutation is rejected rather than
// silently producing two active routings (spec.md §3's expected, though not
// schema-enforced, invariant).
func (uc *UseCase) CreateRouting(ctx context.Context, cfg *mmodel.RoutingConfiguration) (*mmodel.RoutingConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.create_routing")
	defer span.End()

	if cfg.Active {
		if _, err := uc.RoutingRepo.FindActive(ctx); err == nil {
			return nil, constant.ErrDuplicateActiveRouting
		} else if !errors.Is(err, constant.ErrNoActiveRouting) {
			libOpentelemetry.HandleSpanError(&span, "Failed to check for an existing active routing", err)
			return nil, err
		}
	}

	created, err := uc.RoutingRepo.Create(ctx, cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to create routing", err)
		logger.Errorf("failed to create routing: %v", err)

		return nil, err
	}

	if err := uc.broadcastMutation(ctx, []string{constant.RoutingActiveKey, constant.RoutingByUUIDKey(created.UUID)}, mmodel.ReloadEvent{Kind: mmodel.ReloadKindRouting}); err != nil {
		return created, err
	}

	return created, nil
}

// UpdateRouting overwrites an existing routing configuration by surrogate id.
func (uc *UseCase) UpdateRouting(ctx context.Context, uuid string, cfg *mmodel.RoutingConfiguration) (*mmodel.RoutingConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.update_routing")
	defer span.End()

	updated, err := uc.RoutingRepo.Update(ctx, uuid, cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to update routing", err)
		logger.Errorf("failed to update routing %s: %v", uuid, err)

		return nil, err
	}

	if err := uc.broadcastMutation(ctx, []string{constant.RoutingActiveKey, constant.RoutingByUUIDKey(uuid)}, mmodel.ReloadEvent{Kind: mmodel.ReloadKindRouting}); err != nil {
		return updated, err
	}

	return updated, nil
}

// DeleteRouting removes a routing configuration by surrogate id.
func (uc *UseCase) DeleteRouting(ctx context.Context, uuid string) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.delete_routing")
	defer span.End()

	if err := uc.RoutingRepo.Delete(ctx, uuid); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to delete routing", err)
		logger.Errorf("failed to delete routing %s: %v", uuid, err)

		return err
	}

	return uc.broadcastMutation(ctx, []string{constant.RoutingActiveKey, constant.RoutingByUUIDKey(uuid)}, mmodel.ReloadEvent{Kind: mmodel.ReloadKindRouting})
}
