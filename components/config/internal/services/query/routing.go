package query

import (
	"context"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// GetActiveRouting serves the same snapshot every Router instance's
// mcache.Resolver falls back to on a full cache miss.
func (uc *UseCase) GetActiveRouting(ctx context.Context) (*mmodel.RoutingConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_active_routing")
	defer span.End()

	if data, ok, err := uc.Cache.GetSnapshot(ctx, constant.RoutingActiveKey); err == nil && ok {
		var cfg mmodel.RoutingConfiguration
		if decodeErr := mtransport.Decode(data, &cfg); decodeErr == nil {
			return &cfg, nil
		}
	}

	cfg, err := uc.RoutingRepo.FindActive(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get active routing", err)
		logger.Errorf("failed to get active routing: %v", err)

		return nil, err
	}

	if data, encErr := mtransport.Encode(cfg); encErr == nil {
		if err := uc.Cache.SetSnapshot(ctx, constant.RoutingActiveKey, data, 0); err != nil {
			logger.Warnf("failed to repopulate active routing snapshot: %v", err)
		}
	}

	return cfg, nil
}

// GetRouting serves a routing configuration by surrogate id.
func (uc *UseCase) GetRouting(ctx context.Context, uuid string) (*mmodel.RoutingConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_routing")
	defer span.End()

	key := constant.RoutingByUUIDKey(uuid)

	if data, ok, err := uc.Cache.GetSnapshot(ctx, key); err == nil && ok {
		var cfg mmodel.RoutingConfiguration
		if decodeErr := mtransport.Decode(data, &cfg); decodeErr == nil {
			return &cfg, nil
		}
	}

	cfg, err := uc.RoutingRepo.Find(ctx, uuid)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get routing", err)
		logger.Errorf("failed to get routing %s: %v", uuid, err)

		return nil, err
	}

	if data, encErr := mtransport.Encode(cfg); encErr == nil {
		if err := uc.Cache.SetSnapshot(ctx, key, data, 0); err != nil {
			logger.Warnf("failed to repopulate routing snapshot for %s: %v", uuid, err)
		}
	}

	return cfg, nil
}

// GetAllRoutings lists every routing configuration, bypassing the snapshot
// tier since listing is not on any stage's hot resolve path.
func (uc *UseCase) GetAllRoutings(ctx context.Context) ([]*mmodel.RoutingConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_all_routings")
	defer span.End()

	routings, err := uc.RoutingRepo.FindAll(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get routings", err)
		logger.Errorf("failed to get routings: %v", err)

		return nil, err
	}

	return routings, nil
}
