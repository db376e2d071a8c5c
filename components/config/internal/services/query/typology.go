package query

import (
	"context"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// GetTypology serves a typology configuration by (id, version), the
// fallback every Typologies instance's mcache.Resolver reaches for on a
// full cache miss.
func (uc *UseCase) GetTypology(ctx context.Context, id, version string) (*mmodel.TypologyConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_typology")
	defer span.End()

	key := constant.TypologyKey(id, version)

	if data, ok, err := uc.Cache.GetSnapshot(ctx, key); err == nil && ok {
		var cfg mmodel.TypologyConfiguration
		if decodeErr := mtransport.Decode(data, &cfg); decodeErr == nil {
			return &cfg, nil
		}
	}

	cfg, err := uc.TypologyRepo.Find(ctx, id, version)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get typology", err)
		logger.Errorf("failed to get typology %s.%s: %v", id, version, err)

		return nil, err
	}

	if data, encErr := mtransport.Encode(cfg); encErr == nil {
		if err := uc.Cache.SetSnapshot(ctx, key, data, 0); err != nil {
			logger.Warnf("failed to repopulate typology snapshot for %s.%s: %v", id, version, err)
		}
	}

	return cfg, nil
}

// GetAllTypologies lists every typology configuration.
func (uc *UseCase) GetAllTypologies(ctx context.Context) ([]*mmodel.TypologyConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_all_typologies")
	defer span.End()

	typologies, err := uc.TypologyRepo.FindAll(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get typologies", err)
		logger.Errorf("failed to get typologies: %v", err)

		return nil, err
	}

	return typologies, nil
}
