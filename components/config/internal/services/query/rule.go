package query

import (
	"context"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// GetRule serves a rule configuration by (id, version), the fallback every
// Rule-Executor instance's mcache.Resolver reaches for on a full cache miss.
func (uc *UseCase) GetRule(ctx context.Context, id, version string) (*mmodel.RuleConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_rule")
	defer span.End()

	key := constant.RuleKey(id, version)

	if data, ok, err := uc.Cache.GetSnapshot(ctx, key); err == nil && ok {
		var cfg mmodel.RuleConfiguration
		if decodeErr := mtransport.Decode(data, &cfg); decodeErr == nil {
			return &cfg, nil
		}
	}

	cfg, err := uc.RuleRepo.Find(ctx, id, version)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get rule", err)
		logger.Errorf("failed to get rule %s.%s: %v", id, version, err)

		return nil, err
	}

	if data, encErr := mtransport.Encode(cfg); encErr == nil {
		if err := uc.Cache.SetSnapshot(ctx, key, data, 0); err != nil {
			logger.Warnf("failed to repopulate rule snapshot for %s.%s: %v", id, version, err)
		}
	}

	return cfg, nil
}

// GetAllRules lists every rule configuration.
func (uc *UseCase) GetAllRules(ctx context.Context) ([]*mmodel.RuleConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_all_rules")
	defer span.End()

	rules, err := uc.RuleRepo.FindAll(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get rules", err)
		logger.Errorf("failed to get rules: %v", err)

		return nil, err
	}

	return rules, nil
}
