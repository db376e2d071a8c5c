package command

import (
	"context"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// CreateRule persists a new rule configuration.
func (uc *UseCase) CreateRule(ctx context.Context, cfg *mmodel.RuleConfiguration) (*mmodel.RuleConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.create_rule")
	defer span.End()

	created, err := uc.RuleRepo.Create(ctx, cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to create rule", err)
		logger.Errorf("failed to create rule %s.%s: %v", cfg.ID, cfg.Version, err)

		return nil, err
	}

	event := mmodel.ReloadEvent{Kind: mmodel.ReloadKindRule, ID: created.ID, Version: created.Version}
	if err := uc.broadcastMutation(ctx, []string{constant.RuleKey(created.ID, created.Version)}, event); err != nil {
		return created, err
	}

	return created, nil
}

// UpdateRule overwrites an existing rule configuration, binding the
// explicit (id, version) pair rather than id for both, per spec.md §9's
// open-question resolution.
func (uc *UseCase) UpdateRule(ctx context.Context, id, version string, cfg *mmodel.RuleConfiguration) (*mmodel.RuleConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.update_rule")
	defer span.End()

	updated, err := uc.RuleRepo.Update(ctx, id, version, cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to update rule", err)
		logger.Errorf("failed to update rule %s.%s: %v", id, version, err)

		return nil, err
	}

	event := mmodel.ReloadEvent{Kind: mmodel.ReloadKindRule, ID: id, Version: version}
	if err := uc.broadcastMutation(ctx, []string{constant.RuleKey(id, version)}, event); err != nil {
		return updated, err
	}

	return updated, nil
}

// DeleteRule removes a rule configuration by (id, version).
func (uc *UseCase) DeleteRule(ctx context.Context, id, version string) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.delete_rule")
	defer span.End()

	if err := uc.RuleRepo.Delete(ctx, id, version); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to delete rule", err)
		logger.Errorf("failed to delete rule %s.%s: %v", id, version, err)

		return err
	}

	event := mmodel.ReloadEvent{Kind: mmodel.ReloadKindRule, ID: id, Version: version}

	return uc.broadcastMutation(ctx, []string{constant.RuleKey(id, version)}, event)
}
