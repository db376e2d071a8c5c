package command

import (
	"context"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// CreateTypology persists a new typology configuration.
func (uc *UseCase) CreateTypology(ctx context.Context, cfg *mmodel.TypologyConfiguration) (*mmodel.TypologyConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.create_typology")
	defer span.End()

	created, err := uc.TypologyRepo.Create(ctx, cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to create typology", err)
		logger.Errorf("failed to create typology %s.%s: %v", cfg.ID, cfg.Version, err)

		return nil, err
	}

	event := mmodel.ReloadEvent{Kind: mmodel.ReloadKindTypology, ID: created.ID, Version: created.Version}
	if err := uc.broadcastMutation(ctx, []string{constant.TypologyKey(created.ID, created.Version)}, event); err != nil {
		return created, err
	}

	return created, nil
}

// UpdateTypology overwrites an existing typology configuration, binding the
// explicit (id, version) pair rather than id for both, per spec.md §9's
// open-question resolution.
func (uc *UseCase) UpdateTypology(ctx context.Context, id, version string, cfg *mmodel.TypologyConfiguration) (*mmodel.TypologyConfiguration, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.update_typology")
	defer span.End()

	updated, err := uc.TypologyRepo.Update(ctx, id, version, cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to update typology", err)
		logger.Errorf("failed to update typology %s.%s: %v", id, version, err)

		return nil, err
	}

	event := mmodel.ReloadEvent{Kind: mmodel.ReloadKindTypology, ID: id, Version: version}
	if err := uc.broadcastMutation(ctx, []string{constant.TypologyKey(id, version)}, event); err != nil {
		return updated, err
	}

	return updated, nil
}

// DeleteTypology removes a typology configuration by (id, version).
func (uc *UseCase) DeleteTypology(ctx context.Context, id, version string) error {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.delete_typology")
	defer span.End()

	if err := uc.TypologyRepo.Delete(ctx, id, version); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to delete typology", err)
		logger.Errorf("failed to delete typology %s.%s: %v", id, version, err)

		return err
	}

	event := mmodel.ReloadEvent{Kind: mmodel.ReloadKindTypology, ID: id, Version: version}

	return uc.broadcastMutation(ctx, []string{constant.TypologyKey(id, version)}, event)
}
