package command

import (
	"context"
	"errors"
	"testing"

	mockrouting "github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/routing"
	mockcommand "github.com/fraudmesh/evalengine/components/config/internal/gen/mock/command"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateRouting_RejectsSecondActiveRouting(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().FindActive(gomock.Any()).Return(&mmodel.RoutingConfiguration{UUID: "existing"}, nil)

	uc := &UseCase{RoutingRepo: repo, Cache: mockcommand.NewMockCacheInvalidator(ctrl), Reload: mockcommand.NewMockReloadPublisher(ctrl)}

	_, err := uc.CreateRouting(context.Background(), &mmodel.RoutingConfiguration{Active: true})
	assert.ErrorIs(t, err, constant.ErrDuplicateActiveRouting)
}

func TestCreateRouting_InvalidatesCacheAndPublishesReload(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().FindActive(gomock.Any()).Return(nil, constant.ErrNoActiveRouting)

	cfg := &mmodel.RoutingConfiguration{UUID: "r-1", Active: true}
	repo.EXPECT().Create(gomock.Any(), cfg).Return(cfg, nil)

	cache := mockcommand.NewMockCacheInvalidator(ctrl)
	cache.EXPECT().DeleteSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	reload := mockcommand.NewMockReloadPublisher(ctrl)
	reload.EXPECT().Publish(gomock.Any(), gomock.AssignableToTypeOf(mmodel.ReloadEvent{})).
		DoAndReturn(func(_ context.Context, event mmodel.ReloadEvent) error {
			assert.Equal(t, mmodel.ReloadKindRouting, event.Kind)
			return nil
		})

	uc := &UseCase{RoutingRepo: repo, Cache: cache, Reload: reload}

	created, err := uc.CreateRouting(context.Background(), cfg)
	require.NoError(t, err)
	assert.Same(t, cfg, created)
}

func TestCreateRouting_ReloadPublishFailureIsSurfacedButMutationKept(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().FindActive(gomock.Any()).Return(nil, constant.ErrNoActiveRouting)

	cfg := &mmodel.RoutingConfiguration{UUID: "r-1"}
	repo.EXPECT().Create(gomock.Any(), cfg).Return(cfg, nil)

	cache := mockcommand.NewMockCacheInvalidator(ctrl)
	cache.EXPECT().DeleteSnapshot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	reload := mockcommand.NewMockReloadPublisher(ctrl)
	reload.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	uc := &UseCase{RoutingRepo: repo, Cache: cache, Reload: reload}

	created, err := uc.CreateRouting(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, constant.ErrReloadPublishFailed)
	assert.NotNil(t, created, "the persisted mutation is still returned even though the reload broadcast failed")
}

func TestCreateRouting_CacheInvalidationFailureIsSurfacedButMutationKept(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().FindActive(gomock.Any()).Return(nil, constant.ErrNoActiveRouting)

	cfg := &mmodel.RoutingConfiguration{UUID: "r-1"}
	repo.EXPECT().Create(gomock.Any(), cfg).Return(cfg, nil)

	cache := mockcommand.NewMockCacheInvalidator(ctrl)
	cache.EXPECT().DeleteSnapshot(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).AnyTimes()

	reload := mockcommand.NewMockReloadPublisher(ctrl)
	reload.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	uc := &UseCase{RoutingRepo: repo, Cache: cache, Reload: reload}

	created, err := uc.CreateRouting(context.Background(), cfg)
	require.Error(t, err, "cache invalidation is required for the mutation to be reported successful")
	assert.ErrorIs(t, err, constant.ErrReloadPublishFailed)
	assert.NotNil(t, created, "the persisted mutation is still returned even though cache invalidation failed")
}

func TestDeleteRouting_PublishesRoutingReloadEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().Delete(gomock.Any(), "r-1").Return(nil)

	cache := mockcommand.NewMockCacheInvalidator(ctrl)
	cache.EXPECT().DeleteSnapshot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	reload := mockcommand.NewMockReloadPublisher(ctrl)
	reload.EXPECT().Publish(gomock.Any(), gomock.AssignableToTypeOf(mmodel.ReloadEvent{})).
		DoAndReturn(func(_ context.Context, event mmodel.ReloadEvent) error {
			assert.Equal(t, mmodel.ReloadKindRouting, event.Kind)
			return nil
		})

	uc := &UseCase{RoutingRepo: repo, Cache: cache, Reload: reload}

	require.NoError(t, uc.DeleteRouting(context.Background(), "r-1"))
}
