package in

import (
	"bytes"
	"net/http/httptest"
	"testing"

	mockrouting "github.com/fraudmesh/evalengine/components/config/internal/adapters/postgres/routing"
	mockquery "github.com/fraudmesh/evalengine/components/config/internal/gen/mock/query"
	"github.com/fraudmesh/evalengine/components/config/internal/services/command"
	"github.com/fraudmesh/evalengine/components/config/internal/services/query"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRoutingHandler_Create_MalformedBodyReturns400(t *testing.T) {
	app := fiber.New()
	app.Post("/api/v0/routing", (&RoutingHandler{}).Create)

	req := httptest.NewRequest("POST", "/api/v0/routing", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRoutingHandler_Create_RejectsSecondActiveRoutingWith409(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().FindActive(gomock.Any()).Return(&mmodel.RoutingConfiguration{UUID: "existing"}, nil)

	cmd := &command.UseCase{RoutingRepo: repo}
	handler := &RoutingHandler{Command: cmd}

	app := fiber.New()
	app.Post("/api/v0/routing", handler.Create)

	req := httptest.NewRequest("POST", "/api/v0/routing", bytes.NewBufferString(`{"active":true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRoutingHandler_Update_InvalidUUIDReturns400(t *testing.T) {
	handler := &RoutingHandler{Command: &command.UseCase{}}

	app := fiber.New()
	app.Put("/api/v0/routing/:uuid", handler.Update)

	req := httptest.NewRequest("PUT", "/api/v0/routing/not-a-uuid", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRoutingHandler_GetActive_NoActiveRoutingReturns404(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().FindActive(gomock.Any()).Return(nil, constant.ErrNoActiveRouting)

	cache := mockquery.NewMockSnapshotCache(ctrl)
	cache.EXPECT().GetSnapshot(gomock.Any(), gomock.Any()).Return(nil, false, nil)

	handler := &RoutingHandler{Query: &query.UseCase{RoutingRepo: repo, Cache: cache}}

	app := fiber.New()
	app.Get("/api/v0/routing/active", handler.GetActive)

	req := httptest.NewRequest("GET", "/api/v0/routing/active", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRoutingHandler_Get_ValidUUIDDelegatesToQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	id := uuid.New().String()

	repo := mockrouting.NewMockRepository(ctrl)
	repo.EXPECT().Find(gomock.Any(), id).Return(&mmodel.RoutingConfiguration{UUID: id}, nil)

	cache := mockquery.NewMockSnapshotCache(ctrl)
	cache.EXPECT().GetSnapshot(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	cache.EXPECT().SetSnapshot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	handler := &RoutingHandler{Query: &query.UseCase{RoutingRepo: repo, Cache: cache}}

	app := fiber.New()
	app.Get("/api/v0/routing/:uuid", handler.Get)

	req := httptest.NewRequest("GET", "/api/v0/routing/"+id, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
