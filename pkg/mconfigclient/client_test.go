package mconfigclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	libCircuitBreaker "github.com/LerianStudio/lib-commons/v2/commons/circuitbreaker"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	logger := libZap.InitializeLogger()
	return New(baseURL, time.Second, libCircuitBreaker.NewManager(logger), logger)
}

func TestGetRule_NotFoundReturnsConfigurationNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.GetRule(context.Background(), "rule-901", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, constant.ErrConfigurationNotFound, "a 404 must be distinguishable from a transient failure so callers can poison rather than nack")
}

func TestGetRule_ServerErrorIsNotConfigurationNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.GetRule(context.Background(), "rule-901", "1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, constant.ErrConfigurationNotFound), "a 5xx must stay transient, not be mistaken for a genuine not-found")
}

func TestGetActiveRouting_DecodesSuccessfulBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"uuid":"routing-1","active":true}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	cfg, err := client.GetActiveRouting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mmodel.RoutingConfiguration{UUID: "routing-1", Active: true}, cfg)
}
