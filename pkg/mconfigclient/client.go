// Package mconfigclient is the RPC fallback every stage's mcache.Resolver
// falls through to on a full cache miss: a small HTTP client against the
// Config plane's read surface (GetActiveRouting, GetRule, GetTypology),
// wrapped in a circuit breaker the same way the teacher wraps its RabbitMQ
// producer (components/transaction/internal/adapters/rabbitmq, the
// producer.circuitbreaker_test.go decorator), so a degraded Config plane
// fails fast instead of stalling every pipeline stage behind a dial timeout.
package mconfigclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	libCircuitBreaker "github.com/LerianStudio/lib-commons/v2/commons/circuitbreaker"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// serviceName is the breaker key registered with the shared Manager, mirrors
// the teacher's CircuitBreakerServiceName constant per adapter.
const serviceName = "config-plane-rpc"

// CircuitConfig mirrors the teacher's CircuitBreakerConfig shape
// (producer.circuitbreaker_test.go), converted to libCircuitBreaker's
// registration config by breakerConfig below.
type CircuitConfig struct {
	ConsecutiveFailures uint32
	FailureRatio        float64
	Interval            time.Duration
	MaxRequests         uint32
	MinRequests         uint32
	Timeout             time.Duration
}

func breakerConfig(c CircuitConfig) libCircuitBreaker.Config {
	return libCircuitBreaker.Config{
		ConsecutiveFailures: c.ConsecutiveFailures,
		FailureRatio:        c.FailureRatio,
		Interval:            c.Interval,
		MaxRequests:         c.MaxRequests,
		MinRequests:         c.MinRequests,
		Timeout:             c.Timeout,
	}
}

// DefaultCircuitConfig matches spec.md §5's "fail fast rather than stall a
// pipeline stage behind a slow Config plane" RPC policy.
func DefaultCircuitConfig() CircuitConfig {
	return CircuitConfig{
		ConsecutiveFailures: 5,
		FailureRatio:        0.5,
		Interval:            30 * time.Second,
		MaxRequests:         3,
		MinRequests:         5,
		Timeout:             15 * time.Second,
	}
}

// Client is the Config plane RPC client shared by Router, Rule-Executor and
// Typologies as their mcache.Fetcher[T] implementation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cbManager  libCircuitBreaker.Manager
	logger     libLog.Logger
}

// New builds a Client pointed at the Config plane's base URL (e.g.
// http://config:8080), registering its breaker with cbManager under a fixed
// service name so every stage process shares one breaker instance per
// dependency, per the teacher's NewCircuitBreakerManager convention.
func New(baseURL string, dialTimeout time.Duration, cbManager libCircuitBreaker.Manager, logger libLog.Logger) *Client {
	cbManager.GetOrCreate(serviceName, breakerConfig(DefaultCircuitConfig()))

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: dialTimeout},
		cbManager:  cbManager,
		logger:     logger,
	}
}

// call executes a GET against path through the circuit breaker, decoding a
// 200 JSON body into out. A 404 is translated into
// constant.ErrConfigurationNotFound so callers can poison the message that
// triggered it; every other non-2xx response (and a dial failure or an
// open breaker) stays an untyped error so callers treat it as transient and
// nack for redelivery instead, per spec.md §7's poison/transient split.
func (c *Client) call(ctx context.Context, path string, out any) error {
	_, err := c.cbManager.Execute(serviceName, func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("config plane rpc %s: %w", path, constant.ErrConfigurationNotFound)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("config plane rpc %s: unexpected status %d", path, resp.StatusCode)
		}

		return nil, json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		c.logger.Warnf("config plane rpc %s failed: %v", path, err)
		return err
	}

	return nil
}

// GetActiveRouting fetches the single currently-active RoutingConfiguration,
// the Router's fallback per spec.md §4.3 step 2.
func (c *Client) GetActiveRouting(ctx context.Context) (mmodel.RoutingConfiguration, error) {
	var out mmodel.RoutingConfiguration

	err := c.call(ctx, "/api/v0/routing/active", &out)

	return out, err
}

// GetRule fetches a specific Rule by (id, version), the Rule-Executor's
// fallback per spec.md §4.4 step 2.
func (c *Client) GetRule(ctx context.Context, id, version string) (mmodel.RuleConfiguration, error) {
	var out mmodel.RuleConfiguration

	err := c.call(ctx, fmt.Sprintf("/api/v0/rule/%s/%s", id, version), &out)

	return out, err
}

// GetTypology fetches a specific Typology by (id, version), the Typologies
// stage's fallback per spec.md §4.5 step 4a.
func (c *Client) GetTypology(ctx context.Context, id, version string) (mmodel.TypologyConfiguration, error) {
	var out mmodel.TypologyConfiguration

	err := c.call(ctx, fmt.Sprintf("/api/v0/typology/%s/%s", id, version), &out)

	return out, err
}
