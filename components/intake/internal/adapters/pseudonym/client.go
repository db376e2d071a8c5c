// Package pseudonym is Intake's HTTP client for the external pseudonym
// service spec.md §1 treats as a collaborator specified only at this
// interface boundary, grounded on pkg/mconfigclient's circuit-breaker-backed
// HTTP client shape.
package pseudonym

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	libCircuitBreaker "github.com/LerianStudio/lib-commons/v2/commons/circuitbreaker"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

const serviceName = "pseudonym-service-rpc"

// Client registers a transaction's identifiers with the pseudonym service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cbManager  libCircuitBreaker.Manager
	logger     libLog.Logger
}

// New builds a Client pointed at the pseudonym service's base URL, sharing
// the caller's circuit-breaker Manager the same way mconfigclient.New does.
func New(baseURL string, dialTimeout time.Duration, cbManager libCircuitBreaker.Manager, logger libLog.Logger) *Client {
	cbManager.GetOrCreate(serviceName, libCircuitBreaker.Config{
		ConsecutiveFailures: 5,
		FailureRatio:        0.5,
		Interval:            30 * time.Second,
		MaxRequests:         3,
		MinRequests:         5,
		Timeout:             15 * time.Second,
	})

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: dialTimeout},
		cbManager:  cbManager,
		logger:     logger,
	}
}

// CreatePseudonym calls the pseudonym service with req, per spec.md §4.2
// step 3. The call is idempotent at the pseudonym service, so Intake never
// needs to deduplicate retries itself.
func (c *Client) CreatePseudonym(ctx context.Context, req mmodel.CreatePseudonymRequest) (mmodel.CreatePseudonymResponse, error) {
	var out mmodel.CreatePseudonymResponse

	_, err := c.cbManager.Execute(serviceName, func() (any, error) {
		body, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v0/pseudonym", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return nil, fmt.Errorf("pseudonym service: unexpected status %d", resp.StatusCode)
		}

		return nil, json.NewDecoder(resp.Body).Decode(&out)
	})
	if err != nil {
		c.logger.Warnf("pseudonym service call failed: %v", err)
		return mmodel.CreatePseudonymResponse{}, err
	}

	return out, nil
}
