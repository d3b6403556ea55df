package truthguard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Health fetches the aggregated system health. A degraded or
// unhealthy server still produces a report, not an error.
func (c *Client) Health(ctx context.Context) (hs HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return hs, fmt.Errorf("truthguard: build request: %w", err)
	}

	// The health endpoint answers 503 with the same report body when
	// the database is down, so the status code is not an error here.
	resp, err := c.httpc.Do(req)
	if err != nil {
		return hs, fmt.Errorf("truthguard: GET /health: %w", err)
	}
	defer resp.Body.Close()

	if err = json.NewDecoder(resp.Body).Decode(&hs); err != nil {
		return hs, fmt.Errorf("truthguard: decode health report: %w", err)
	}
	return hs, nil
}
