// Package outbreak provides the client for the external outbreak analysis service
package outbreak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/abelzeko/health-watch/internal/entities"
)

// Client calls the outbreak analysis service over HTTP. The service consumes
// a JSON array of joined records and returns an aggregate verdict. Callers
// must treat it as unreliable and fall back to the default verdict on error.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates an analysis client with a bounded request timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Analyze submits the joined batch and returns the service's verdict.
func (c *Client) Analyze(ctx context.Context, batch []entities.JoinedRecord) (entities.AnalysisVerdict, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return entities.AnalysisVerdict{}, fmt.Errorf("failed to encode analysis batch: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return entities.AnalysisVerdict{}, fmt.Errorf("failed to create analysis request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("Submitting %d joined records to analysis service", len(batch))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.AnalysisVerdict{}, fmt.Errorf("analysis request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return entities.AnalysisVerdict{}, fmt.Errorf("analysis service returned status %d: %s", resp.StatusCode, body)
	}

	var verdict entities.AnalysisVerdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return entities.AnalysisVerdict{}, fmt.Errorf("failed to decode analysis response: %v", err)
	}

	log.Printf("Analysis verdict: overall_risk=%s high_risk_locations=%d", verdict.OverallRisk, len(verdict.HighRiskLocations))
	return verdict, nil
}
