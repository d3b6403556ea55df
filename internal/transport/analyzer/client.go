// Package analyzer is the HTTP client for the external claim analysis
// service.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/truthguard/truthguard/internal/domain"
)

// request is the analyze call wire payload.
type request struct {
	ClaimID     string `json:"claim_id"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	FileURL     string `json:"file_url,omitempty"`
}

// response is the analyzer's wire result payload.
type response struct {
	Verdict         string                `json:"verdict"`
	ConfidenceScore float64               `json:"confidence_score"`
	Summary         string                `json:"summary"`
	Evidence        []domain.EvidenceItem `json:"evidence"`
	Sources         []map[string]any      `json:"sources"`
	Reasoning       string                `json:"reasoning"`
}

// Client calls the external analysis service. Analysis can take minutes
// on long videos, so the timeout is generous.
type Client struct {
	url    string
	client *http.Client
}

// New creates an analyzer client for the given analyze endpoint URL.
func New(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Analyze submits a claim for analysis and validates the response.
// Every failure mode, including a malformed or out-of-range response,
// wraps domain.ErrAnalyzerUnavailable.
func (c *Client) Analyze(ctx context.Context, req *domain.AnalyzerRequest) (domain.AnalyzerResult, error) {
	body, err := json.Marshal(request{
		ClaimID:     req.ClaimID,
		Content:     req.Content,
		ContentType: string(req.ContentType),
		FileURL:     req.FileURL,
	})
	if err != nil {
		return domain.AnalyzerResult{}, fmt.Errorf("marshal analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.AnalyzerResult{}, fmt.Errorf("build analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return domain.AnalyzerResult{}, fmt.Errorf("call analyzer: %w: %w", domain.ErrAnalyzerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.AnalyzerResult{}, fmt.Errorf("analyzer returned status %d: %s: %w",
			resp.StatusCode, string(snippet), domain.ErrAnalyzerUnavailable)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.AnalyzerResult{}, fmt.Errorf("decode analyzer response: %w: %w", domain.ErrAnalyzerUnavailable, err)
	}

	verdict, err := domain.ParseVerdict(parsed.Verdict)
	if err != nil {
		return domain.AnalyzerResult{}, fmt.Errorf("invalid analyzer response: %w: %w", domain.ErrAnalyzerUnavailable, err)
	}
	if parsed.ConfidenceScore < 0 || parsed.ConfidenceScore > 1 {
		return domain.AnalyzerResult{}, fmt.Errorf("invalid analyzer response: confidence score %g out of [0,1]: %w",
			parsed.ConfidenceScore, domain.ErrAnalyzerUnavailable)
	}

	return domain.AnalyzerResult{
		Verdict:         verdict,
		ConfidenceScore: parsed.ConfidenceScore,
		Summary:         parsed.Summary,
		Evidence:        parsed.Evidence,
		Sources:         parsed.Sources,
		Reasoning:       parsed.Reasoning,
	}, nil
}
