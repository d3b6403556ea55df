package truthguard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ClaimService submits claims and retrieves their processing results.
type ClaimService struct {
	c *Client
}

// Submit sends a file-less claim for verification.
func (s *ClaimService) Submit(ctx context.Context, req SubmitClaimRequest) (res SubmitResult, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("claims.submit", start, err) }()

	err = s.c.doJSON(ctx, http.MethodPost, "/api/claims", req, &res)
	return res, err
}

// SubmitFile sends a claim with an attached media file. The file is
// streamed as multipart form data; content may be empty when the file
// itself is the claim.
func (s *ClaimService) SubmitFile(
	ctx context.Context, req SubmitClaimRequest, filename string, file io.Reader,
) (res SubmitResult, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("claims.submit_file", start, err) }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"content":      req.Content,
		"content_type": req.ContentType,
		"original_url": req.OriginalURL,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err = mw.WriteField(name, value); err != nil {
			return res, fmt.Errorf("truthguard: write form field: %w", err)
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return res, fmt.Errorf("truthguard: create form file: %w", err)
	}
	if _, err = io.Copy(part, file); err != nil {
		return res, fmt.Errorf("truthguard: copy file: %w", err)
	}
	if err = mw.Close(); err != nil {
		return res, fmt.Errorf("truthguard: finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.c.baseURL+"/api/claims", &buf)
	if err != nil {
		return res, fmt.Errorf("truthguard: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	err = s.c.send(httpReq, &res)
	return res, err
}

// Get fetches a claim with its analysis, when processing has finished.
func (s *ClaimService) Get(ctx context.Context, id string) (detail ClaimDetail, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("claims.get", start, err) }()

	err = s.c.doJSON(ctx, http.MethodGet, "/api/claims/"+url.PathEscape(id), nil, &detail)
	return detail, err
}

// Status returns only the processing status of a claim. Cheaper than
// Get when polling.
func (s *ClaimService) Status(ctx context.Context, id string) (status string, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("claims.status", start, err) }()

	var out struct {
		Status string `json:"status"`
	}
	err = s.c.doJSON(ctx, http.MethodGet, "/api/claims/"+url.PathEscape(id)+"/status", nil, &out)
	return out.Status, err
}

// Resubmit re-queues a pending claim that missed the processing queue.
func (s *ClaimService) Resubmit(ctx context.Context, id string) (queued bool, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("claims.resubmit", start, err) }()

	var out struct {
		Queued bool `json:"queued"`
	}
	err = s.c.doJSON(ctx, http.MethodPost, "/api/claims/"+url.PathEscape(id)+"/resubmit", nil, &out)
	return out.Queued, err
}

// List returns a page of claims, newest first.
func (s *ClaimService) List(ctx context.Context, opts ListClaimsOptions) (page ClaimPage, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("claims.list", start, err) }()

	q := url.Values{}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.UserID != "" {
		q.Set("user_id", opts.UserID)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	path := "/api/claims"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	err = s.c.doJSON(ctx, http.MethodGet, path, nil, &page)
	return page, err
}

// Stats returns aggregate platform statistics.
func (s *ClaimService) Stats(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("claims.stats", start, err) }()

	err = s.c.doJSON(ctx, http.MethodGet, "/api/stats", nil, &stats)
	return stats, err
}
