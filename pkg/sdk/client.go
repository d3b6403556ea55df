package truthguard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultTimeout = 30 * time.Second

type clientConfig struct {
	token      string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// Option configures the client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(cfg *clientConfig) { f(cfg) }

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return optionFunc(func(cfg *clientConfig) { cfg.token = token })
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(cfg *clientConfig) { cfg.httpClient = hc })
}

// WithTimeout sets the per-request timeout. Ignored when
// WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(cfg *clientConfig) { cfg.timeout = d })
}

// WithLogger enables structured logging of SDK operations.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(cfg *clientConfig) { cfg.logger = l })
}

// WithMetrics registers SDK operation metrics on the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(cfg *clientConfig) { cfg.metricsReg = reg })
}

// Client is the TruthGuard SDK entry point.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	obs     *observer
}

// New creates a TruthGuard API client for the given base URL,
// e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("truthguard: base URL required")
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   cfg.token,
		httpc:   hc,
		obs:     obs,
	}, nil
}

// Claims returns the claim submission and retrieval service.
func (c *Client) Claims() *ClaimService {
	return &ClaimService{c: c}
}

// Knowledge returns the knowledge base service.
func (c *Client) Knowledge() *KnowledgeService {
	return &KnowledgeService{c: c}
}

// doJSON performs a request with an optional JSON body and decodes
// the response into out when it is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("truthguard: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("truthguard: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// send executes a prepared request, maps error responses to sentinel
// errors, and decodes a success body into out.
func (c *Client) send(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("truthguard: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("truthguard: decode response: %w", err)
		}
	}
	return nil
}
