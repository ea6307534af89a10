// Package elasticsearch is the search backend client.
package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/metrics"
)

// Client sends search and index requests to one index of an Elasticsearch-compatible backend.
type Client struct {
	es     *es.Client
	index  string
	logger *zap.Logger
}

// Config holds the backend settings.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	Index     string
	Transport http.RoundTripper
	Logger    *zap.Logger
}

// NewClient creates a backend client.
func NewClient(cfg *Config) (*Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("elasticsearch addrs are required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("elasticsearch index is required")
	}
	client, err := es.NewClient(es.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{es: client, index: cfg.Index, logger: logger}, nil
}

// Search runs body against the index and returns the raw response.
func (c *Client) Search(ctx context.Context, body []byte) ([]byte, error) {
	start := time.Now()
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	return c.finish("search", start, res, err)
}

// Index writes a document under id.
func (c *Client) Index(ctx context.Context, id string, body []byte) error {
	start := time.Now()
	res, err := c.es.Index(
		c.index,
		bytes.NewReader(body),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(id),
	)
	_, err = c.finish("index", start, res, err)
	return err
}

// HealthCheck pings the backend.
func (c *Client) HealthCheck(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return domain.NewBackendError(res.StatusCode, "")
	}
	return nil
}

func (c *Client) finish(op string, start time.Time, res *esapi.Response, err error) ([]byte, error) {
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("%s request: %w: %w", op, domain.ErrBackend, err)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	metrics.SearchRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("read %s response: %w: %w", op, domain.ErrBackend, err)
	}

	if res.IsError() {
		metrics.SearchRequestsTotal.WithLabelValues(op, "error").Inc()
		reason := errorReason(data)
		c.logger.Warn("search backend error",
			zap.String("op", op),
			zap.Int("status", res.StatusCode),
			zap.String("reason", reason),
		)
		return nil, domain.NewBackendError(res.StatusCode, reason)
	}

	metrics.SearchRequestsTotal.WithLabelValues(op, "success").Inc()
	return data, nil
}

// errorReason extracts the most specific reason of an Elasticsearch error body.
func errorReason(body []byte) string {
	for _, path := range []string{"error.root_cause.0.reason", "error.reason", "error"} {
		if r := gjson.GetBytes(body, path); r.Exists() && r.Type == gjson.String {
			return r.String()
		}
	}
	return ""
}
