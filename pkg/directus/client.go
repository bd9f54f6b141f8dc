package directus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getmentor/contentbridge/pkg/circuitbreaker"
	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/getmentor/contentbridge/pkg/httpclient"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	"github.com/getmentor/contentbridge/pkg/retry"
	"github.com/getmentor/contentbridge/pkg/tracing"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	serviceName = "directus"

	// maxErrorBody bounds how much of a failed response is read for the message
	maxErrorBody = 4 << 10
)

// Item is an opaque content record as returned by the CMS
type Item map[string]any

// String returns the field as a string, or "" if it is absent or not a string
func (i Item) String(field string) string {
	if s, ok := i[field].(string); ok {
		return s
	}
	return ""
}

// Config configures a content API client
type Config struct {
	BaseURL      string
	Token        string
	DefaultLimit int
	MaxRetries   int
}

// Client talks to the Directus REST API with retry and circuit breaker protection
type Client struct {
	baseURL        string
	token          string
	defaultLimit   int
	httpClient     httpclient.Client
	retryConfig    retry.Config
	circuitBreaker *gobreaker.CircuitBreaker
}

// NewClient creates a new content API client
func NewClient(cfg Config, httpClient httpclient.Client) *Client {
	if cfg.DefaultLimit == 0 {
		cfg.DefaultLimit = 100
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.Token,
		defaultLimit:   cfg.DefaultLimit,
		httpClient:     httpClient,
		retryConfig:    retry.ContentAPIConfig(cfg.MaxRetries),
		circuitBreaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig(serviceName)),
	}
}

// BaseURL returns the CMS base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BreakerState reports the circuit breaker state: "closed", "half-open" or "open"
func (c *Client) BreakerState() string {
	return circuitbreaker.GetState(c.circuitBreaker)
}

// FetchCollection lists items of a collection with the collection defaults applied
func (c *Client) FetchCollection(ctx context.Context, collection string, q Query) ([]Item, error) {
	q = ApplyDefaults(collection, q, c.defaultLimit)

	data, err := c.get(ctx, "fetchCollection", collection, "/items/"+url.PathEscape(collection), q)
	if err != nil {
		return nil, err
	}

	items := []Item{}
	if isNull(data) {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s items: %w", collection, err)
	}
	return items, nil
}

// FetchItem reads a single item by primary key. A null payload yields a nil item.
// Only the caller's parameters are sent; list defaults do not apply to single reads.
func (c *Client) FetchItem(ctx context.Context, collection, id string, q Query) (Item, error) {
	if id == "" {
		return nil, apperrors.InvalidInputError("id", "must not be empty")
	}

	endpoint := "/items/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
	data, err := c.get(ctx, "fetchItem", collection, endpoint, q)
	if err != nil {
		return nil, err
	}

	if isNull(data) {
		return nil, nil
	}
	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to decode %s item: %w", collection, err)
	}
	return item, nil
}

// FindOne returns the first item matching filter, or nil when nothing matches
func (c *Client) FindOne(ctx context.Context, collection string, filter Filter) (Item, error) {
	items, err := c.FetchCollection(ctx, collection, Query{Filter: filter, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// StaticPaths lists the values of field across published items, shaped for
// static route generation. Unknown routes render on demand ("blocking").
func (c *Client) StaticPaths(ctx context.Context, collection, field string) (*StaticPaths, error) {
	if field == "" {
		field = "slug"
	}

	items, err := c.FetchCollection(ctx, collection, Query{Fields: []string{field}})
	if err != nil {
		return nil, err
	}

	paths := make([]StaticPath, 0, len(items))
	for _, item := range items {
		value := item.String(field)
		if value == "" {
			continue
		}
		paths = append(paths, StaticPath{Params: map[string]string{field: value}})
	}

	return &StaticPaths{Paths: paths, Fallback: FallbackBlocking}, nil
}

// get performs a GET through the breaker and retry loop and returns the raw "data" member
func (c *Client) get(ctx context.Context, operation, collection, endpoint string, q Query) (json.RawMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "directus."+operation,
		attribute.String("directus.collection", collection))
	defer span.End()

	values, err := q.Values()
	if err != nil {
		return nil, apperrors.InvalidInputError("query", err.Error())
	}
	target := c.baseURL + endpoint
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}

	start := time.Now()
	data, err := circuitbreaker.ExecuteContext(ctx, c.circuitBreaker, func() (json.RawMessage, error) {
		return retry.DoWithResult(ctx, c.retryConfig, operation, func() (json.RawMessage, error) {
			return c.do(ctx, target)
		})
	})
	duration := metrics.MeasureDuration(start)
	status := metrics.StatusLabel(err)

	metrics.ContentAPIRequestDuration.WithLabelValues(operation, collection, status).Observe(duration)
	metrics.ContentAPIRequestTotal.WithLabelValues(operation, collection, status).Inc()

	if err != nil {
		tracing.RecordError(span, err)
		logger.LogAPICall(ctx, serviceName, operation, status, duration,
			zap.String("collection", collection),
			zap.String("url", target),
			zap.Error(err))
		return nil, err
	}

	logger.LogAPICall(ctx, serviceName, operation, status, duration,
		zap.String("collection", collection))
	return data, nil
}

func (c *Client) do(ctx context.Context, target string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create content API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call content API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewRemoteError(serviceName, resp.StatusCode, errorMessage(resp))
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode content API response: %w", err)
	}
	return envelope.Data, nil
}

// errorMessage extracts the first Directus error message, falling back to the status text
func errorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var payload struct {
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
		}
		if json.Unmarshal(body, &payload) == nil && len(payload.Errors) > 0 && payload.Errors[0].Message != "" {
			return payload.Errors[0].Message
		}
	}
	return http.StatusText(resp.StatusCode)
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
