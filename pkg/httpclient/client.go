package httpclient

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// UserAgent is sent on every outbound request so CMS and platform logs can
// attribute traffic to this service
const UserAgent = "contentbridge/1.0"

// Client defines an interface for making HTTP requests
// This allows for easy mocking and testing of HTTP calls
type Client interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps the standard http.Client
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates a new HTTP client with default settings
func NewStandardClient() Client {
	return NewClientWithTimeout(30 * time.Second)
}

// NewClientWithTimeout creates a traced HTTP client with the given timeout
func NewClientWithTimeout(timeout time.Duration) Client {
	return NewNamedClient("", timeout)
}

// Option configures a client built by NewNamedClient
type Option func(*clientOptions)

type clientOptions struct {
	secretParams url.Values
}

// WithSecretQueryParam adds key=value to every request's query string below
// the tracing layer. Spans, *url.Error values and anything logging them only
// ever see the URL without it.
func WithSecretQueryParam(key, value string) Option {
	return func(o *clientOptions) {
		if value == "" {
			return
		}
		if o.secretParams == nil {
			o.secretParams = url.Values{}
		}
		o.secretParams.Set(key, value)
	}
}

// NewNamedClient creates a traced HTTP client whose outbound spans are named
// after the upstream, e.g. "directus GET". Trace context is propagated to the
// CMS and the hosting platform.
func NewNamedClient(upstream string, timeout time.Duration, options ...Option) Client {
	var o clientOptions
	for _, apply := range options {
		apply(&o)
	}

	otelOpts := []otelhttp.Option{}
	if upstream != "" {
		otelOpts = append(otelOpts, otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return upstream + " " + r.Method
		}))
	}

	return &StandardHTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(userAgentTransport{next: http.DefaultTransport, secretParams: o.secretParams}, otelOpts...),
		},
	}
}

type userAgentTransport struct {
	next         http.RoundTripper
	secretParams url.Values
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" && len(t.secretParams) == 0 {
		return t.next.RoundTrip(req)
	}
	// RoundTrippers must not mutate the caller's request
	clone := req.Clone(req.Context())
	if clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", UserAgent)
	}
	if len(t.secretParams) > 0 {
		query := clone.URL.Query()
		for key, values := range t.secretParams {
			query[key] = values
		}
		clone.URL.RawQuery = query.Encode()
	}
	return t.next.RoundTrip(clone)
}

// Post makes a POST request
func (c *StandardHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	return c.client.Post(url, contentType, body)
}

// Get makes a GET request
func (c *StandardHTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

// Do executes an HTTP request
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
