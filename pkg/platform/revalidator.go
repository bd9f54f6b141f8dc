package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/getmentor/contentbridge/pkg/httpclient"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	"go.uber.org/zap"
)

// Revalidator invalidates cached pages on the hosting platform
type Revalidator interface {
	RevalidatePath(ctx context.Context, path string) error
	RevalidateTag(ctx context.Context, tag string) error
}

// NextJSRevalidator calls the site's on-demand ISR route. The route's secret
// is attached by the HTTP client (see NewNextJSHTTPClient) so it never appears
// in request URLs seen by tracing or in returned errors.
type NextJSRevalidator struct {
	baseURL    string
	httpClient httpclient.Client
}

// NewNextJSHTTPClient creates the client the revalidator should use against a
// site whose revalidate route expects ?secret=
func NewNextJSHTTPClient(secret string, timeout time.Duration) httpclient.Client {
	return httpclient.NewNamedClient("nextjs", timeout, httpclient.WithSecretQueryParam("secret", secret))
}

// NewNextJSRevalidator creates a revalidator for the Next.js site at baseURL
func NewNextJSRevalidator(baseURL string, httpClient httpclient.Client) *NextJSRevalidator {
	return &NextJSRevalidator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// RevalidatePath regenerates a single route, e.g. "/blog/my-post"
func (r *NextJSRevalidator) RevalidatePath(ctx context.Context, path string) error {
	return r.revalidate(ctx, "path", path)
}

// RevalidateTag invalidates every fetch tagged with tag
func (r *NextJSRevalidator) RevalidateTag(ctx context.Context, tag string) error {
	return r.revalidate(ctx, "tag", tag)
}

func (r *NextJSRevalidator) revalidate(ctx context.Context, kind, value string) error {
	start := time.Now()
	err := r.call(ctx, kind, value)

	metrics.RevalidationDuration.WithLabelValues(kind).Observe(metrics.MeasureDuration(start))
	metrics.Revalidations.WithLabelValues(kind, metrics.StatusLabel(err)).Inc()

	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Next.js revalidation triggered", zap.String(kind, value))
	return nil
}

func (r *NextJSRevalidator) call(ctx context.Context, kind, value string) error {
	query := url.Values{}
	query.Set(kind, value)
	target := fmt.Sprintf("%s/api/revalidate?%s", r.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create Next.js revalidate request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Next.js revalidate: %w", withoutQuery(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewRemoteError("nextjs", resp.StatusCode, "")
	}
	return nil
}

// withoutQuery strips the query string from the URL carried by a transport
// error. Revalidate URLs may carry credentials.
func withoutQuery(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		return &url.Error{Op: urlErr.Op, URL: "[redacted]", Err: urlErr.Err}
	}
	u.RawQuery = ""
	return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
}
