package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/getmentor/contentbridge/pkg/httpclient"
)

// BuildRequest is the body sent to a Netlify build hook
type BuildRequest struct {
	Title      string `json:"trigger_title"`
	Branch     string `json:"trigger_branch,omitempty"`
	ClearCache bool   `json:"clear_cache"`
}

// BuildResult is what the hook answers with. Some hooks reply with an empty body.
type BuildResult struct {
	ID string `json:"id"`
}

// BuildHook triggers full site rebuilds
type BuildHook struct {
	url        string
	httpClient httpclient.Client
}

// NewBuildHook creates a build hook client. An empty url is accepted here and
// reported as a configuration error on Trigger.
func NewBuildHook(url string, httpClient httpclient.Client) *BuildHook {
	return &BuildHook{url: url, httpClient: httpClient}
}

// Configured reports whether a hook URL is set
func (h *BuildHook) Configured() bool {
	return h.url != ""
}

// Trigger posts req to the hook
func (h *BuildHook) Trigger(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	if h.url == "" {
		return nil, apperrors.ConfigError("NETLIFY_BUILD_HOOK")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode build request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create build hook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call build hook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewRemoteError("build hook", resp.StatusCode, "")
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("failed to read build hook response: %w", err)
	}

	result := &BuildResult{}
	if strings.TrimSpace(string(raw)) == "" {
		return result, nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, fmt.Errorf("failed to decode build hook response: %w", err)
	}
	return result, nil
}
