package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/getmentor/contentbridge/pkg/httpclient"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	"go.uber.org/zap"
)

// Notifier announces site events to humans
type Notifier interface {
	Enabled() bool
	NotifyRebuild(ctx context.Context, event RebuildEvent) error
}

// RebuildEvent describes a triggered rebuild
type RebuildEvent struct {
	Collection string
	Action     string
	Key        string
	BuildID    string
}

// Message is a Slack incoming-webhook payload
type Message struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	Color  string  `json:"color,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// SlackNotifier posts messages to a Slack incoming webhook.
// With an empty URL it is disabled and every call is a no-op.
type SlackNotifier struct {
	webhookURL string
	httpClient httpclient.Client
}

func NewSlackNotifier(webhookURL string, httpClient httpclient.Client) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL, httpClient: httpClient}
}

func (n *SlackNotifier) Enabled() bool {
	return n.webhookURL != ""
}

// NotifyRebuild posts the rebuild summary. Errors are returned so the caller
// decides whether they matter; the rebuild flow only logs them.
func (n *SlackNotifier) NotifyRebuild(ctx context.Context, event RebuildEvent) error {
	if !n.Enabled() {
		return nil
	}
	err := n.send(ctx, RebuildMessage(event))
	metrics.Notifications.WithLabelValues(metrics.StatusLabel(err)).Inc()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Slack rebuild notification sent",
		zap.String("collection", event.Collection),
		zap.String("build_id", event.BuildID))
	return nil
}

// RebuildMessage formats the Slack message for a rebuild
func RebuildMessage(event RebuildEvent) Message {
	key := event.Key
	if key == "" {
		key = "N/A"
	}
	buildID := event.BuildID
	if buildID == "" {
		buildID = "N/A"
	}

	return Message{
		Text: fmt.Sprintf("🚀 Site rebuild triggered by %s %s", event.Collection, event.Action),
		Attachments: []Attachment{{
			Color: "good",
			Fields: []Field{
				{Title: "Collection", Value: event.Collection, Short: true},
				{Title: "Action", Value: event.Action, Short: true},
				{Title: "Key", Value: key, Short: true},
				{Title: "Build ID", Value: buildID, Short: true},
			},
		}},
	}
}

func (n *SlackNotifier) send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewRemoteError("slack", resp.StatusCode, "")
	}
	return nil
}
