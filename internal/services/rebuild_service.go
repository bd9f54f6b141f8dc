package services

import (
	"context"
	"fmt"
	"time"

	"github.com/getmentor/contentbridge/config"
	"github.com/getmentor/contentbridge/internal/models"
	"github.com/getmentor/contentbridge/internal/revalidation"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	"github.com/getmentor/contentbridge/pkg/notify"
	"github.com/getmentor/contentbridge/pkg/platform"
	"go.uber.org/zap"
)

const (
	rebuildSuccessMessage = "Site rebuild triggered successfully"
	manualBuildTitle      = "Content Update"
)

// RebuildService triggers full static site builds for allow-listed collections
type RebuildService struct {
	hook     BuildTrigger
	notifier notify.Notifier
	branch   string
}

func NewRebuildService(hook BuildTrigger, notifier notify.Notifier, cfg *config.Config) *RebuildService {
	return &RebuildService{
		hook:     hook,
		notifier: notifier,
		branch:   cfg.BuildHook.Branch,
	}
}

// Trigger starts a build when event warrants one. A missing build hook is a
// configuration error; a failed notification is only logged.
func (s *RebuildService) Trigger(ctx context.Context, event *models.WebhookEvent) (*models.RebuildResponse, error) {
	fields := eventFields(event)
	logger.InfoContext(ctx, "Rebuild webhook received", fields...)

	if ok, reason := revalidation.ShouldRebuild(event.Collection, event.Action); !ok {
		metrics.WebhookEvents.WithLabelValues("rebuild", event.Collection, "skipped").Inc()
		logger.InfoContext(ctx, reason, fields...)
		return &models.RebuildResponse{
			Success:    true,
			Message:    reason,
			Collection: event.Collection,
			Action:     event.Action,
			Key:        event.Key,
			Timestamp:  time.Now().UTC(),
		}, nil
	}

	if event.Action == models.ActionDelete {
		logger.InfoContext(ctx, fmt.Sprintf("[DELETE] %s:%s - Consider full rebuild", event.Collection, event.Key), fields...)
	}

	result, err := s.trigger(ctx, platform.BuildRequest{
		Title:      "Content Update: " + event.Collection,
		Branch:     s.branch,
		ClearCache: true,
	})
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("rebuild", event.Collection, "error").Inc()
		logger.ErrorContext(ctx, "Failed to trigger site rebuild", append(fields, zap.Error(err))...)
		return nil, err
	}
	metrics.WebhookEvents.WithLabelValues("rebuild", event.Collection, "triggered").Inc()

	if s.notifier != nil && s.notifier.Enabled() {
		if err := s.notifier.NotifyRebuild(ctx, notify.RebuildEvent{
			Collection: event.Collection,
			Action:     event.Action,
			Key:        event.Key,
			BuildID:    result.ID,
		}); err != nil {
			logger.WarnContext(ctx, "Failed to send rebuild notification", append(fields, zap.Error(err))...)
		}
	}

	return &models.RebuildResponse{
		Success:    true,
		Message:    rebuildSuccessMessage,
		Collection: event.Collection,
		Action:     event.Action,
		Key:        event.Key,
		BuildID:    result.ID,
		Triggered:  true,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// TriggerManual starts a build outside the webhook flow, e.g. from the CLI
func (s *RebuildService) TriggerManual(ctx context.Context, title string) (*models.RebuildResponse, error) {
	if title == "" {
		title = manualBuildTitle
	}

	result, err := s.trigger(ctx, platform.BuildRequest{
		Title:      title,
		Branch:     s.branch,
		ClearCache: true,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to trigger manual rebuild", zap.String("title", title), zap.Error(err))
		return nil, err
	}

	return &models.RebuildResponse{
		Success:   true,
		Message:   rebuildSuccessMessage,
		BuildID:   result.ID,
		Triggered: true,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (s *RebuildService) trigger(ctx context.Context, req platform.BuildRequest) (*platform.BuildResult, error) {
	result, err := s.hook.Trigger(ctx, req)
	metrics.BuildTriggers.WithLabelValues(metrics.StatusLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Site rebuild triggered",
		zap.String("title", req.Title),
		zap.String("build_id", result.ID))
	return result, nil
}
