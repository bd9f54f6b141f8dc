package services

import (
	"context"
	"fmt"
	"time"

	"github.com/getmentor/contentbridge/config"
	"github.com/getmentor/contentbridge/internal/cache"
	"github.com/getmentor/contentbridge/internal/models"
	"github.com/getmentor/contentbridge/internal/revalidation"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	"github.com/getmentor/contentbridge/pkg/platform"
	"github.com/getmentor/contentbridge/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	revalidateSuccessMessage = "Revalidation triggered successfully"
	revalidatePartialMessage = "Revalidation triggered with failures"
)

// RevalidationService fans a content change out to on-demand revalidation
// of the paths and tags mapped to its collection.
type RevalidationService struct {
	revalidator platform.Revalidator
	cache       *cache.ContentCache
	concurrency int
}

func NewRevalidationService(revalidator platform.Revalidator, contentCache *cache.ContentCache, cfg *config.Config) *RevalidationService {
	concurrency := cfg.Webhooks.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &RevalidationService{
		revalidator: revalidator,
		cache:       contentCache,
		concurrency: concurrency,
	}
}

// Dispatch revalidates every target of event. Individual failures are
// reported in the response; they never abort the remaining calls.
func (s *RevalidationService) Dispatch(ctx context.Context, event *models.WebhookEvent) (*models.RevalidateResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "revalidation.dispatch",
		attribute.String("cms.collection", event.Collection),
		attribute.String("cms.action", event.Action))
	defer span.End()

	fields := eventFields(event)
	logger.InfoContext(ctx, "Revalidation webhook received", fields...)

	resolved, ok := revalidation.Resolve(event.Collection, event.Key, event.Data)
	if !ok {
		metrics.WebhookEvents.WithLabelValues("revalidate", event.Collection, "skipped").Inc()
		logger.InfoContext(ctx, "No revalidation configured for collection", fields...)
		return &models.RevalidateResponse{
			Success:          true,
			Message:          fmt.Sprintf("No revalidation configured for collection: %s", event.Collection),
			Collection:       event.Collection,
			Action:           event.Action,
			Key:              event.Key,
			RevalidatedPaths: []string{},
			RevalidatedTags:  []string{},
			Timestamp:        time.Now().UTC(),
		}, nil
	}

	if event.Action == models.ActionDelete {
		logger.InfoContext(ctx, fmt.Sprintf("[DELETE] %s:%s - Consider full rebuild", event.Collection, event.Key), fields...)
	}

	if s.cache != nil {
		tags := append(revalidation.BaseTags(event.Collection), CollectionTag(event.Collection))
		s.cache.InvalidateTags(tags...)
	}

	pathErrs := make([]error, len(resolved.Paths))
	tagErrs := make([]error, len(resolved.Tags))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, path := range resolved.Paths {
		g.Go(func() error {
			pathErrs[i] = s.revalidator.RevalidatePath(ctx, path)
			return nil
		})
	}
	for i, tag := range resolved.Tags {
		g.Go(func() error {
			tagErrs[i] = s.revalidator.RevalidateTag(ctx, tag)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines record their own errors

	if err := ctx.Err(); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("revalidation of %s interrupted: %w", event.Collection, err)
	}

	resp := &models.RevalidateResponse{
		Success:          true,
		Message:          revalidateSuccessMessage,
		Collection:       event.Collection,
		Action:           event.Action,
		Key:              event.Key,
		RevalidatedPaths: []string{},
		RevalidatedTags:  []string{},
		Timestamp:        time.Now().UTC(),
	}
	resp.RevalidatedPaths, resp.FailedPaths = partition(ctx, "path", resolved.Paths, pathErrs, fields)
	resp.RevalidatedTags, resp.FailedTags = partition(ctx, "tag", resolved.Tags, tagErrs, fields)

	outcome := "revalidated"
	if len(resp.FailedPaths) > 0 || len(resp.FailedTags) > 0 {
		outcome = "partial"
		resp.Message = revalidatePartialMessage
	}
	metrics.WebhookEvents.WithLabelValues("revalidate", event.Collection, outcome).Inc()

	logger.InfoContext(ctx, "Revalidation dispatched", append(fields,
		zap.Strings("paths", resp.RevalidatedPaths),
		zap.Strings("tags", resp.RevalidatedTags),
		zap.Int("failed", len(resp.FailedPaths)+len(resp.FailedTags)))...)

	return resp, nil
}

// partition splits targets into succeeded and failed, keeping table order
func partition(ctx context.Context, kind string, targets []string, errs []error, fields []zap.Field) (ok, failed []string) {
	ok = []string{}
	for i, target := range targets {
		if errs[i] != nil {
			failed = append(failed, target)
			logger.WarnContext(ctx, "Failed to revalidate "+kind, append(fields,
				zap.String(kind, target),
				zap.Error(errs[i]))...)
			continue
		}
		ok = append(ok, target)
	}
	return ok, failed
}

func eventFields(event *models.WebhookEvent) []zap.Field {
	return []zap.Field{
		zap.String("collection", event.Collection),
		zap.String("action", event.Action),
		zap.String("key", event.Key),
	}
}
