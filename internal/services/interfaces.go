package services

import (
	"context"

	"github.com/getmentor/contentbridge/internal/models"
	"github.com/getmentor/contentbridge/pkg/directus"
	"github.com/getmentor/contentbridge/pkg/platform"
)

// ContentSource is the subset of the Directus client the services read through
type ContentSource interface {
	BaseURL() string
	FetchCollection(ctx context.Context, collection string, q directus.Query) ([]directus.Item, error)
	FetchItem(ctx context.Context, collection, id string, q directus.Query) (directus.Item, error)
	StaticPaths(ctx context.Context, collection, field string) (*directus.StaticPaths, error)
}

// BuildTrigger starts a full site build
type BuildTrigger interface {
	Trigger(ctx context.Context, req platform.BuildRequest) (*platform.BuildResult, error)
}

// ContentServiceInterface defines the interface for content read operations
type ContentServiceInterface interface {
	ListItems(ctx context.Context, collection string, q directus.Query) ([]directus.Item, error)
	GetItem(ctx context.Context, collection, id string, q directus.Query) (directus.Item, error)
	StaticPaths(ctx context.Context, collection, field string) (*directus.StaticPaths, error)
	AssetURL(assetID string, t directus.Transform) string
	ResponsiveImages(assetID string, widths []int) *directus.ResponsiveImage
	ImageProps(assetID string, t directus.Transform, alt string) *directus.Image
	BlurDataURL(assetID string) string
}

// RevalidationServiceInterface defines the interface for on-demand revalidation
type RevalidationServiceInterface interface {
	Dispatch(ctx context.Context, event *models.WebhookEvent) (*models.RevalidateResponse, error)
}

// RebuildServiceInterface defines the interface for full site rebuilds
type RebuildServiceInterface interface {
	Trigger(ctx context.Context, event *models.WebhookEvent) (*models.RebuildResponse, error)
	TriggerManual(ctx context.Context, title string) (*models.RebuildResponse, error)
}
