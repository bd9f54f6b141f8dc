package handlers

import (
	"context"

	"github.com/getmentor/contentbridge/internal/models"
	"github.com/getmentor/contentbridge/pkg/directus"
	"github.com/stretchr/testify/mock"
)

type mockRevalidationService struct {
	mock.Mock
}

func (m *mockRevalidationService) Dispatch(ctx context.Context, event *models.WebhookEvent) (*models.RevalidateResponse, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RevalidateResponse), args.Error(1)
}

type mockRebuildService struct {
	mock.Mock
}

func (m *mockRebuildService) Trigger(ctx context.Context, event *models.WebhookEvent) (*models.RebuildResponse, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RebuildResponse), args.Error(1)
}

func (m *mockRebuildService) TriggerManual(ctx context.Context, title string) (*models.RebuildResponse, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RebuildResponse), args.Error(1)
}

type mockContentService struct {
	mock.Mock
}

func (m *mockContentService) ListItems(ctx context.Context, collection string, q directus.Query) ([]directus.Item, error) {
	args := m.Called(ctx, collection, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directus.Item), args.Error(1)
}

func (m *mockContentService) GetItem(ctx context.Context, collection, id string, q directus.Query) (directus.Item, error) {
	args := m.Called(ctx, collection, id, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(directus.Item), args.Error(1)
}

func (m *mockContentService) StaticPaths(ctx context.Context, collection, field string) (*directus.StaticPaths, error) {
	args := m.Called(ctx, collection, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directus.StaticPaths), args.Error(1)
}

func (m *mockContentService) AssetURL(assetID string, t directus.Transform) string {
	return m.Called(assetID, t).String(0)
}

func (m *mockContentService) ResponsiveImages(assetID string, widths []int) *directus.ResponsiveImage {
	args := m.Called(assetID, widths)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*directus.ResponsiveImage)
}

func (m *mockContentService) ImageProps(assetID string, t directus.Transform, alt string) *directus.Image {
	args := m.Called(assetID, t, alt)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*directus.Image)
}

func (m *mockContentService) BlurDataURL(assetID string) string {
	return m.Called(assetID).String(0)
}
