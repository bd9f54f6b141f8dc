package services_test

import (
	"context"

	"github.com/getmentor/contentbridge/pkg/directus"
	"github.com/getmentor/contentbridge/pkg/notify"
	"github.com/getmentor/contentbridge/pkg/platform"
	"github.com/stretchr/testify/mock"
)

// MockContentSource is a mock implementation of ContentSource
type MockContentSource struct {
	mock.Mock
}

func (m *MockContentSource) BaseURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContentSource) FetchCollection(ctx context.Context, collection string, q directus.Query) ([]directus.Item, error) {
	args := m.Called(ctx, collection, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directus.Item), args.Error(1)
}

func (m *MockContentSource) FetchItem(ctx context.Context, collection, id string, q directus.Query) (directus.Item, error) {
	args := m.Called(ctx, collection, id, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(directus.Item), args.Error(1)
}

func (m *MockContentSource) StaticPaths(ctx context.Context, collection, field string) (*directus.StaticPaths, error) {
	args := m.Called(ctx, collection, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directus.StaticPaths), args.Error(1)
}

// MockRevalidator is a mock implementation of platform.Revalidator
type MockRevalidator struct {
	mock.Mock
}

func (m *MockRevalidator) RevalidatePath(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockRevalidator) RevalidateTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

// MockBuildTrigger is a mock implementation of BuildTrigger
type MockBuildTrigger struct {
	mock.Mock
}

func (m *MockBuildTrigger) Trigger(ctx context.Context, req platform.BuildRequest) (*platform.BuildResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.BuildResult), args.Error(1)
}

// MockNotifier is a mock implementation of notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockNotifier) NotifyRebuild(ctx context.Context, event notify.RebuildEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
