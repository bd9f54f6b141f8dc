package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/getmentor/contentbridge/internal/models"
	"github.com/getmentor/contentbridge/internal/services"
	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/getmentor/contentbridge/pkg/notify"
	"github.com/getmentor/contentbridge/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRebuildService_Trigger(t *testing.T) {
	hook := new(MockBuildTrigger)
	notifier := new(MockNotifier)
	service := services.NewRebuildService(hook, notifier, testConfig())

	hook.On("Trigger", mock.Anything, platform.BuildRequest{
		Title:      "Content Update: pages",
		Branch:     "main",
		ClearCache: true,
	}).Return(&platform.BuildResult{ID: "build-1"}, nil).Once()
	notifier.On("Enabled").Return(true)
	notifier.On("NotifyRebuild", mock.Anything, notify.RebuildEvent{
		Collection: "pages",
		Action:     "update",
		Key:        "about",
		BuildID:    "build-1",
	}).Return(nil).Once()

	resp, err := service.Trigger(context.Background(), &models.WebhookEvent{
		Collection: "pages",
		Action:     "update",
		Key:        "about",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Triggered)
	assert.Equal(t, "Site rebuild triggered successfully", resp.Message)
	assert.Equal(t, "build-1", resp.BuildID)
	hook.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRebuildService_Trigger_CollectionNotAllowed(t *testing.T) {
	hook := new(MockBuildTrigger)
	service := services.NewRebuildService(hook, nil, testConfig())

	resp, err := service.Trigger(context.Background(), &models.WebhookEvent{
		Collection: "directus_users",
		Action:     "update",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.Triggered)
	assert.Equal(t, "Webhook received but no rebuild needed for: directus_users", resp.Message)
	hook.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
}

func TestRebuildService_Trigger_ActionNotAllowed(t *testing.T) {
	hook := new(MockBuildTrigger)
	service := services.NewRebuildService(hook, nil, testConfig())

	resp, err := service.Trigger(context.Background(), &models.WebhookEvent{
		Collection: "pages",
		Action:     "archive",
	})

	require.NoError(t, err)
	assert.False(t, resp.Triggered)
	assert.Equal(t, "Webhook received but no rebuild needed for action: archive", resp.Message)
	hook.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
}

func TestRebuildService_Trigger_MissingHook(t *testing.T) {
	cfg := testConfig()
	cfg.BuildHook.URL = ""
	hook := platform.NewBuildHook(cfg.BuildHook.URL, nil)
	service := services.NewRebuildService(hook, nil, cfg)

	resp, err := service.Trigger(context.Background(), &models.WebhookEvent{
		Collection: "blog_posts",
		Action:     "create",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
	assert.Contains(t, err.Error(), "NETLIFY_BUILD_HOOK")
}

func TestRebuildService_Trigger_NotificationFailureIgnored(t *testing.T) {
	hook := new(MockBuildTrigger)
	notifier := new(MockNotifier)
	service := services.NewRebuildService(hook, notifier, testConfig())

	hook.On("Trigger", mock.Anything, mock.Anything).Return(&platform.BuildResult{ID: "b"}, nil).Once()
	notifier.On("Enabled").Return(true)
	notifier.On("NotifyRebuild", mock.Anything, mock.Anything).Return(errors.New("slack down")).Once()

	resp, err := service.Trigger(context.Background(), &models.WebhookEvent{Collection: "products", Action: "delete", Key: "9"})

	require.NoError(t, err)
	assert.True(t, resp.Triggered)
	notifier.AssertExpectations(t)
}

func TestRebuildService_Trigger_HookFailure(t *testing.T) {
	hook := new(MockBuildTrigger)
	notifier := new(MockNotifier)
	service := services.NewRebuildService(hook, notifier, testConfig())

	hook.On("Trigger", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewRemoteError("build hook", 500, "")).Once()

	_, err := service.Trigger(context.Background(), &models.WebhookEvent{Collection: "pages", Action: "update"})

	assert.ErrorIs(t, err, apperrors.ErrRemote)
	notifier.AssertNotCalled(t, "NotifyRebuild", mock.Anything, mock.Anything)
}

func TestRebuildService_TriggerManual(t *testing.T) {
	hook := new(MockBuildTrigger)
	service := services.NewRebuildService(hook, nil, testConfig())

	hook.On("Trigger", mock.Anything, platform.BuildRequest{
		Title:      "Content Update",
		Branch:     "main",
		ClearCache: true,
	}).Return(&platform.BuildResult{ID: "m-1"}, nil).Once()

	resp, err := service.TriggerManual(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "m-1", resp.BuildID)
	hook.AssertExpectations(t)
}
