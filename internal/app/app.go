// Package app wires configuration into the clients and services shared by
// the HTTP server and the CLI.
package app

import (
	"time"

	"github.com/getmentor/contentbridge/config"
	"github.com/getmentor/contentbridge/internal/cache"
	"github.com/getmentor/contentbridge/internal/services"
	"github.com/getmentor/contentbridge/pkg/directus"
	"github.com/getmentor/contentbridge/pkg/httpclient"
	"github.com/getmentor/contentbridge/pkg/notify"
	"github.com/getmentor/contentbridge/pkg/platform"
)

// platformTimeout bounds a single revalidation, build hook or Slack call
const platformTimeout = 10 * time.Second

// Components holds every long-lived dependency of the service
type Components struct {
	Directus     *directus.Client
	ContentCache *cache.ContentCache
	Content      *services.ContentService
	Revalidation *services.RevalidationService
	Rebuild      *services.RebuildService
}

// New builds the component graph from cfg. Nothing here performs I/O.
func New(cfg *config.Config) *Components {
	directusHTTP := httpclient.NewNamedClient("directus", time.Duration(cfg.Directus.TimeoutSeconds)*time.Second)
	platformHTTP := httpclient.NewNamedClient("platform", platformTimeout)

	directusClient := directus.NewClient(directus.Config{
		BaseURL:      cfg.Directus.URL,
		Token:        cfg.Directus.Token,
		DefaultLimit: cfg.Directus.DefaultLimit,
		MaxRetries:   cfg.Directus.MaxRetries,
	}, directusHTTP)

	contentCache := cache.NewContentCache(cfg.Cache.ContentTTLSeconds)

	revalidator := platform.NewNextJSRevalidator(cfg.NextJS.BaseURL, platform.NewNextJSHTTPClient(cfg.NextJS.RevalidateSecret, platformTimeout))
	buildHook := platform.NewBuildHook(cfg.BuildHook.URL, platformHTTP)
	slack := notify.NewSlackNotifier(cfg.Notifications.SlackWebhookURL, platformHTTP)

	return &Components{
		Directus:     directusClient,
		ContentCache: contentCache,
		Content:      services.NewContentService(directusClient, contentCache, cfg),
		Revalidation: services.NewRevalidationService(revalidator, contentCache, cfg),
		Rebuild:      services.NewRebuildService(buildHook, slack, cfg),
	}
}
