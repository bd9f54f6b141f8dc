package services_test

import (
	"github.com/getmentor/contentbridge/config"
	"github.com/getmentor/contentbridge/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Directus: config.DirectusConfig{
			URL:             "http://cms.local",
			DefaultLimit:    100,
			FallbackOnError: true,
		},
		Webhooks: config.WebhookConfig{
			RevalidateSecret: "test-secret",
			RebuildSecret:    "test-secret",
			Concurrency:      4,
		},
		BuildHook: config.BuildHookConfig{
			URL:    "https://api.netlify.com/build_hooks/test",
			Branch: "main",
		},
		Cache: config.CacheConfig{ContentTTLSeconds: 60},
	}
}
