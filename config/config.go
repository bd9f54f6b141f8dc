package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Directus      DirectusConfig
	Webhooks      WebhookConfig
	NextJS        NextJSConfig
	BuildHook     BuildHookConfig
	Notifications NotificationConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

// DirectusConfig describes the headless CMS the content client talks to.
type DirectusConfig struct {
	URL             string
	Token           string // Optional: sent as a bearer token when set
	DefaultLimit    int
	TimeoutSeconds  int
	MaxRetries      int
	FallbackOnError bool // Serve empty results instead of failing reads
}

type WebhookConfig struct {
	RevalidateSecret string
	RebuildSecret    string
	Concurrency      int
}

type NextJSConfig struct {
	BaseURL          string
	RevalidateSecret string
}

type BuildHookConfig struct {
	URL    string
	Branch string
}

type NotificationConfig struct {
	SlackWebhookURL string
}

type CacheConfig struct {
	ContentTTLSeconds   int
	DisableContentCache bool
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DIRECTUS_URL", "http://localhost:8057")
	v.SetDefault("DIRECTUS_DEFAULT_LIMIT", 100)
	v.SetDefault("DIRECTUS_TIMEOUT_SECONDS", 10)
	v.SetDefault("DIRECTUS_MAX_RETRIES", 2)
	v.SetDefault("CONTENT_FALLBACK_ON_ERROR", true)
	v.SetDefault("REVALIDATE_CONCURRENCY", 4)
	v.SetDefault("NEXTJS_BASE_URL", "http://localhost:3000")
	v.SetDefault("BUILD_TRIGGER_BRANCH", "main")
	v.SetDefault("CONTENT_CACHE_TTL", 3600) // 1 hour, same as the page-level ISR window
	v.SetDefault("DISABLE_CONTENT_CACHE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("O11Y_SERVICE_NAME", "contentbridge")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "cms")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "contentbridge")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	revalidateSecret := v.GetString("REVALIDATE_SECRET")
	rebuildSecret := v.GetString("REBUILD_SECRET")
	if rebuildSecret == "" {
		rebuildSecret = revalidateSecret
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Directus: DirectusConfig{
			URL:             strings.TrimRight(v.GetString("DIRECTUS_URL"), "/"),
			Token:           v.GetString("DIRECTUS_TOKEN"),
			DefaultLimit:    v.GetInt("DIRECTUS_DEFAULT_LIMIT"),
			TimeoutSeconds:  v.GetInt("DIRECTUS_TIMEOUT_SECONDS"),
			MaxRetries:      v.GetInt("DIRECTUS_MAX_RETRIES"),
			FallbackOnError: v.GetBool("CONTENT_FALLBACK_ON_ERROR"),
		},
		Webhooks: WebhookConfig{
			RevalidateSecret: revalidateSecret,
			RebuildSecret:    rebuildSecret,
			Concurrency:      v.GetInt("REVALIDATE_CONCURRENCY"),
		},
		NextJS: NextJSConfig{
			BaseURL:          strings.TrimRight(v.GetString("NEXTJS_BASE_URL"), "/"),
			RevalidateSecret: v.GetString("NEXTJS_REVALIDATE_SECRET"),
		},
		BuildHook: BuildHookConfig{
			URL:    v.GetString("NETLIFY_BUILD_HOOK"),
			Branch: v.GetString("BUILD_TRIGGER_BRANCH"),
		},
		Notifications: NotificationConfig{
			SlackWebhookURL: v.GetString("SLACK_WEBHOOK_URL"),
		},
		Cache: CacheConfig{
			ContentTTLSeconds:   v.GetInt("CONTENT_CACHE_TTL"),
			DisableContentCache: v.GetBool("DISABLE_CONTENT_CACHE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks structural configuration problems. Secrets and the build
// hook are checked per request so content reads keep working without them.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Directus.URL == "" {
		return fmt.Errorf("DIRECTUS_URL is required")
	}
	if u, err := url.Parse(c.Directus.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("DIRECTUS_URL must be an absolute URL")
	}
	if c.Directus.DefaultLimit == 0 || c.Directus.DefaultLimit < -1 {
		return fmt.Errorf("DIRECTUS_DEFAULT_LIMIT must be positive or -1")
	}
	if c.Directus.MaxRetries < 0 {
		return fmt.Errorf("DIRECTUS_MAX_RETRIES must not be negative")
	}

	if c.Webhooks.Concurrency <= 0 {
		return fmt.Errorf("REVALIDATE_CONCURRENCY must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
