package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getmentor/contentbridge/config"
	"github.com/getmentor/contentbridge/internal/app"
	"github.com/getmentor/contentbridge/internal/handlers"
	"github.com/getmentor/contentbridge/internal/middleware"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	"github.com/getmentor/contentbridge/pkg/profiling"
	"github.com/getmentor/contentbridge/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// contentMaxAge is how long CDNs may hold content responses
const contentMaxAge = 60

// registerWebhookRoutes registers the CMS flow webhooks. Routes accept any
// method so authentication is checked before the method.
func registerWebhookRoutes(
	group *gin.RouterGroup,
	cfg *config.Config,
	rateLimiter *middleware.RateLimiter,
	webhookHandler *handlers.WebhookHandler,
) {
	group.Use(rateLimiter.Middleware(), middleware.NoStoreMiddleware(), middleware.BodySizeLimitMiddleware(middleware.WebhookBodyLimit))
	group.Any("/revalidate", middleware.BearerAuthMiddleware("revalidate", cfg.Webhooks.RevalidateSecret), webhookHandler.Revalidate)
	group.Any("/rebuild", middleware.BearerAuthMiddleware("rebuild", cfg.Webhooks.RebuildSecret), webhookHandler.Rebuild)
}

// registerContentRoutes registers read-only content and asset routes
func registerContentRoutes(
	group *gin.RouterGroup,
	rateLimiter *middleware.RateLimiter,
	contentHandler *handlers.ContentHandler,
) {
	group.Use(rateLimiter.Middleware(), middleware.ContentCacheMiddleware(contentMaxAge))
	group.GET("/items/:collection", contentHandler.ListItems)
	group.GET("/items/:collection/:id", contentHandler.GetItem)
	group.GET("/paths/:collection", contentHandler.StaticPaths)
	group.GET("/assets/:id/url", contentHandler.AssetURL)
	group.GET("/assets/:id/srcset", contentHandler.SrcSet)
	group.GET("/assets/:id/image", contentHandler.Image)
	group.GET("/assets/:id/blur", contentHandler.BlurDataURL)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting content bridge",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("directus_url", cfg.Directus.URL),
	)
	warnMissingSecrets(cfg)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	components := app.New(cfg)
	if cfg.Cache.DisableContentCache {
		logger.Warn("Content cache is DISABLED - every read goes to the CMS")
	}

	// Initialize handlers
	exposeErrors := cfg.IsDevelopment()
	contentHandler := handlers.NewContentHandler(components.Content, exposeErrors)
	webhookHandler := handlers.NewWebhookHandler(components.Revalidation, components.Rebuild, exposeErrors)
	healthHandler := handlers.NewHealthHandler(components.Directus.BreakerState)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  corsOrigins(cfg),
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// Rate limiters live until shutdown
	limiterCtx, stopLimiters := context.WithCancel(context.Background())
	defer stopLimiters()
	generalRateLimiter := middleware.NewRateLimiter(limiterCtx, 100, 200) // 100 req/sec, burst of 200
	webhookRateLimiter := middleware.NewRateLimiter(limiterCtx, 5, 20)    // CMS flows fire in bursts on bulk edits

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	registerContentRoutes(router.Group("/api/v1"), generalRateLimiter, contentHandler)
	registerWebhookRoutes(router.Group("/api/v1/webhooks"), cfg, webhookRateLimiter, webhookHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // a dispatch waits on every revalidation call
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// warnMissingSecrets logs configuration that makes a webhook reject or fail
// every request. These are not fatal so content reads keep working.
func warnMissingSecrets(cfg *config.Config) {
	if cfg.Webhooks.RevalidateSecret == "" {
		logger.Warn("REVALIDATE_SECRET not set - revalidation webhooks will be rejected")
	}
	if cfg.NextJS.RevalidateSecret == "" {
		logger.Warn("NEXTJS_REVALIDATE_SECRET not set - the site may refuse revalidation calls")
	}
	if cfg.BuildHook.URL == "" {
		logger.Warn("NETLIFY_BUILD_HOOK not set - rebuild webhooks will fail")
	}
}

// corsOrigins returns the configured origins plus local dev servers in
// development. It never writes into cfg's slice.
func corsOrigins(cfg *config.Config) []string {
	origins := make([]string, 0, len(cfg.Server.AllowedOrigins)+2)
	origins = append(origins, cfg.Server.AllowedOrigins...)
	if cfg.IsDevelopment() {
		origins = append(origins, "http://localhost:3000", "http://127.0.0.1:3000")
	}
	return origins
}
