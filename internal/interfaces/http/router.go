// Package http assembles the HTTP surface: handlers, middleware, and routes.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	ingestionUC "poolhub/internal/application/ingestion/usecases"
	"poolhub/internal/application/integration/adapters"
	integrationUC "poolhub/internal/application/integration/usecases"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/infrastructure/config"
	"poolhub/internal/infrastructure/email"
	"poolhub/internal/infrastructure/ratelimit"
	"poolhub/internal/infrastructure/repository"
	"poolhub/internal/interfaces/http/handlers"
	"poolhub/internal/interfaces/http/middleware"
	"poolhub/internal/interfaces/http/routes"
	"poolhub/internal/shared/logger"
	"poolhub/internal/shared/utils"
)

// Router represents the HTTP router configuration
type Router struct {
	engine             *gin.Engine
	cfg                *config.Config
	log                logger.Interface
	integrationHandler *handlers.IntegrationHandler
	webhookHandler     *handlers.WebhookHandler
	adminHandler       *handlers.IngestionAdminHandler
	rateLimiter        ratelimit.RateLimiter
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	integrationRepo := repository.NewIntegrationRepository(db)
	deviceRepo := repository.NewIntegrationDeviceRepository(db)
	readingRepo := repository.NewSensorReadingRepository(db)
	failureRepo := repository.NewIngestionFailureRepository(db)
	poolAccess := repository.NewPoolAccessChecker(db)

	registry, disabled := BuildAdapterRegistry(cfg)

	var notifier ingestionUC.DeadLetterNotifier
	if cfg.Email.IsConfigured() {
		notifier = email.NewSMTPAlertService(email.SMTPConfig{
			Host:         cfg.Email.SMTPHost,
			Port:         cfg.Email.SMTPPort,
			Username:     cfg.Email.SMTPUsername,
			Password:     cfg.Email.SMTPPassword,
			FromAddress:  cfg.Email.FromAddress,
			FromName:     cfg.Email.FromName,
			OperatorAddr: cfg.Email.OperatorAddr,
		})
	}

	connectUC := integrationUC.NewConnectIntegrationUseCase(integrationRepo, registry, disabled, log)
	disconnectUC := integrationUC.NewDisconnectIntegrationUseCase(integrationRepo, log)
	listUC := integrationUC.NewListIntegrationsUseCase(integrationRepo, log)
	discoverUC := integrationUC.NewDiscoverDevicesUseCase(integrationRepo, deviceRepo, registry, disabled, log)
	listDevicesUC := integrationUC.NewListDevicesUseCase(integrationRepo, deviceRepo, log)
	linkUC := integrationUC.NewLinkDeviceToPoolUseCase(integrationRepo, deviceRepo, poolAccess, log)
	readingsUC := ingestionUC.NewGetDeviceReadingsUseCase(integrationRepo, deviceRepo, readingRepo, log)

	ingestUC := ingestionUC.NewIngestWebhookUseCase(registry, deviceRepo, readingRepo, failureRepo, disabled, log)
	listFailuresUC := ingestionUC.NewListFailuresUseCase(failureRepo, log)
	retryUC := ingestionUC.NewRetryFailuresUseCase(
		registry, deviceRepo, readingRepo, failureRepo, notifier, disabled,
		cfg.Ingestion.RetryMaxAttempts, cfg.Ingestion.RetryLimit, log,
	)

	var limiter ratelimit.RateLimiter = ratelimit.NoopLimiter{}
	if cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = ratelimit.NewRedisRateLimiter(client)
	}

	return &Router{
		engine:             engine,
		cfg:                cfg,
		log:                log,
		integrationHandler: handlers.NewIntegrationHandler(connectUC, disconnectUC, listUC, discoverUC, listDevicesUC, linkUC, readingsUC, log),
		webhookHandler:     handlers.NewWebhookHandler(ingestUC, log),
		adminHandler:       handlers.NewIngestionAdminHandler(listFailuresUC, retryUC, log),
		rateLimiter:        limiter,
	}
}

// BuildAdapterRegistry constructs the provider adapter registry and the
// disabled-provider map from configuration. Shared with the worker binary
// so both processes dispatch identically.
func BuildAdapterRegistry(cfg *config.Config) (*adapters.Registry, map[vo.Provider]bool) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	wsCfg := cfg.Provider(string(vo.ProviderWeatherStation))
	smCfg := cfg.Provider(string(vo.ProviderSmartMeter))

	registry := adapters.NewRegistry(
		adapters.NewDefaultAdapter("generic", adapters.Config{
			AllowUnverified: cfg.Ingestion.AllowUnverifiedWebhooks,
		}),
		adapters.NewWeatherStationAdapter(adapters.Config{
			WebhookSecret:   wsCfg.WebhookSecret,
			PollBaseURL:     wsCfg.PollBaseURL,
			AllowUnverified: cfg.Ingestion.AllowUnverifiedWebhooks,
		}, httpClient),
		adapters.NewSmartMeterAdapter(adapters.Config{
			WebhookSecret:   smCfg.WebhookSecret,
			AllowUnverified: cfg.Ingestion.AllowUnverifiedWebhooks,
		}),
	)

	disabled := make(map[vo.Provider]bool)
	for name, pc := range cfg.Providers {
		if pc.Disabled {
			disabled[vo.Provider(name)] = true
		}
	}

	return registry, disabled
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "ok"})
	})

	routes.SetupIntegrationRoutes(r.engine, &routes.IntegrationRouteConfig{
		IntegrationHandler: r.integrationHandler,
	})

	routes.SetupWebhookRoutes(r.engine, &routes.WebhookRouteConfig{
		WebhookHandler: r.webhookHandler,
		RateLimiter:    r.rateLimiter,
		RateLimit: ratelimit.RateLimitConfig{
			RequestsPerMinute: r.cfg.Ingestion.WebhookRatePerMinute,
			RequestsPerHour:   r.cfg.Ingestion.WebhookRatePerHour,
		},
		Logger: r.log,
	})

	routes.SetupAdminRoutes(r.engine, &routes.AdminRouteConfig{
		IngestionAdminHandler: r.adminHandler,
		AdminToken:            r.cfg.Server.AdminToken,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
