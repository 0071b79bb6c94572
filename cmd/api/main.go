package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/apiclient"
	"github.com/prefeitura-rio/app-pessoas/internal/audit"
	"github.com/prefeitura-rio/app-pessoas/internal/config"
	"github.com/prefeitura-rio/app-pessoas/internal/handlers"
	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/middleware"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"github.com/prefeitura-rio/app-pessoas/internal/redisclient"
	"github.com/prefeitura-rio/app-pessoas/internal/services"
	"github.com/prefeitura-rio/app-pessoas/internal/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/prefeitura-rio/app-pessoas/docs"
)

// @title           Pessoas API
// @version         1.0
// @description     BFF for the person administration panel. It keeps the admin session, validates person forms (including CPF check digits) before calling the people backend, and serves paginated listings and reference data for the form autocompletes.

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

// @tag.name auth
// @tag.description Login, logout and session lookup

// @tag.name people
// @tag.description Person registry operations

// @tag.name reference
// @tag.description Reference data for the form autocompletes

// @tag.name cpf
// @tag.description CPF helpers

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logging.Logger.Sync() }()

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	// Initialize observability
	observability.InitTracer(context.Background(), cfg)
	defer observability.ShutdownTracer()

	// Redis backs sessions, the reference cache and the audit trail. Without it
	// sessions are kept in memory and audit entries go to the log.
	var redis *redisclient.Client
	if cfg.SessionStore == config.SessionStoreRedis {
		client, err := config.InitRedis(context.Background(), cfg)
		if err != nil {
			logging.Logger.Fatal("redis is required for SESSION_STORE=redis", zap.Error(err))
		}
		redis = client
		defer redis.Close()
	}

	api := apiclient.NewClient(cfg, logging.Logger)

	var store session.Store = session.NewMemoryStore()
	var referenceCache services.ReferenceCache
	var auditSink audit.Sink = audit.NewLogSink(logging.Logger)
	if redis != nil {
		store = session.NewRedisStore(redis)
		referenceCache = services.NewRedisReferenceCache(redis)
		auditSink = audit.NewRedisSink(redis, audit.DefaultRedisKey, 10000)
	}

	sessions := session.NewManager(store, api, cfg.SessionTTL, logging.Logger)
	registry := services.NewDirectoryRegistry(api, logging.Logger)
	sessions.OnDispose(registry.Drop)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if cfg.SessionTTL > 0 {
		go registry.RunSweeper(sweepCtx, time.Minute, cfg.SessionTTL)
	}

	// A 401 from the backend ends the session the request was made for
	api.OnUnauthorized(func(ctx context.Context, _ *models.APIError) {
		if s, ok := session.FromContext(ctx); ok {
			sessions.Invalidate(ctx, s.ID)
		}
	})

	cookies := session.NewCookieBinder([]byte(cfg.SessionSecret), cfg.SessionCookie, cfg.SessionTTL, cfg.Environment == "production")
	reference := services.NewReferenceService(api, referenceCache, cfg.ReferenceCacheTTL, logging.Logger)

	auditWorker := audit.NewWorker(auditSink, 2, 1000, logging.Logger)
	defer auditWorker.Stop()

	checks := map[string]handlers.Pinger{"redis": nil}
	if redis != nil {
		checks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx).Err() }
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	handlers.Routes{
		Auth:      handlers.NewAuthHandlers(sessions, cookies, logging.Logger),
		People:    handlers.NewPeopleHandlers(registry, cookies, cfg.FormMinAge, logging.Logger),
		Reference: handlers.NewReferenceHandlers(reference, cookies),
		Health:    handlers.NewHealthHandlers(checks),
		Sessions:  sessions,
		Cookies:   cookies,
		Audit:     auditWorker,
	}.Register(router.Group("/v1"))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("backend", cfg.BackendURL()),
			zap.String("session_store", cfg.SessionStore),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logging.Logger.Info("server exited gracefully")
}
