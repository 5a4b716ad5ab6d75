// Package main is the entry point for the Member Verification Service.
// @title Member Verification Service API
// @version 1.0
// @description Conversational identity verification and loan concierge for savings cooperative members
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/coopassist/verify-service
// @contact.email support@coopassist.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8086
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token carrying the callback service key
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/coopassist/verify-service/docs"
	"github.com/coopassist/verify-service/internal/api/handlers"
	"github.com/coopassist/verify-service/internal/api/middleware"
	"github.com/coopassist/verify-service/internal/api/routes"
	"github.com/coopassist/verify-service/internal/config"
	"github.com/coopassist/verify-service/internal/core/cache"
	"github.com/coopassist/verify-service/internal/core/docdb"
	"github.com/coopassist/verify-service/internal/core/vault"
	rediscache "github.com/coopassist/verify-service/internal/infrastructure/cache/redis"
	"github.com/coopassist/verify-service/internal/infrastructure/docdb/mongodb"
	dotenvvault "github.com/coopassist/verify-service/internal/infrastructure/vault/dotenv"
	"github.com/coopassist/verify-service/internal/pkg/encryption"
	"github.com/coopassist/verify-service/internal/services/flow"
	"github.com/coopassist/verify-service/internal/services/loans"
	"github.com/coopassist/verify-service/internal/services/nlg"
	"github.com/coopassist/verify-service/internal/services/session"
	"github.com/coopassist/verify-service/internal/services/sweeper"
	"github.com/coopassist/verify-service/internal/services/tenantapi"
	"github.com/coopassist/verify-service/internal/services/tenantdir"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogger(cfg.Log)

	ctx := context.Background()

	// Initialize vault client using factory pattern
	vaultClient, err := createVaultClient(cfg.Vault)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize vault client")
	}
	defer vaultClient.Close()

	// Initialize cache client using factory pattern
	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache client")
	}
	defer cacheClient.Close()

	// Initialize document db client; transcripts are optional, the service
	// runs without the archive.
	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		log.Warn().Err(err).Msg("transcript archive unavailable, continuing without it")
		docDBClient = nil
	}
	if docDBClient != nil {
		defer docDBClient.Close(ctx)
		if err := docDBClient.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure indexes")
		}
	}

	// Initialize encryptor for session records at rest
	encryptor, err := createEncryptor(cfg.Vault, vaultClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize encryptor")
	}

	// Initialize session store
	store, err := session.NewStore(&session.Config{
		CacheClient: cacheClient,
		Encryptor:   encryptor,
		Retention:   cfg.Cache.Retention,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session store")
	}

	// Initialize the flow engine and its collaborators
	engine, err := createEngine(ctx, cfg, vaultClient, store, docDBClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize flow engine")
	}

	// Start the background session sweep
	if cfg.Sweep.Enabled {
		sw, err := sweeper.New(&sweeper.Config{
			Store:      store,
			Schedule:   cfg.Sweep.Spec,
			PurgeAfter: cfg.Sweep.PurgeAfter,
			Logger:     log.Logger,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize sweeper")
		}
		if err := sw.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start sweeper")
		}
		defer sw.Stop()
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, cacheClient, docDBClient, store, engine)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// setupLogger configures the global logger from configuration.
func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// createVaultClient creates a vault client based on the configuration.
func createVaultClient(cfg config.VaultConfig) (vault.Client, error) {
	switch vault.Type(cfg.Type) {
	case vault.TypeDotEnv:
		return dotenvvault.NewClient()
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported vault type")
		return nil, nil
	}
}

// createCacheClient creates a cache client based on the configuration.
func createCacheClient(cfg config.CacheConfig) (cache.Client, error) {
	switch cache.Type(cfg.Type) {
	case cache.TypeRedis:
		return rediscache.NewClient(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.Retention,
		})
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported cache type")
		return nil, nil
	}
}

// createDocDBClient creates a document database client based on the configuration.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	switch docdb.Type(cfg.Type) {
	case docdb.TypeMongoDB, docdb.TypeCosmosDB:
		// CosmosDB speaks the MongoDB protocol, so the same client serves both.
		return mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported docdb type")
		return nil, nil
	}
}

// createEncryptor creates an encryptor based on the configuration.
func createEncryptor(cfg config.VaultConfig, vaultClient vault.Client) (encryption.Encryptor, error) {
	encryptionKey := cfg.EncryptionKey
	if encryptionKey == "" {
		key, err := vaultClient.GetSecret(context.Background(), "dotenv://SESSION_ENCRYPTION_KEY")
		if err == nil && key != "" {
			encryptionKey = key
		}
	}

	if encryptionKey == "" {
		// Session records carry upstream secrets; only development should
		// run unencrypted.
		log.Warn().Msg("SESSION_ENCRYPTION_KEY not set, using NoOp encryptor")
		return encryption.NewNoOpEncryptor(), nil
	}

	return encryption.NewAESEncryptor(encryptionKey)
}

// createEngine wires the flow engine and its collaborators.
func createEngine(ctx context.Context, cfg *config.Config, vaultClient vault.Client, store session.Store, docDBClient docdb.Client) (*flow.Engine, error) {
	sharedSecret, err := vaultClient.GetSecret(ctx, cfg.TenantAPI.SharedSecretRef)
	if err != nil {
		log.Warn().Err(err).Msg("tenant API shared secret not resolved")
	}
	apiKey, err := vaultClient.GetSecret(ctx, cfg.NLG.APIKeyRef)
	if err != nil {
		log.Warn().Err(err).Msg("generation API key not resolved")
	}

	provider := nlg.New(nlg.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.NLG.BaseURL,
		SmallModel: cfg.NLG.SmallModel,
		LargeModel: cfg.NLG.LargeModel,
		Timeout:    cfg.NLG.Timeout,
	})

	tenantAPI, err := tenantapi.NewClient(&tenantapi.ClientConfig{
		BaseURL:      cfg.TenantAPI.BaseURL,
		SharedSecret: sharedSecret,
		Timeout:      cfg.TenantAPI.Timeout,
	})
	if err != nil {
		return nil, err
	}

	var transcripts docdb.TranscriptsCollection
	if docDBClient != nil {
		transcripts = docDBClient.Transcripts()
	}

	return flow.NewEngine(&flow.EngineConfig{
		Store:       store,
		Resolver:    tenantdir.NewResolver(tenantdir.NewDirectory()),
		Extractor:   nlg.NewExtractor(provider),
		TenantAPI:   tenantAPI,
		Renderer:    loans.NewRenderer(provider),
		Transcripts: transcripts,
		Logger:      log.Logger,
	})
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, cacheClient cache.Client, docDBClient docdb.Client, store session.Store, engine *flow.Engine) *gin.Engine {
	router := gin.New()

	// CORS first, so preflight requests never hit the auth check.
	router.Use(middleware.NewCORSMiddleware(middleware.DefaultCORSConfig()))

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	authMw := middleware.NewAuthMiddleware(cfg.Server.ServiceKey)

	var transcripts docdb.TranscriptsCollection
	if docDBClient != nil {
		transcripts = docDBClient.Transcripts()
	}

	// Create handlers
	healthHandler := handlers.NewHealthHandler(cacheClient, docDBClient)
	messagesHandler := handlers.NewMessagesHandler(engine, transcripts)
	sessionsHandler := handlers.NewSessionsHandler(store)

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler:   healthHandler,
		MessagesHandler: messagesHandler,
		SessionsHandler: sessionsHandler,
		AuthMiddleware:  authMw,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw)

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
