package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookly/internal/audit"
	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/cache"
	"github.com/mrlokans/bookly/internal/catalog"
	"github.com/mrlokans/bookly/internal/config"
	"github.com/mrlokans/bookly/internal/covers"
	"github.com/mrlokans/bookly/internal/database"
	auditRepo "github.com/mrlokans/bookly/internal/database/audit"
	"github.com/mrlokans/bookly/internal/database/books"
	"github.com/mrlokans/bookly/internal/database/lists"
	"github.com/mrlokans/bookly/internal/database/reviews"
	"github.com/mrlokans/bookly/internal/database/users"
	http_controllers "github.com/mrlokans/bookly/internal/http"
	"github.com/mrlokans/bookly/internal/logger"
	"github.com/mrlokans/bookly/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then drains in-flight
// requests for up to the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("server exiting")
}

func Run(cfg *config.Config, version string) {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", version).Msg("starting bookly")

	if cfg.Auth.SecretKey == config.DefaultSecretKey {
		log.Warn().Msg("AUTH_SECRET_KEY is not set, tokens are signed with the built-in development key")
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	provider := catalog.NewGoogleBooksClient(cfg.GoogleBooks)
	bookRepo := books.NewRepository(db.DB)
	importer := catalog.NewImporter(provider, bookRepo)

	routerCfg := http_controllers.RouterConfig{
		Users:          users.NewRepository(db.DB, cfg.Auth.BcryptCost),
		Lists:          lists.NewRepository(db.DB, bookRepo, importer),
		Reviews:        reviews.NewRepository(db.DB),
		Books:          bookRepo,
		Tokens:         tokens,
		Database:       db,
		DemoMode:       cfg.Demo.Enabled,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Version:        version,
	}

	if cfg.Demo.Enabled {
		log.Info().Msg("demo mode enabled, write operations will be blocked")
	}

	if cfg.Covers.CacheDir != "" {
		coverCache, err := covers.NewCache(cfg.Covers.CacheDir)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize cover cache, redirecting to provider covers")
		} else {
			log.Info().Str("dir", coverCache.CacheDir()).Msg("cover cache initialized")
			routerCfg.Covers = coverCache
		}
	}

	// The search cache is optional. A Redis that is configured but down at
	// startup disables caching rather than the service.
	var searchCache *cache.SearchCache
	if cfg.Redis.Addr != "" {
		searchCache = cache.NewSearchCache(cfg.Redis)
		connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := searchCache.Connect(connectCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("search cache unavailable, continuing without it")
			searchCache.Close()
			searchCache = nil
		}
	}
	if searchCache != nil {
		defer searchCache.Close()
		routerCfg.Search = catalog.NewService(provider, searchCache)
		routerCfg.Cache = searchCache
	} else {
		routerCfg.Search = catalog.NewService(provider, nil)
	}

	loginLimiter := auth.NewLoginLimiter(auth.DefaultLoginLimitConfig())
	defer loginLimiter.Stop()
	routerCfg.LoginLimiter = loginLimiter

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	routerCfg.Auditor = auditService

	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	cleanup := scheduler.NewAuditCleanupScheduler(auditService, cfg.Audit.CleanupSchedule, cfg.Audit.Retention)
	if err := cleanup.Start(schedCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to start audit cleanup")
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		cleanup.Stop()
		schedCancel()
	}

	Serve(router, cfg, onShutdown)
}
