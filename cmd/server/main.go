package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/api"
	"github.com/yasmngoncalves/PolarisApp/internal/auth"
	"github.com/yasmngoncalves/PolarisApp/internal/cache"
	"github.com/yasmngoncalves/PolarisApp/internal/config"
	"github.com/yasmngoncalves/PolarisApp/internal/observability"
	"github.com/yasmngoncalves/PolarisApp/internal/service"
	"github.com/yasmngoncalves/PolarisApp/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, logger, cfg)
	if err != nil {
		logger.Fatalf("failed to init tracing: %v", err)
	}

	store, err := storage.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatalf("invalid timezone: %v", err)
	}

	var dashboards cache.DashboardCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL, logger)
		if err != nil {
			logger.Warnf("redis unavailable, dashboard cache disabled: %v", err)
		} else {
			defer rc.Close()
			dashboards = rc
		}
	}

	var (
		provider auth.Provider
		issuer   service.TokenIssuer
	)
	switch cfg.AuthMode {
	case "local":
		local := auth.NewLocalAuthProvider(cfg.AuthToken, logger)
		if err := seedDemoProfile(ctx, store, local.User); err != nil {
			logger.Fatalf("failed to seed demo profile: %v", err)
		}
		provider = local
	case "remote":
		provider = auth.NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
	default:
		jwtProvider := auth.NewJWTProvider(cfg.JWTSecret, cfg.JWTTTL, logger)
		provider, issuer = jwtProvider, jwtProvider
	}

	app := &api.Application{
		Log:    logger,
		Store:  store,
		Diary:  service.NewJournal(store, dashboards, loc, logger),
		Issuer: issuer,
	}
	routerCfg := api.RouterConfig{Auth: provider, CORSOrigins: cfg.CORSOrigin}
	if cfg.OtelEnabled {
		routerCfg.TraceService = cfg.OtelServiceName
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(app, routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server running on %s (storage=%s, auth=%s)", cfg.HTTPAddr, cfg.DBType, cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if err := store.Close(); err != nil {
		logger.Errorf("storage close: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Errorf("tracing shutdown: %v", err)
	}
}

// seedDemoProfile creates the profile behind the local development token.
func seedDemoProfile(ctx context.Context, store storage.Store, user internal.User) error {
	_, err := store.GetProfile(ctx, user.ID)
	if err == nil || !errors.Is(err, internal.ErrNotFound) {
		return err
	}
	now := time.Now()
	return store.CreateProfile(ctx, &internal.UserProfile{
		ID:          user.ID,
		Username:    "demo",
		Email:       user.Email,
		ProfileName: user.Name,
		WaterGoal:   internal.DefaultWaterGoal,
		SleepGoal:   internal.DefaultSleepGoal,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
