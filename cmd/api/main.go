package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"miner-backend/internal/common/config"
	"miner-backend/internal/common/logger"
	commonmw "miner-backend/internal/common/middleware"
	authhttp "miner-backend/internal/features/auth/delivery/http"
	authmw "miner-backend/internal/features/auth/middleware"
	authpg "miner-backend/internal/features/auth/repository/postgres"
	authservice "miner-backend/internal/features/auth/service"
	taskhttp "miner-backend/internal/features/task/delivery/http"
	taskpg "miner-backend/internal/features/task/repository/postgres"
	taskservice "miner-backend/internal/features/task/service"
	userhttp "miner-backend/internal/features/user/delivery/http"
	userpg "miner-backend/internal/features/user/repository/postgres"
	userredis "miner-backend/internal/features/user/repository/redis"
	userservice "miner-backend/internal/features/user/service"
	walletcipher "miner-backend/internal/features/wallet/cipher"
	wallethttp "miner-backend/internal/features/wallet/delivery/http"
	walletpg "miner-backend/internal/features/wallet/repository/postgres"
	walletprovider "miner-backend/internal/features/wallet/provider"
	"miner-backend/internal/platform/postgres"
	redisplatform "miner-backend/internal/platform/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger.Init("miner-backend", cfg.Debug)

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	pg, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres open failed")
	}
	defer pg.Close()

	if err := postgres.Migrate(pg.DB()); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	rdb, err := redisplatform.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.UserTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis open failed")
	}
	defer rdb.Close()

	userRepo := userpg.NewPostgresRepository(pg.DB())
	userCache := userredis.NewUserCache(rdb.Client, rdb.UserTTL)
	taskRepo := taskpg.NewPostgresRepository(pg.DB())
	walletRepo := walletpg.NewPostgresRepository(pg.DB())
	provisionRepo := authpg.NewPostgresRepository(pg.DB())

	cipher, err := walletcipher.New(cfg.Wallet.EncryptionPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("wallet cipher init failed")
	}

	// The bypass verifier is an explicit choice made here, never an
	// implicit env check inside the auth flow.
	var verifier authservice.Verifier = authservice.NewHMACVerifier(cfg.Telegram.BotToken)
	if cfg.Debug {
		logger.Warn().Msg("debug mode: Telegram login verification is bypassed")
		verifier = authservice.AlwaysAcceptVerifier{}
	}

	jwtManager := authservice.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authSvc := authservice.NewAuthService(
		verifier, jwtManager, userRepo, provisionRepo,
		walletprovider.NewTONProvider(), cipher, userCache,
		cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL,
	)
	userSvc := userservice.NewUserService(userRepo, userCache)
	taskSvc := taskservice.NewTaskService(taskRepo, userCache)

	router := gin.New()
	router.Use(
		commonmw.RequestID(),
		commonmw.RequestLogger(),
		commonmw.ErrorHandler(),
		commonmw.CORS(cfg.Server.Origin),
	)

	api := router.Group("/api/v1")
	gate := authmw.RequestGate(jwtManager)

	authhttp.NewAuthHandler(authSvc).RegisterRoutes(api)
	userhttp.NewUserHandler(userSvc).RegisterRoutes(api, gate)
	taskhttp.NewTaskHandler(taskSvc).RegisterRoutes(api, gate)
	wallethttp.NewWalletHandler(walletRepo).RegisterRoutes(api, gate)

	router.GET("/health", func(c *gin.Context) {
		if err := pg.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		if err := rdb.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
