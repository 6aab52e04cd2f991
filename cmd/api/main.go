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

	"campus-identity/internal/config"
	"campus-identity/internal/db"
	apihttp "campus-identity/internal/http"
	"campus-identity/internal/repository"
	"campus-identity/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	directoryPool, err := db.NewPool(ctx, cfg.DirectoryDatabaseURL)
	if err != nil {
		logger.Fatal("directory db connect", zap.Error(err))
	}
	defer directoryPool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := db.Ping(ctx, directoryPool); err != nil {
		logger.Fatal("directory db ping", zap.Error(err))
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, db.SetCredentials, logger); err != nil {
			logger.Fatal("credentials migrations", zap.Error(err))
		}
		if err := db.Migrate(ctx, directoryPool, db.SetDirectory, logger); err != nil {
			logger.Fatal("directory migrations", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	directoryRepo := repository.NewPgDirectoryRepository(directoryPool)

	limiter := service.NewLoginRateLimiter(cfg.LoginWindow, cfg.LoginMaxAttempts)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory login limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisLoginRateLimiter(redisClient, cfg.LoginWindow, cfg.LoginMaxAttempts)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	userSvc := service.NewUserService(logger, userRepo, directoryRepo, jwtSvc, limiter)

	if cfg.MSClientID == "" || cfg.MSRedirectURI == "" {
		logger.Warn("microsoft oauth not fully configured")
	}
	provider := service.NewMicrosoftProvider(service.MicrosoftConfig{
		ClientID:     cfg.MSClientID,
		ClientSecret: cfg.MSClientSecret,
		RedirectURI:  cfg.MSRedirectURI,
		Tenant:       cfg.MSTenant,
		AuthURL:      cfg.MSAuthURL,
		TokenURL:     cfg.MSTokenURL,
		Timeout:      cfg.ExchangeTimeout,
	}, nil)
	roles := service.NewRoleResolver(cfg.StudentEmailDomain, cfg.TeacherEmailDomain)
	oauthSvc := service.NewOAuthService(logger, provider, userSvc, roles)

	router := apihttp.NewRouter(
		logger,
		jwtSvc,
		apihttp.NewAuthHandler(logger, userSvc, oauthSvc),
		apihttp.NewUserHandler(logger, userSvc),
		apihttp.NewHealthHandler(logger, map[string]apihttp.Pinger{
			"credentials": pool,
			"directory":   directoryPool,
		}),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
