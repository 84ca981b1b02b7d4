package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Error matching
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Shutdown deadline

	"opportunity_hub/internal/api"        // Custom package for API handlers
	"opportunity_hub/internal/auth"       // Token issuing and verification
	"opportunity_hub/internal/cache"      // Redis listing cache
	"opportunity_hub/internal/config"     // Custom package for configuration
	"opportunity_hub/internal/middleware" // Custom package for middleware
	"opportunity_hub/internal/service"    // Business rules
	"opportunity_hub/internal/store"      // Persistence

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Connect to the configured store
	st, err := store.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	defer st.Close()

	// Redis is optional: without it lists are not cached and limits are per process
	var redisClient *redis.Client
	var limiter middleware.Limiter = middleware.NewLocalLimiter()
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logrus.WithField("error", err.Error()).Warn("Redis unreachable, running without cache")
			redisClient.Close()
			redisClient = nil
		} else {
			limiter = middleware.NewRedisLimiter(redisClient)
			defer redisClient.Close()
		}
	}
	listCache := cache.New(redisClient, cfg.CacheTTL)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	r, err := api.NewRouter(api.Deps{
		Accounts:     service.NewAccountService(st, listCache, tokens),
		Profiles:     service.NewProfileService(st, listCache),
		Listings:     service.NewListingService(st, listCache),
		Applications: service.NewApplicationService(st),
		Verifier:     tokens,
		Limiter:      limiter,
		RateWindow:   cfg.RateWindow,
		ApplyLimit:   cfg.ApplyRateLimit,
		LoginLimit:   cfg.LoginRateLimit,
		TrustedProxy: []string{"127.0.0.1"},
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.WithFields(logrus.Fields{"port": cfg.AppPort, "driver": cfg.DBDriver}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done() // Wait for SIGINT or SIGTERM
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithField("error", err.Error()).Error("Graceful shutdown failed")
	}
}
