package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"foodgram-backend/pkg/container"
	"foodgram-backend/pkg/logger"
)

// startServices chạy health check lúc khởi động rồi mở health endpoint
func startServices(c *container.Container) (*http.Server, error) {
	log.Info().Str("service", "foodgram-worker").Msg("Worker starting health checks")

	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"Redis Connection", func(ctx context.Context) error {
			if c.Redis == nil {
				return errors.New("redis is required for the worker")
			}
			return c.Redis.Ping(ctx)
		}},
		{"Database", func(ctx context.Context) error { return c.DB.HealthCheck(ctx) }},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Health check OK")
	}

	srv := &http.Server{
		Addr:              ":" + c.Config.Worker.HealthPort,
		Handler:           healthRouter(c),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", c.Config.Worker.HealthPort).Msg("Health server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health server failed", err)
		}
	}()
	return srv, nil
}

func healthRouter(c *container.Container) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "foodgram-worker"})
	})

	// readiness: Redis còn sống thì worker mới nhận được task
	router.GET("/ready", func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.Redis.Ping(pingCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "READY"})
	})
	return router
}
