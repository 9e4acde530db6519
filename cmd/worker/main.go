package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evaluation/internal/config"
	"evaluation/internal/leaderboard"
	"evaluation/internal/metrics"
	"evaluation/internal/queue"
	"evaluation/internal/store"
)

// Worker consumes committed rosters from redis and keeps the shared
// leaderboard cache current.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.QueueBackend != "redis" || cfg.CacheBackend != "redis" {
		log.Fatalf("worker needs QUEUE_BACKEND=redis and CACHE_BACKEND=redis, got %s/%s", cfg.QueueBackend, cfg.CacheBackend)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		log.Fatalf("redis: %v", err)
	}

	q := queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	cache := leaderboard.NewRedis(redisClient.Client, cfg.CacheKey, cfg.CacheTTL)
	m := metrics.New(prometheus.DefaultRegisterer)

	metricsSrv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: promhttp.Handler(), ReadTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server: %v", err)
		}
	}()

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for commits...")
	leaderboard.NewRefresher(cache, m).Run(ctx, messages)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Println("worker stopped")
}
