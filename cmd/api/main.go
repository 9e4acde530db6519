package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evaluation/internal/config"
	"evaluation/internal/handler"
	"evaluation/internal/httpmiddleware"
	"evaluation/internal/leaderboard"
	"evaluation/internal/metrics"
	"evaluation/internal/queue"
	"evaluation/internal/session"
	"evaluation/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var redisClient *store.Redis
	if cfg.QueueBackend == "redis" || cfg.CacheBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx); err != nil {
			log.Printf("warning: %v", err)
		}
	}

	var q queue.Queue
	if cfg.QueueBackend == "redis" {
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	} else {
		q = queue.NewInMemory(64)
	}

	var cache leaderboard.Cache
	if cfg.CacheBackend == "redis" {
		cache = leaderboard.NewRedis(redisClient.Client, cfg.CacheKey, cfg.CacheTTL)
	} else {
		cache = leaderboard.NewMemory()
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	sess := session.New(cfg.Session())
	sess.OnCommit(leaderboard.NewPublisher(q).Publish)
	log.Printf("session seeded with %d students", len(sess.Roster()))

	// With an in-memory queue nobody else can consume commits, so the API
	// refreshes the leaderboard itself. A redis queue is left to cmd/worker.
	if cfg.QueueBackend != "redis" {
		messages, err := q.Consume(ctx)
		if err != nil {
			return err
		}
		go leaderboard.NewRefresher(cache, m).Run(ctx, messages)
	}
	version, current := sess.Snapshot()
	if err := cache.Store(ctx, leaderboard.Compute(sess.ID(), version, current)); err != nil {
		log.Printf("initial leaderboard: %v", err)
	}

	if cfg.DraftIdleTTL > 0 {
		go expireDrafts(ctx, sess, m, cfg.DraftIdleTTL)
	}

	h := handler.New(sess, cache, m, redisClient, handler.Options{
		JWTIssuer:     cfg.JWTIssuer,
		JWTSigningKey: cfg.JWTSigningKey,
		AccessTTL:     cfg.AccessTTL,
	})

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          24 * time.Hour,
	}))
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// expireDrafts drops drafts abandoned for longer than maxIdle.
func expireDrafts(ctx context.Context, sess *session.Session, m *metrics.Metrics, maxIdle time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sess.ExpireDrafts(maxIdle); n > 0 {
				log.Printf("expired %d idle drafts", n)
				m.OpenDrafts.Set(float64(sess.OpenDrafts()))
			}
		}
	}
}
