package config

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"evaluation/internal/roster"
	"evaluation/internal/session"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string        `validate:"required"`
	HTTPPort        string        `validate:"required,numeric"`
	RedisAddr       string        `validate:"required_if=QueueBackend redis,required_if=CacheBackend redis"`
	QueueBackend    string        `validate:"oneof=memory redis"`
	CacheBackend    string        `validate:"oneof=memory redis"`
	QueueKey        string        `validate:"required"`
	CacheKey        string        `validate:"required"`
	CacheTTL        time.Duration `validate:"gte=0"`
	JWTIssuer       string        `validate:"required"`
	JWTSigningKey   string        `validate:"required,min=8"`
	AccessTTL       time.Duration `validate:"gt=0"`
	RateLimitPerMin int           `validate:"gte=0"`
	TeacherUsername string        `validate:"required"`
	TeacherPassword string        `validate:"required"`
	DraftIdleTTL    time.Duration `validate:"gte=0"`
	SeedStudents    int           `validate:"gte=0"`
	SeedDays        int           `validate:"gt=0"`
	SeedToday       roster.Date
}

// Load returns application config populated from environment variables with
// sensible defaults. The given env files (default .env) are read first when
// present; real environment variables win over them.
func Load(envFiles ...string) App {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		log.Printf("ignoring .env: %v", err)
	}
	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		QueueBackend:    getEnv("QUEUE_BACKEND", "memory"),
		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		QueueKey:        getEnv("QUEUE_KEY", "evaluation:commits"),
		CacheKey:        getEnv("CACHE_KEY", "evaluation:leaderboard"),
		CacheTTL:        durationEnv("CACHE_TTL", 0),
		JWTIssuer:       getEnv("JWT_ISSUER", "evaluation-dashboard"),
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		AccessTTL:       durationEnv("ACCESS_TTL", 8*time.Hour),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		TeacherUsername: getEnv("TEACHER_USERNAME", "major"),
		TeacherPassword: getEnv("TEACHER_PASSWORD", "123456"),
		DraftIdleTTL:    durationEnv("DRAFT_IDLE_TTL", 2*time.Hour),
		SeedStudents:    intEnv("SEED_STUDENTS", 35),
		SeedDays:        intEnv("SEED_DAYS", 16),
		SeedToday:       dateEnv("SEED_TODAY"),
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks the loaded values. A redis queue is consumed by cmd/worker,
// which only writes a redis cache, so it needs CACHE_BACKEND=redis too.
func (a App) Validate() error {
	validateOnce.Do(func() { validate = validator.New() })
	if err := validate.Struct(a); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if a.QueueBackend == "redis" && a.CacheBackend != "redis" {
		return errors.New("invalid config: QUEUE_BACKEND=redis requires CACHE_BACKEND=redis")
	}
	return nil
}

// Production reports whether the app runs in a production environment.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

// Session is the session configuration derived from a.
func (a App) Session() session.Config {
	return session.Config{
		TeacherUsername: a.TeacherUsername,
		TeacherPassword: a.TeacherPassword,
		Seed: roster.SeedConfig{
			Students: a.SeedStudents,
			Days:     a.SeedDays,
			Today:    a.SeedToday,
		},
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

// dateEnv reads a YYYY-MM-DD date. Unset or invalid yields the zero date,
// which the seed treats as today.
func dateEnv(key string) roster.Date {
	val := os.Getenv(key)
	if val == "" {
		return roster.Date{}
	}
	d, err := roster.ParseDate(val)
	if err != nil {
		log.Printf("invalid date for %s: %v, using today", key, err)
		return roster.Date{}
	}
	return d
}
