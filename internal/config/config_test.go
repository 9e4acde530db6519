package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaluation/internal/roster"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), ".env"))

	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.QueueBackend)
	assert.Equal(t, "major", cfg.TeacherUsername)
	assert.Equal(t, "123456", cfg.TeacherPassword)
	assert.Equal(t, 35, cfg.SeedStudents)
	assert.Equal(t, 16, cfg.SeedDays)
	assert.True(t, cfg.SeedToday.IsZero())
	assert.Equal(t, 8*time.Hour, cfg.AccessTTL)
	assert.Equal(t, 2*time.Hour, cfg.DraftIdleTTL)
	assert.False(t, cfg.Production())
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("ACCESS_TTL", "30m")
	t.Setenv("SEED_STUDENTS", "5")
	t.Setenv("SEED_TODAY", "2024-05-20")
	t.Setenv("RATE_LIMIT_PER_MIN", "many")
	t.Setenv("APP_ENV", "prod")

	cfg := Load(filepath.Join(t.TempDir(), ".env"))
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin, "invalid int falls back")
	assert.True(t, cfg.Production())

	sc := cfg.Session()
	assert.Equal(t, roster.SeedConfig{Students: 5, Days: 16, Today: roster.MustParseDate("2024-05-20")}, sc.Seed)
	assert.Equal(t, "major", sc.TeacherUsername)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TEACHER_USERNAME=wali\nHTTP_PORT=7000\n"), 0o600))
	t.Setenv("HTTP_PORT", "7100")
	// godotenv sets variables for the whole process
	t.Cleanup(func() { _ = os.Unsetenv("TEACHER_USERNAME") })

	cfg := Load(filepath.Join(dir, ".env"))
	assert.Equal(t, "wali", cfg.TeacherUsername)
	assert.Equal(t, "7100", cfg.HTTPPort, "environment wins over .env")
}

func TestValidate(t *testing.T) {
	valid := func() App {
		return App{
			Env: "dev", HTTPPort: "8081", QueueBackend: "memory", CacheBackend: "memory",
			QueueKey: "q", CacheKey: "c", JWTIssuer: "iss", JWTSigningKey: "0123456789",
			AccessTTL: time.Hour, TeacherUsername: "major", TeacherPassword: "123456", SeedDays: 16,
		}
	}
	tests := []struct {
		name    string
		mutate  func(*App)
		wantErr bool
	}{
		{name: "valid", mutate: func(*App) {}},
		{name: "unknown queue", mutate: func(a *App) { a.QueueBackend = "kafka" }, wantErr: true},
		{name: "redis cache without addr", mutate: func(a *App) { a.CacheBackend = "redis" }, wantErr: true},
		{name: "redis queue and cache", mutate: func(a *App) {
			a.QueueBackend, a.CacheBackend, a.RedisAddr = "redis", "redis", "localhost:6379"
		}},
		{name: "redis queue with memory cache", mutate: func(a *App) { a.QueueBackend = "redis"; a.RedisAddr = "localhost:6379" }, wantErr: true},
		{name: "redis cache with memory queue", mutate: func(a *App) { a.CacheBackend = "redis"; a.RedisAddr = "localhost:6379" }},
		{name: "short key", mutate: func(a *App) { a.JWTSigningKey = "abc" }, wantErr: true},
		{name: "port not numeric", mutate: func(a *App) { a.HTTPPort = ":80" }, wantErr: true},
		{name: "no ttl", mutate: func(a *App) { a.AccessTTL = 0 }, wantErr: true},
		{name: "no seed days", mutate: func(a *App) { a.SeedDays = 0 }, wantErr: true},
		{name: "negative draft ttl", mutate: func(a *App) { a.DraftIdleTTL = -time.Minute }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
