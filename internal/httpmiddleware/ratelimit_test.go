package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTokenBucketAllow(t *testing.T) {
	now := time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)
	l := NewTokenBucket(2, 60)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("a")
	assert.True(t, ok)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
	ok, wait := l.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	ok, _ = l.Allow("b")
	assert.True(t, ok, "buckets are per key")

	now = now.Add(500 * time.Millisecond)
	ok, _ = l.Allow("a")
	assert.False(t, ok)

	now = now.Add(600 * time.Millisecond)
	ok, _ = l.Allow("a")
	assert.True(t, ok)

	now = now.Add(time.Hour)
	for i := 0; i < 2; i++ {
		ok, _ = l.Allow("a")
		assert.True(t, ok)
	}
	ok, _ = l.Allow("a")
	assert.False(t, ok, "refill is capped at capacity")
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		perMinute int
		want      []int
	}{
		{name: "limited", perMinute: 1, want: []int{http.StatusOK, http.StatusTooManyRequests}},
		{name: "disabled", perMinute: 0, want: []int{http.StatusOK, http.StatusOK, http.StatusOK}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(NewTokenBucket(1, tt.perMinute).Middleware())
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			for i, want := range tt.want {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
				assert.Equal(t, want, w.Code, "request %d", i)
				if want == http.StatusTooManyRequests {
					assert.Equal(t, "60", w.Header().Get("Retry-After"))
				}
			}
		})
	}
}
