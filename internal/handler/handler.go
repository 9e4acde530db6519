package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"evaluation/internal/auth"
	"evaluation/internal/editor"
	"evaluation/internal/leaderboard"
	"evaluation/internal/metrics"
	"evaluation/internal/roster"
	"evaluation/internal/scoring"
	"evaluation/internal/session"
	"evaluation/internal/store"
)

// Options configures token issuing and verification.
type Options struct {
	JWTIssuer     string
	JWTSigningKey string
	AccessTTL     time.Duration
}

type Handler struct {
	sess    *session.Session
	board   leaderboard.Cache // nil computes rankings on every request
	metrics *metrics.Metrics  // nil disables instrumentation
	redis   *store.Redis      // nil when no backend uses redis
	opts    Options
}

func New(sess *session.Session, board leaderboard.Cache, m *metrics.Metrics, redis *store.Redis, opts Options) *Handler {
	return &Handler{sess: sess, board: board, metrics: m, redis: redis, opts: opts}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/v1")
	v1.POST("/login", h.Login)

	authed := v1.Group("", auth.RequireAuth(h.opts.JWTSigningKey, h.opts.JWTIssuer))
	{
		authed.GET("/students", h.ListStudents)
		authed.GET("/students/:id/profile", h.Profile)
		authed.GET("/rankings", h.Rankings)
		authed.GET("/rankings/attendance", h.AttendanceRankings)
		authed.GET("/attendance", h.categoryTable(categoryAttendance))
		authed.GET("/proactiveness", h.categoryTable(categoryProactiveness))
		authed.GET("/tasks", h.categoryTable(categoryTasks))
		authed.GET("/exams", h.categoryTable(categoryExams))
	}

	drafts := authed.Group("/drafts", auth.RequireRole(session.RoleTeacher))
	{
		drafts.POST("", h.BeginDraft)
		drafts.DELETE("/:id", h.DiscardDraft)
		drafts.GET("/:id/:category", h.PreviewDraft)
		drafts.PUT("/:id/attendance", h.EditAttendance)
		drafts.PUT("/:id/proactiveness", h.EditProactiveness)
		drafts.PUT("/:id/tasks", h.EditTask)
		drafts.PUT("/:id/exams", h.EditExam)
		drafts.POST("/:id/commit", h.CommitDraft)
	}
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	body := gin.H{"status": "ok", "version": h.sess.Version()}
	status := http.StatusOK
	if h.redis != nil {
		healthy := h.redis.Healthy(c.Request.Context())
		body["redis"] = healthy
		if !healthy {
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, body)
}

// ---------- Login ----------

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.sess.Login(req.Username, req.Password)
	if h.metrics != nil {
		role := string(user.Role)
		if role == "" {
			role = "unknown"
		}
		h.metrics.Logins.WithLabelValues(role, metrics.Result(err)).Inc()
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := auth.Issue(user, h.opts.JWTIssuer, h.opts.JWTSigningKey, h.opts.AccessTTL)
	if err != nil {
		log.Printf("token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token.AccessToken,
		"expires_at":   token.ExpiresAt.Unix(),
		"user":         user,
	})
}

// ---------- Students ----------

// visible narrows r to what the caller may read.
func visible(c *gin.Context, r roster.Roster) roster.Roster {
	claims, _ := auth.ClaimsFrom(c)
	if claims.Role == session.RoleTeacher {
		return r
	}
	if s, ok := r.Find(claims.StudentID); ok && claims.CanRead(s.ID) {
		return roster.Roster{s}
	}
	return roster.Roster{}
}

func (h *Handler) ListStudents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":  h.sess.Version(),
		"students": visible(c, h.sess.Roster()),
	})
}

func (h *Handler) Profile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}
	claims, _ := auth.ClaimsFrom(c)
	if !claims.CanRead(id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	p, ok := scoring.StudentProfile(h.sess.Roster(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ---------- Rankings ----------

// currentBoard serves the cached board when it ranks the canonical roster
// version, otherwise the ranking is computed on the spot.
func (h *Handler) currentBoard(ctx context.Context) leaderboard.Board {
	if h.board != nil {
		b, err := h.board.Load(ctx)
		switch {
		case err == nil && b.SessionID == h.sess.ID() && b.Version == h.sess.Version():
			return b
		case err != nil && !errors.Is(err, leaderboard.ErrEmpty):
			log.Printf("leaderboard cache: %v", err)
		}
	}
	version, r := h.sess.Snapshot()
	return leaderboard.Compute(h.sess.ID(), version, r)
}

func (h *Handler) Rankings(c *gin.Context) {
	b := h.currentBoard(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"version": b.Version, "computed_at": b.ComputedAt, "rankings": b.Standings})
}

func (h *Handler) AttendanceRankings(c *gin.Context) {
	b := h.currentBoard(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"version": b.Version, "computed_at": b.ComputedAt, "rankings": b.Attendance})
}

// ---------- Category tables ----------

func (h *Handler) categoryTable(category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := view(category, visible(c, h.sess.Roster()), c.Query("date"))
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"version": h.sess.Version(), "rows": rows})
	}
}

// fail maps core errors to HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrDraftNotFound), errors.Is(err, editor.ErrStudentNotFound), errors.Is(err, errNoView):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, editor.ErrInvalidField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
