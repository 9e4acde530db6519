package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evaluation/internal/editor"
	"evaluation/internal/metrics"
	"evaluation/internal/roster"
	"evaluation/internal/scoring"
)

// ---------- Draft lifecycle ----------

func (h *Handler) trackDrafts() {
	if h.metrics != nil {
		h.metrics.OpenDrafts.Set(float64(h.sess.OpenDrafts()))
	}
}

func (h *Handler) BeginDraft(c *gin.Context) {
	id := h.sess.BeginDraft()
	h.trackDrafts()
	c.JSON(http.StatusCreated, gin.H{"draft_id": id, "base_version": h.sess.Version()})
}

func (h *Handler) DiscardDraft(c *gin.Context) {
	if err := h.sess.Discard(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.trackDrafts()
	c.Status(http.StatusNoContent)
}

func (h *Handler) CommitDraft(c *gin.Context) {
	committed, err := h.sess.Commit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.Commits.Inc()
	}
	h.trackDrafts()
	c.JSON(http.StatusOK, gin.H{"version": committed.Version, "committed_at": committed.At})
}

// PreviewDraft renders a category, or the class ranking, over the draft.
func (h *Handler) PreviewDraft(c *gin.Context) {
	r, err := h.sess.Preview(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rows, err := view(c.Param("category"), r, c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft_id": c.Param("id"), "rows": rows})
}

// ---------- Draft edits ----------

type editedStudent struct {
	Student roster.Student    `json:"student"`
	Scores  scoring.Breakdown `json:"scores"`
}

// edit applies fn to draft id and answers with the edited student's new
// state so the form can show live scores.
func (h *Handler) edit(c *gin.Context, category string, studentID int, fn func(*editor.Draft) error) {
	var out editedStudent
	err := h.sess.Edit(c.Param("id"), func(d *editor.Draft) error {
		if err := fn(d); err != nil {
			return err
		}
		s, _ := d.Students().Find(studentID)
		out = editedStudent{Student: s, Scores: scoring.CategoryScores(s)}
		return nil
	})
	if h.metrics != nil {
		h.metrics.Edits.WithLabelValues(category, metrics.Result(err)).Inc()
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type attendanceEdit struct {
	StudentID int                     `json:"student_id" binding:"required"`
	Date      roster.Date             `json:"date"`
	Status    roster.AttendanceStatus `json:"status" binding:"required"`
}

func (h *Handler) EditAttendance(c *gin.Context) {
	var req attendanceEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	h.edit(c, categoryAttendance, req.StudentID, func(d *editor.Draft) error {
		return d.EditAttendance(req.StudentID, req.Date, req.Status)
	})
}

type counterEdit struct {
	StudentID int          `json:"student_id" binding:"required"`
	Date      roster.Date  `json:"date"`
	Field     string       `json:"field" binding:"required"`
	Value     editor.Input `json:"value"`
}

func (h *Handler) bindCounterEdit(c *gin.Context) (counterEdit, bool) {
	var req counterEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	if req.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return req, false
	}
	return req, true
}

func (h *Handler) EditProactiveness(c *gin.Context) {
	req, ok := h.bindCounterEdit(c)
	if !ok {
		return
	}
	h.edit(c, categoryProactiveness, req.StudentID, func(d *editor.Draft) error {
		return d.EditProactiveness(req.StudentID, req.Date, editor.Counter(req.Field), req.Value.Int())
	})
}

func (h *Handler) EditTask(c *gin.Context) {
	req, ok := h.bindCounterEdit(c)
	if !ok {
		return
	}
	h.edit(c, categoryTasks, req.StudentID, func(d *editor.Draft) error {
		return d.EditTask(req.StudentID, req.Date, editor.TaskField(req.Field), req.Value.Int())
	})
}

type examEdit struct {
	StudentID int             `json:"student_id" binding:"required"`
	Slot      roster.ExamSlot `json:"slot" binding:"required"`
	Score     *editor.Input   `json:"score"`
	Date      *roster.Date    `json:"date"`
}

func (h *Handler) EditExam(c *gin.Context) {
	var req examEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var change editor.ExamEdit
	if req.Score != nil {
		score := req.Score.Int()
		change.Score = &score
	}
	if req.Date != nil && !req.Date.IsZero() {
		change.Date = req.Date
	}
	h.edit(c, categoryExams, req.StudentID, func(d *editor.Draft) error {
		return d.EditExam(req.StudentID, req.Slot, change)
	})
}
