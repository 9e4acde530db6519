// Package editor applies teacher edits to daily records. Every edit produces
// new record slices; the canonical roster is only replaced through Draft.Commit.
package editor

import (
	"slices"

	"github.com/pkg/errors"

	"evaluation/internal/roster"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidField    = errors.New("invalid field")
)

// Upsert returns a copy of records with update applied to the record dated
// date. When no record has that date, zero(date) is appended, updated, and the
// result re-sorted ascending by date. records itself is never modified.
func Upsert[T roster.Dated](records []T, date roster.Date, zero func(roster.Date) T, update func(*T)) []T {
	out := slices.Clone(records)
	if i := slices.IndexFunc(out, func(r T) bool { return r.Day() == date }); i >= 0 {
		update(&out[i])
		return out
	}
	rec := zero(date)
	update(&rec)
	out = append(out, rec)
	slices.SortStableFunc(out, func(a, b T) int { return a.Day().Compare(b.Day()) })
	return out
}

func newAttendance(d roster.Date) roster.DailyAttendance {
	return roster.DailyAttendance{Date: d}
}

func newProactiveness(d roster.Date) roster.DailyProactiveness {
	return roster.DailyProactiveness{Date: d}
}

func newTask(d roster.Date) roster.DailyTask {
	return roster.DailyTask{Date: d}
}

// SetStatus replaces an attendance record's status.
func SetStatus(status roster.AttendanceStatus) func(*roster.DailyAttendance) {
	return func(r *roster.DailyAttendance) { r.Status = status }
}

// Counter names one of the three proactiveness counters.
type Counter string

const (
	Ask    Counter = "bertanya"
	Answer Counter = "menjawab"
	Add    Counter = "menambahkan"
)

// ParseCounter accepts the counter's JSON name.
func ParseCounter(s string) (Counter, error) {
	switch c := Counter(s); c {
	case Ask, Answer, Add:
		return c, nil
	}
	return "", errors.Wrapf(ErrInvalidField, "proactiveness counter %q", s)
}

// SetCounter sets one counter. Negative values become 0.
func SetCounter(field Counter, n int) func(*roster.DailyProactiveness) {
	n = max(n, 0)
	return func(r *roster.DailyProactiveness) {
		switch field {
		case Ask:
			r.Ask = n
		case Answer:
			r.Answer = n
		case Add:
			r.Add = n
		}
	}
}

// TaskField names an editable task count.
type TaskField string

const (
	Completed TaskField = "completed"
	Total     TaskField = "total"
)

// ParseTaskField accepts "completed" or "total".
func ParseTaskField(s string) (TaskField, error) {
	switch f := TaskField(s); f {
	case Completed, Total:
		return f, nil
	}
	return "", errors.Wrapf(ErrInvalidField, "task field %q", s)
}

// SetCompleted sets the completed count, clamped to [0, total].
func SetCompleted(n int) func(*roster.DailyTask) {
	return func(r *roster.DailyTask) {
		r.Completed = min(max(n, 0), r.Total)
	}
}

// SetTotal sets the total count. Completed is pulled down when it would
// exceed the new total.
func SetTotal(n int) func(*roster.DailyTask) {
	return func(r *roster.DailyTask) {
		r.Total = max(n, 0)
		r.Completed = min(r.Completed, r.Total)
	}
}

// SetTaskField dispatches to SetCompleted or SetTotal.
func SetTaskField(field TaskField, n int) func(*roster.DailyTask) {
	if field == Total {
		return SetTotal(n)
	}
	return SetCompleted(n)
}

// Exam score bounds.
const (
	MinExamScore = 0
	MaxExamScore = 100
)

// SetExamScore sets the score in slot, clamped to [MinExamScore, MaxExamScore].
func SetExamScore(e *roster.Exams, slot roster.ExamSlot, score int) error {
	entry, ok := e.Entry(slot)
	if !ok {
		return errors.Wrapf(ErrInvalidField, "exam slot %q", slot)
	}
	entry.Score = min(max(score, MinExamScore), MaxExamScore)
	e.SetEntry(slot, entry)
	return nil
}

// SetExamDate sets the date of the exam in slot.
func SetExamDate(e *roster.Exams, slot roster.ExamSlot, date roster.Date) error {
	entry, ok := e.Entry(slot)
	if !ok {
		return errors.Wrapf(ErrInvalidField, "exam slot %q", slot)
	}
	entry.Date = date
	e.SetEntry(slot, entry)
	return nil
}
