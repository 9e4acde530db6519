// Package scoring turns raw daily records into category scores, a weighted
// summary score and class rankings. Every function is pure and total over
// well-formed input; range checks happen when records are edited, not here.
package scoring

import (
	"math"

	"evaluation/internal/roster"
)

// Default scores used when a category has nothing to measure yet.
const (
	NoMeetingsAttendanceScore    = 100
	NoMeetingsProactivenessScore = 50
	NoTasksScore                 = 100

	ProactiveScore = 100
	PassiveScore   = 50
)

// AttendanceTotals counts records per status.
type AttendanceTotals struct {
	Present   int `json:"hadir"`
	Excused   int `json:"izin"`
	Sick      int `json:"sakit"`
	Unexcused int `json:"tanpa_keterangan"`
}

// Total is the number of meetings counted.
func (t AttendanceTotals) Total() int {
	return t.Present + t.Excused + t.Sick + t.Unexcused
}

// AggregateAttendance counts each status across records.
func AggregateAttendance(records []roster.DailyAttendance) AttendanceTotals {
	var t AttendanceTotals
	for _, r := range records {
		switch r.Status {
		case roster.Present:
			t.Present++
		case roster.Excused:
			t.Excused++
		case roster.Sick:
			t.Sick++
		case roster.Unexcused:
			t.Unexcused++
		}
	}
	return t
}

// AttendanceScore is the rounded percentage of meetings attended.
// No meetings yet scores 100.
func AttendanceScore(records []roster.DailyAttendance) int {
	total := len(records)
	if total == 0 {
		return NoMeetingsAttendanceScore
	}
	return percent(AggregateAttendance(records).Present, total)
}

// ExamScore is the rounded mean of the four exam entries.
func ExamScore(e roster.Exams) int {
	sum := e.Mid1.Score + e.Final1.Score + e.Mid2.Score + e.Final2.Score
	return round(float64(sum) / 4)
}

// ProactivenessTotals sums the three counters across records.
type ProactivenessTotals struct {
	Ask    int `json:"bertanya"`
	Answer int `json:"menjawab"`
	Add    int `json:"menambahkan"`
}

// Actions is the sum of all three counters.
func (t ProactivenessTotals) Actions() int {
	return t.Ask + t.Answer + t.Add
}

// AggregateProactiveness sums each counter across records.
func AggregateProactiveness(records []roster.DailyProactiveness) ProactivenessTotals {
	var t ProactivenessTotals
	for _, r := range records {
		t.Ask += r.Ask
		t.Answer += r.Answer
		t.Add += r.Add
	}
	return t
}

// ProactivenessScore is a threshold score: more actions than meetings scores
// ProactiveScore, anything else PassiveScore. Zero meetings is neutral (50).
func ProactivenessScore(records []roster.DailyProactiveness, totalMeetings int) int {
	if totalMeetings == 0 {
		return NoMeetingsProactivenessScore
	}
	if AggregateProactiveness(records).Actions() > totalMeetings {
		return ProactiveScore
	}
	return PassiveScore
}

// TaskTotals sums completed and assigned tasks.
type TaskTotals struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Incomplete is the number of assigned tasks not completed.
func (t TaskTotals) Incomplete() int {
	return t.Total - t.Completed
}

// AggregateTasks sums completed and total counts across records.
func AggregateTasks(records []roster.DailyTask) TaskTotals {
	var t TaskTotals
	for _, r := range records {
		t.Completed += r.Completed
		t.Total += r.Total
	}
	return t
}

// TaskScore is the rounded completion percentage. No tasks assigned scores 100.
func TaskScore(records []roster.DailyTask) int {
	t := AggregateTasks(records)
	if t.Total == 0 {
		return NoTasksScore
	}
	return percent(t.Completed, t.Total)
}

func percent(part, whole int) int {
	return round(float64(part) / float64(whole) * 100)
}

// round is half-up for the non-negative values scores are made of.
func round(x float64) int {
	return int(math.Round(x))
}
