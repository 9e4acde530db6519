package editor

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaluation/internal/roster"
)

var day0 = roster.MustParseDate("2024-04-01")

func TestUpsertUpdatesInPlace(t *testing.T) {
	records := []roster.DailyAttendance{
		{Date: day0, Status: roster.Present},
		{Date: day0.AddDays(1), Status: roster.Present},
	}
	got := Upsert(records, day0.AddDays(1), newAttendance, SetStatus(roster.Sick))

	require.Len(t, got, 2)
	assert.Equal(t, roster.Sick, got[1].Status)
	assert.Equal(t, roster.Present, records[1].Status, "input must not change")
}

func TestUpsertInsertsAndSorts(t *testing.T) {
	records := []roster.DailyTask{
		{Date: day0, Completed: 1, Total: 2},
		{Date: day0.AddDays(4), Completed: 3, Total: 3},
	}
	got := Upsert(records, day0.AddDays(2), newTask, SetTotal(5))

	require.Len(t, got, 3)
	assert.Equal(t, roster.DailyTask{Date: day0.AddDays(2), Total: 5}, got[1])
	assert.Len(t, records, 2)

	counters := Upsert(nil, day0, newProactiveness, SetCounter(Answer, 2))
	assert.Equal(t, []roster.DailyProactiveness{{Date: day0, Answer: 2}}, counters)
}

func TestUpsertIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		apply func([]roster.DailyProactiveness) []roster.DailyProactiveness
	}{
		{name: "existing date", apply: func(r []roster.DailyProactiveness) []roster.DailyProactiveness {
			return Upsert(r, day0, newProactiveness, SetCounter(Ask, 3))
		}},
		{name: "new date", apply: func(r []roster.DailyProactiveness) []roster.DailyProactiveness {
			return Upsert(r, day0.AddDays(-3), newProactiveness, SetCounter(Add, 1))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := []roster.DailyProactiveness{{Date: day0, Ask: 1}}
			once := tt.apply(base)
			assert.Equal(t, once, tt.apply(once))
		})
	}
}

func TestUpsertKeepsDatesStrictlyAscending(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var records []roster.DailyAttendance
	for i := 0; i < 200; i++ {
		d := day0.AddDays(rng.Intn(30) - 15)
		st := roster.Statuses[rng.Intn(len(roster.Statuses))]
		records = Upsert(records, d, newAttendance, SetStatus(st))
	}
	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].Date.Before(records[i].Date), "index %d", i)
	}
	s := roster.Student{ID: 1, Name: "A", NIM: "1", Attendance: records}
	assert.NoError(t, roster.Validate(roster.Roster{s}))
}

func TestTaskClamp(t *testing.T) {
	tests := []struct {
		name   string
		start  roster.DailyTask
		update func(*roster.DailyTask)
		want   roster.DailyTask
	}{
		{name: "total below completed", start: roster.DailyTask{Completed: 4, Total: 5}, update: SetTotal(2), want: roster.DailyTask{Completed: 2, Total: 2}},
		{name: "completed above total", start: roster.DailyTask{Completed: 1, Total: 3}, update: SetCompleted(9), want: roster.DailyTask{Completed: 3, Total: 3}},
		{name: "negative completed", start: roster.DailyTask{Completed: 1, Total: 3}, update: SetCompleted(-4), want: roster.DailyTask{Completed: 0, Total: 3}},
		{name: "negative total", start: roster.DailyTask{Completed: 1, Total: 3}, update: SetTotal(-1), want: roster.DailyTask{}},
		{name: "raise total", start: roster.DailyTask{Completed: 2, Total: 2}, update: SetTaskField(Total, 6), want: roster.DailyTask{Completed: 2, Total: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start
			tt.update(&got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCounterAndExamBounds(t *testing.T) {
	var r roster.DailyProactiveness
	SetCounter(Ask, -3)(&r)
	SetCounter(Add, 4)(&r)
	assert.Equal(t, roster.DailyProactiveness{Add: 4}, r)

	var e roster.Exams
	require.NoError(t, SetExamScore(&e, roster.Final1, 130))
	require.NoError(t, SetExamScore(&e, roster.Mid2, -5))
	assert.Equal(t, 100, e.Final1.Score)
	assert.Equal(t, 0, e.Mid2.Score)

	err := SetExamScore(&e, "quiz", 10)
	assert.True(t, errors.Is(err, ErrInvalidField))

	_, err = ParseCounter("ask")
	assert.ErrorIs(t, err, ErrInvalidField)
	c, err := ParseCounter("menjawab")
	require.NoError(t, err)
	assert.Equal(t, Answer, c)
	_, err = ParseTaskField("incomplete")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func classOfTwo() roster.Roster {
	return roster.Roster{
		{ID: 1, Name: "A", NIM: "1", Attendance: []roster.DailyAttendance{{Date: day0, Status: roster.Present}}},
		{ID: 2, Name: "B", NIM: "2"},
	}
}

func TestDraftIsolation(t *testing.T) {
	canonical := classOfTwo()
	d := Begin(canonical)
	assert.False(t, d.Dirty())

	require.NoError(t, d.EditAttendance(1, day0, roster.Unexcused))
	require.NoError(t, d.EditProactiveness(2, day0, Ask, 2))
	require.NoError(t, d.EditTask(2, day0, Total, 4))
	require.NoError(t, d.EditTask(2, day0, Completed, 3))
	assert.True(t, d.Dirty())

	assert.Equal(t, roster.Present, canonical[0].Attendance[0].Status)
	assert.Empty(t, canonical[1].Proactiveness)

	preview := d.Students()
	preview[0].Attendance[0].Status = roster.Sick
	assert.Equal(t, roster.Unexcused, d.Students()[0].Attendance[0].Status, "preview is a copy")

	committed := d.Commit()
	assert.False(t, d.Dirty())
	assert.Equal(t, roster.DailyTask{Date: day0, Completed: 3, Total: 4}, committed[1].Tasks[0])

	require.NoError(t, d.EditAttendance(1, day0, roster.Present))
	assert.Equal(t, roster.Unexcused, committed[0].Attendance[0].Status, "commit result must not alias the draft")
}

func TestDraftErrors(t *testing.T) {
	d := Begin(classOfTwo())

	tests := []struct {
		name string
		edit func() error
		want error
	}{
		{name: "unknown student", edit: func() error { return d.EditAttendance(9, day0, roster.Present) }, want: ErrStudentNotFound},
		{name: "bad status", edit: func() error { return d.EditAttendance(1, day0, "Bolos") }, want: ErrInvalidField},
		{name: "bad counter", edit: func() error { return d.EditProactiveness(1, day0, "shout", 1) }, want: ErrInvalidField},
		{name: "bad task field", edit: func() error { return d.EditTask(1, day0, "left", 1) }, want: ErrInvalidField},
		{name: "bad slot", edit: func() error { return d.EditExam(1, "quiz", ExamEdit{}) }, want: ErrInvalidField},
		{name: "exam unknown student", edit: func() error { return d.EditExam(3, roster.Mid1, ExamEdit{}) }, want: ErrStudentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.edit(), tt.want)
		})
	}
	assert.False(t, d.Dirty())
}

func TestDraftEditExam(t *testing.T) {
	d := Begin(classOfTwo())
	score := 150
	date := roster.MustParseDate("2024-06-10")

	require.NoError(t, d.EditExam(2, roster.Final2, ExamEdit{Score: &score, Date: &date}))
	got := d.Students()[1].Exams.Final2
	assert.Equal(t, roster.ExamEntry{Score: 100, Date: date}, got)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"12", 12},
		{" 7 ", 7},
		{"-3", -3},
		{"+4", 4},
		{"4.9", 4},
		{"1e3", 1},
		{"12abc", 12},
		{"abc", 0},
		{"-", 0},
		{"99999999999999999999999", int(^uint(0) >> 1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCount(tt.in))
		})
	}
}

func TestInputUnmarshal(t *testing.T) {
	var v struct {
		A Input `json:"a"`
		B Input `json:"b"`
		C Input `json:"c"`
		D Input `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 5, "b": "8", "c": "x", "d": null}`), &v))
	assert.Equal(t, 5, v.A.Int())
	assert.Equal(t, 8, v.B.Int())
	assert.Equal(t, 0, v.C.Int())
	assert.Equal(t, 0, v.D.Int())

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}
