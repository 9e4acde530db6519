package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaluation/internal/roster"
)

func twoStudents() roster.Roster {
	return roster.Roster{
		{
			ID: 1, Name: "Ani", NIM: "100",
			Attendance:    attendance(roster.Present, roster.Sick, roster.Present),
			Exams:         exams(70, 80, 90, 100),
			Proactiveness: []roster.DailyProactiveness{{Date: day0.AddDays(1), Ask: 2, Answer: 1, Add: 1}},
			Tasks:         []roster.DailyTask{{Date: day0.AddDays(2), Completed: 1, Total: 2}},
		},
		{ID: 2, Name: "Bayu", NIM: "200"},
	}
}

func TestTables(t *testing.T) {
	r := twoStudents()

	att := AttendanceTable(r)
	require.Len(t, att, 2)
	assert.Equal(t, AttendanceTotals{Present: 2, Sick: 1}, att[0].AttendanceTotals)
	assert.Equal(t, 3, att[0].TotalMeetings)
	assert.Equal(t, 67, att[0].Score)
	assert.Equal(t, 100, att[1].Score)

	ex := ExamTable(r)
	assert.Equal(t, 85, ex[0].Average)
	assert.Equal(t, 0, ex[1].Average)

	pro := ProactivenessTable(r)
	assert.Equal(t, 4, pro[0].TotalProactive)
	assert.Equal(t, 100, pro[0].Score)
	assert.Equal(t, 50, pro[1].Score)

	tasks := TaskTable(r)
	assert.Equal(t, 1, tasks[0].Incomplete)
	assert.Equal(t, 50, tasks[0].Score)
	assert.Equal(t, 100, tasks[1].Score)
}

func TestDailyViews(t *testing.T) {
	r := twoStudents()

	rows := AttendanceOn(r, day0.AddDays(1))
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Recorded)
	assert.Equal(t, roster.Sick, rows[0].Status)
	assert.False(t, rows[1].Recorded)
	assert.Equal(t, day0.AddDays(1), rows[1].Date)
	assert.Equal(t, roster.AttendanceStatus(""), rows[1].Status)

	pro := ProactivenessOn(r, day0.AddDays(1))
	assert.Equal(t, 2, pro[0].Ask)
	assert.False(t, ProactivenessOn(r, day0)[0].Recorded)

	tasks := TaskOn(r, day0.AddDays(2))
	assert.True(t, tasks[0].Recorded)
	assert.Equal(t, 2, tasks[0].Total)
	assert.Equal(t, 0, tasks[1].Total)

	b, err := json.Marshal(tasks[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"student_id":2,"name":"Bayu","nim":"200","date":"2024-03-03","completed":0,"total":0,"recorded":false}`, string(b))
}

func TestStudentProfile(t *testing.T) {
	r := twoStudents()

	p, ok := StudentProfile(r, 1)
	require.True(t, ok)
	assert.Equal(t, "Ani", p.Name)
	assert.Equal(t, 2, p.ClassSize)
	assert.Equal(t, CategoryScores(r[0]), p.Scores)
	assert.Equal(t, 7, p.Attendance.Total()+p.Proactiveness.Actions())

	// Ani: 6.7 + 34 + 20 + 15 = 75.7; Bayu: 10 + 0 + 10 + 30 = 50
	assert.Equal(t, 76, p.Scores.Summary)
	assert.Equal(t, 1, p.Rank)

	_, ok = StudentProfile(r, 99)
	assert.False(t, ok)
}
