package scoring

import "evaluation/internal/roster"

// Identity is the student columns shared by every table row.
type Identity struct {
	StudentID int    `json:"student_id"`
	Name      string `json:"name"`
	NIM       string `json:"nim"`
}

func identity(s roster.Student) Identity {
	return Identity{StudentID: s.ID, Name: s.Name, NIM: s.NIM}
}

// AttendanceRow is the per-student attendance summary.
type AttendanceRow struct {
	Identity
	AttendanceTotals
	TotalMeetings int `json:"total_meetings"`
	Score         int `json:"score"`
}

// ExamRow lists a student's four exams and their average.
type ExamRow struct {
	Identity
	Exams   roster.Exams `json:"exams"`
	Average int          `json:"average"`
}

// ProactivenessRow is the per-student proactiveness summary.
type ProactivenessRow struct {
	Identity
	ProactivenessTotals
	TotalProactive int `json:"total_proactive"`
	TotalMeetings  int `json:"total_meetings"`
	Score          int `json:"score"`
}

// TaskRow is the per-student task summary.
type TaskRow struct {
	Identity
	TaskTotals
	Incomplete int `json:"incomplete"`
	Score      int `json:"score"`
}

// AttendanceTable summarizes attendance for every student.
func AttendanceTable(r roster.Roster) []AttendanceRow {
	rows := make([]AttendanceRow, len(r))
	for i, s := range r {
		rows[i] = AttendanceRow{
			Identity:         identity(s),
			AttendanceTotals: AggregateAttendance(s.Attendance),
			TotalMeetings:    len(s.Attendance),
			Score:            AttendanceScore(s.Attendance),
		}
	}
	return rows
}

// ExamTable lists exams for every student.
func ExamTable(r roster.Roster) []ExamRow {
	rows := make([]ExamRow, len(r))
	for i, s := range r {
		rows[i] = ExamRow{Identity: identity(s), Exams: s.Exams, Average: ExamScore(s.Exams)}
	}
	return rows
}

// ProactivenessTable summarizes proactiveness for every student.
func ProactivenessTable(r roster.Roster) []ProactivenessRow {
	rows := make([]ProactivenessRow, len(r))
	for i, s := range r {
		totals := AggregateProactiveness(s.Proactiveness)
		meetings := len(s.Attendance)
		rows[i] = ProactivenessRow{
			Identity:            identity(s),
			ProactivenessTotals: totals,
			TotalProactive:      totals.Actions(),
			TotalMeetings:       meetings,
			Score:               ProactivenessScore(s.Proactiveness, meetings),
		}
	}
	return rows
}

// TaskTable summarizes tasks for every student.
func TaskTable(r roster.Roster) []TaskRow {
	rows := make([]TaskRow, len(r))
	for i, s := range r {
		totals := AggregateTasks(s.Tasks)
		rows[i] = TaskRow{
			Identity:   identity(s),
			TaskTotals: totals,
			Incomplete: totals.Incomplete(),
			Score:      TaskScore(s.Tasks),
		}
	}
	return rows
}

// Daily views show one date's record per student, or a zero record with
// Recorded=false when nothing was entered for that date.

type DailyAttendanceRow struct {
	Identity
	roster.DailyAttendance
	Recorded bool `json:"recorded"`
}

type DailyProactivenessRow struct {
	Identity
	roster.DailyProactiveness
	Recorded bool `json:"recorded"`
}

type DailyTaskRow struct {
	Identity
	roster.DailyTask
	Recorded bool `json:"recorded"`
}

func recordOn[T roster.Dated](records []T, date roster.Date) (T, bool) {
	for _, r := range records {
		if r.Day() == date {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// AttendanceOn returns every student's attendance on date.
func AttendanceOn(r roster.Roster, date roster.Date) []DailyAttendanceRow {
	rows := make([]DailyAttendanceRow, len(r))
	for i, s := range r {
		rec, ok := recordOn(s.Attendance, date)
		rec.Date = date
		rows[i] = DailyAttendanceRow{Identity: identity(s), DailyAttendance: rec, Recorded: ok}
	}
	return rows
}

// ProactivenessOn returns every student's proactiveness counters on date.
func ProactivenessOn(r roster.Roster, date roster.Date) []DailyProactivenessRow {
	rows := make([]DailyProactivenessRow, len(r))
	for i, s := range r {
		rec, ok := recordOn(s.Proactiveness, date)
		rec.Date = date
		rows[i] = DailyProactivenessRow{Identity: identity(s), DailyProactiveness: rec, Recorded: ok}
	}
	return rows
}

// TaskOn returns every student's task record on date.
func TaskOn(r roster.Roster, date roster.Date) []DailyTaskRow {
	rows := make([]DailyTaskRow, len(r))
	for i, s := range r {
		rec, ok := recordOn(s.Tasks, date)
		rec.Date = date
		rows[i] = DailyTaskRow{Identity: identity(s), DailyTask: rec, Recorded: ok}
	}
	return rows
}

// Profile is the dashboard card of one student.
type Profile struct {
	Identity
	Picture       string              `json:"picture"`
	Rank          int                 `json:"rank"`
	ClassSize     int                 `json:"class_size"`
	Scores        Breakdown           `json:"scores"`
	Attendance    AttendanceTotals    `json:"attendance"`
	Exams         roster.Exams        `json:"exams"`
	Proactiveness ProactivenessTotals `json:"proactiveness"`
	Tasks         TaskTotals          `json:"tasks"`
}

// StudentProfile builds the dashboard card for the student with id.
func StudentProfile(r roster.Roster, id int) (Profile, bool) {
	s, ok := r.Find(id)
	if !ok {
		return Profile{}, false
	}
	return Profile{
		Identity:      identity(s),
		Picture:       s.Picture,
		Rank:          Rank(r)[id],
		ClassSize:     len(r),
		Scores:        CategoryScores(s),
		Attendance:    AggregateAttendance(s.Attendance),
		Exams:         s.Exams,
		Proactiveness: AggregateProactiveness(s.Proactiveness),
		Tasks:         AggregateTasks(s.Tasks),
	}, true
}
