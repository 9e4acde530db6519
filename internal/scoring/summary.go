package scoring

import (
	"cmp"
	"slices"

	"evaluation/internal/roster"
)

// Category weights of the summary score. They sum to 1.
const (
	AttendanceWeight    = 0.10
	ExamWeight          = 0.40
	ProactivenessWeight = 0.20
	TaskWeight          = 0.30
)

// Breakdown holds a student's four category scores and their weighted summary.
type Breakdown struct {
	Attendance    int `json:"attendance"`
	Exam          int `json:"exam"`
	Proactiveness int `json:"proactiveness"`
	Task          int `json:"task"`
	Summary       int `json:"summary"`
}

// CategoryScores scores every category of s. The number of meetings is the
// number of attendance records.
func CategoryScores(s roster.Student) Breakdown {
	b := Breakdown{
		Attendance:    AttendanceScore(s.Attendance),
		Exam:          ExamScore(s.Exams),
		Proactiveness: ProactivenessScore(s.Proactiveness, len(s.Attendance)),
		Task:          TaskScore(s.Tasks),
	}
	b.Summary = weigh(b)
	return b
}

// SummaryScore is the weighted sum of the category scores, rounded once.
func SummaryScore(s roster.Student) int {
	return CategoryScores(s).Summary
}

func weigh(b Breakdown) int {
	sum := float64(b.Attendance)*AttendanceWeight +
		float64(b.Exam)*ExamWeight +
		float64(b.Proactiveness)*ProactivenessWeight +
		float64(b.Task)*TaskWeight
	return round(sum)
}

// Standing is one row of a ranking. Rankings are shown to every student, so
// it carries no NIM.
type Standing struct {
	Rank      int    `json:"rank"`
	StudentID int    `json:"student_id"`
	Name      string `json:"name"`
	Picture   string `json:"picture"`
	Score     int    `json:"score"`
}

// RankBy orders the roster by score descending and numbers the result from 1.
// Equal scores keep their roster order.
func RankBy(r roster.Roster, score func(roster.Student) int) []Standing {
	out := make([]Standing, len(r))
	for i, s := range r {
		out[i] = Standing{StudentID: s.ID, Name: s.Name, Picture: s.Picture, Score: score(s)}
	}
	slices.SortStableFunc(out, func(a, b Standing) int {
		return cmp.Compare(b.Score, a.Score)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Standings ranks the class by summary score.
func Standings(r roster.Roster) []Standing {
	return RankBy(r, SummaryScore)
}

// AttendanceStandings ranks the class by attendance score.
func AttendanceStandings(r roster.Roster) []Standing {
	return RankBy(r, func(s roster.Student) int { return AttendanceScore(s.Attendance) })
}

// Rank maps each student id to its 1-based position in Standings.
func Rank(r roster.Roster) map[int]int {
	ranks := make(map[int]int, len(r))
	for _, st := range Standings(r) {
		ranks[st.StudentID] = st.Rank
	}
	return ranks
}
