package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SeedConfig shapes the fixture roster a session starts with.
type SeedConfig struct {
	Students int  // total students, including the three named ones
	Days     int  // attendance days per student, ending at Today
	Today    Date // last meeting day; zero means the current day
}

// DefaultSeed is the 35 x 16 class the dashboard ships with.
func DefaultSeed() SeedConfig {
	return SeedConfig{Students: 35, Days: 16}
}

type action struct{ day, ask, answer, add int }

type task struct{ day, completed, total int }

var fixedExamDates = [4]Date{
	{2023, time.September, 15},
	{2023, time.October, 20},
	{2023, time.November, 15},
	{2023, time.December, 20},
}

// Seed builds the initial roster. Day indexes count from the first meeting (0)
// to the last (Days-1 == Today).
func Seed(cfg SeedConfig) Roster {
	if cfg.Today.IsZero() {
		cfg.Today = DateOf(time.Now())
	}
	if cfg.Days <= 0 {
		cfg.Days = DefaultSeed().Days
	}

	g := generator{cfg: cfg}
	named := []Student{
		{
			ID: 1, Name: "Budi Santoso", NIM: "12345", Picture: pictureURL("budi"),
			Attendance:    g.attendance([]int{5}, []int{10}, nil),
			Exams:         exams(85, 90, 88, 92),
			Proactiveness: g.proactiveness(action{2, 2, 1, 0}, action{8, 1, 2, 1}),
			Tasks:         g.tasks(task{7, 4, 5}, task{14, 5, 5}),
		},
		{
			ID: 2, Name: "Citra Lestari", NIM: "67890", Picture: pictureURL("citra"),
			Attendance:    g.attendance(nil, nil, nil),
			Exams:         exams(92, 95, 90, 98),
			Proactiveness: g.proactiveness(action{3, 3, 2, 1}, action{9, 2, 3, 1}),
			Tasks:         g.tasks(task{7, 5, 5}, task{14, 5, 5}),
		},
		{
			ID: 3, Name: "Dewi Anggraini", NIM: "54321", Picture: pictureURL("dewi"),
			Attendance:    g.attendance([]int{2, 3}, []int{8, 9}, nil),
			Exams:         exams(78, 80, 82, 85),
			Proactiveness: g.proactiveness(action{5, 1, 1, 0}),
			Tasks:         g.tasks(task{7, 3, 5}, task{14, 5, 5}),
		},
	}

	out := make(Roster, 0, max(cfg.Students, 0))
	for i := 0; i < len(named) && i < cfg.Students; i++ {
		out = append(out, named[i])
	}
	for id := len(named) + 1; id <= cfg.Students; id++ {
		name := "Student " + strconv.Itoa(id)
		out = append(out, Student{
			ID:            id,
			Name:          name,
			NIM:           strconv.Itoa(12345 + id - 1),
			Picture:       pictureURL(name),
			Attendance:    g.attendance([]int{id % 5}, []int{id % 8}, nil),
			Exams:         exams(70+id%30, 72+id%28, 71+id%29, 73+id%27),
			Proactiveness: g.proactiveness(action{id % 10, 1, 0, 0}),
			Tasks:         g.tasks(task{7, 4, 5}, task{14, min(5, 3+id%3), 5}),
		})
	}
	return out
}

func pictureURL(seed string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/200", strings.ReplaceAll(seed, " ", ""))
}

func exams(mid1, final1, mid2, final2 int) Exams {
	return Exams{
		Mid1:   ExamEntry{Score: mid1, Date: fixedExamDates[0]},
		Final1: ExamEntry{Score: final1, Date: fixedExamDates[1]},
		Mid2:   ExamEntry{Score: mid2, Date: fixedExamDates[2]},
		Final2: ExamEntry{Score: final2, Date: fixedExamDates[3]},
	}
}

type generator struct {
	cfg SeedConfig
}

func (g generator) date(day int) Date {
	return g.cfg.Today.AddDays(day - (g.cfg.Days - 1))
}

// attendance marks every day Present except the listed day indexes.
// Later lists win when a day appears twice.
func (g generator) attendance(excused, sick, unexcused []int) []DailyAttendance {
	status := make(map[int]AttendanceStatus)
	for _, d := range excused {
		status[d] = Excused
	}
	for _, d := range sick {
		status[d] = Sick
	}
	for _, d := range unexcused {
		status[d] = Unexcused
	}

	records := make([]DailyAttendance, g.cfg.Days)
	for i := range records {
		st, ok := status[i]
		if !ok {
			st = Present
		}
		records[i] = DailyAttendance{Date: g.date(i), Status: st}
	}
	return records
}

func (g generator) proactiveness(actions ...action) []DailyProactiveness {
	records := make([]DailyProactiveness, 0, len(actions))
	for _, a := range actions {
		records = append(records, DailyProactiveness{Date: g.date(a.day), Ask: a.ask, Answer: a.answer, Add: a.add})
	}
	return records
}

func (g generator) tasks(tasks ...task) []DailyTask {
	records := make([]DailyTask, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, DailyTask{Date: g.date(t.day), Completed: t.completed, Total: t.total})
	}
	return records
}
