package roster

import "slices"

// AttendanceStatus is the status recorded for one meeting.
type AttendanceStatus string

const (
	Present   AttendanceStatus = "Hadir"
	Excused   AttendanceStatus = "Izin"
	Sick      AttendanceStatus = "Sakit"
	Unexcused AttendanceStatus = "Tanpa Keterangan"
)

// Statuses lists every valid attendance status.
var Statuses = []AttendanceStatus{Present, Excused, Sick, Unexcused}

// Valid reports whether s is one of Statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case Present, Excused, Sick, Unexcused:
		return true
	}
	return false
}

// Dated is implemented by every per-day record.
type Dated interface {
	Day() Date
}

// DailyAttendance is one meeting's attendance.
type DailyAttendance struct {
	Date   Date             `json:"date"`
	Status AttendanceStatus `json:"status" validate:"oneof=Hadir Izin Sakit 'Tanpa Keterangan'"`
}

func (r DailyAttendance) Day() Date { return r.Date }

// DailyProactiveness counts a student's contributions during one meeting.
type DailyProactiveness struct {
	Date   Date `json:"date"`
	Ask    int  `json:"bertanya" validate:"gte=0"`
	Answer int  `json:"menjawab" validate:"gte=0"`
	Add    int  `json:"menambahkan" validate:"gte=0"`
}

func (r DailyProactiveness) Day() Date { return r.Date }

// DailyTask holds the tasks given and completed on one day.
type DailyTask struct {
	Date      Date `json:"date"`
	Completed int  `json:"completed" validate:"gte=0,ltefield=Total"`
	Total     int  `json:"total" validate:"gte=0"`
}

func (r DailyTask) Day() Date { return r.Date }

// ExamEntry is a single exam result.
type ExamEntry struct {
	Score int  `json:"score" validate:"gte=0,lte=100"`
	Date  Date `json:"date"`
}

// ExamSlot names one of the four fixed exam entries.
type ExamSlot string

const (
	Mid1   ExamSlot = "mid1"
	Final1 ExamSlot = "final1"
	Mid2   ExamSlot = "mid2"
	Final2 ExamSlot = "final2"
)

// ExamSlots lists the slots in display order.
var ExamSlots = []ExamSlot{Mid1, Final1, Mid2, Final2}

// Exams is the fixed exam record of a student.
type Exams struct {
	Mid1   ExamEntry `json:"mid1"`
	Final1 ExamEntry `json:"final1"`
	Mid2   ExamEntry `json:"mid2"`
	Final2 ExamEntry `json:"final2"`
}

// Entry returns the entry stored in slot.
func (e Exams) Entry(slot ExamSlot) (ExamEntry, bool) {
	p := e.slot(slot)
	if p == nil {
		return ExamEntry{}, false
	}
	return *p, true
}

// SetEntry replaces the entry in slot. It reports false for an unknown slot.
func (e *Exams) SetEntry(slot ExamSlot, entry ExamEntry) bool {
	p := e.slot(slot)
	if p == nil {
		return false
	}
	*p = entry
	return true
}

func (e *Exams) slot(slot ExamSlot) *ExamEntry {
	switch slot {
	case Mid1:
		return &e.Mid1
	case Final1:
		return &e.Final1
	case Mid2:
		return &e.Mid2
	case Final2:
		return &e.Final2
	}
	return nil
}

// Student is one roster entry with its full record history.
type Student struct {
	ID            int                  `json:"id" validate:"gt=0"`
	Name          string               `json:"name" validate:"required"`
	NIM           string               `json:"nim" validate:"required"`
	Picture       string               `json:"picture"`
	Attendance    []DailyAttendance    `json:"attendance" validate:"dive"`
	Exams         Exams                `json:"exams"`
	Proactiveness []DailyProactiveness `json:"proactiveness" validate:"dive"`
	Tasks         []DailyTask          `json:"tasks" validate:"dive"`
}

// Clone returns a deep copy of s.
func (s Student) Clone() Student {
	c := s
	c.Attendance = slices.Clone(s.Attendance)
	c.Proactiveness = slices.Clone(s.Proactiveness)
	c.Tasks = slices.Clone(s.Tasks)
	return c
}

// Roster is the record store for a whole class.
type Roster []Student

// Clone returns a deep copy of r.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	c := make(Roster, len(r))
	for i, s := range r {
		c[i] = s.Clone()
	}
	return c
}

// Index returns the position of the student with id, or -1.
func (r Roster) Index(id int) int {
	for i := range r {
		if r[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the student with id.
func (r Roster) Find(id int) (Student, bool) {
	if i := r.Index(id); i >= 0 {
		return r[i], true
	}
	return Student{}, false
}

// FindByNIM returns the student whose NIM matches.
func (r Roster) FindByNIM(nim string) (Student, bool) {
	for _, s := range r {
		if s.NIM == nim {
			return s, true
		}
	}
	return Student{}, false
}
