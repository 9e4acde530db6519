package editor

import (
	"github.com/pkg/errors"

	"evaluation/internal/roster"
)

// Draft is a private working copy of a roster. Edits stay in the draft until
// Commit hands back the roster that should replace the canonical one.
// A Draft is not safe for concurrent use.
type Draft struct {
	students roster.Roster
	dirty    bool
}

// Begin starts a draft from a deep copy of canonical.
func Begin(canonical roster.Roster) *Draft {
	return &Draft{students: canonical.Clone()}
}

func (d *Draft) student(id int) (*roster.Student, error) {
	i := d.students.Index(id)
	if i < 0 {
		return nil, errors.Wrapf(ErrStudentNotFound, "student %d", id)
	}
	return &d.students[i], nil
}

// EditAttendance records status for the student on date.
func (d *Draft) EditAttendance(studentID int, date roster.Date, status roster.AttendanceStatus) error {
	if !status.Valid() {
		return errors.Wrapf(ErrInvalidField, "attendance status %q", status)
	}
	s, err := d.student(studentID)
	if err != nil {
		return err
	}
	s.Attendance = Upsert(s.Attendance, date, newAttendance, SetStatus(status))
	d.dirty = true
	return nil
}

// EditProactiveness sets one counter for the student on date.
func (d *Draft) EditProactiveness(studentID int, date roster.Date, field Counter, n int) error {
	if _, err := ParseCounter(string(field)); err != nil {
		return err
	}
	s, err := d.student(studentID)
	if err != nil {
		return err
	}
	s.Proactiveness = Upsert(s.Proactiveness, date, newProactiveness, SetCounter(field, n))
	d.dirty = true
	return nil
}

// EditTask sets the completed or total count for the student on date.
func (d *Draft) EditTask(studentID int, date roster.Date, field TaskField, n int) error {
	if _, err := ParseTaskField(string(field)); err != nil {
		return err
	}
	s, err := d.student(studentID)
	if err != nil {
		return err
	}
	s.Tasks = Upsert(s.Tasks, date, newTask, SetTaskField(field, n))
	d.dirty = true
	return nil
}

// ExamEdit changes the score, the date, or both of one exam entry.
type ExamEdit struct {
	Score *int
	Date  *roster.Date
}

// EditExam applies edit to the student's exam in slot.
func (d *Draft) EditExam(studentID int, slot roster.ExamSlot, edit ExamEdit) error {
	s, err := d.student(studentID)
	if err != nil {
		return err
	}
	exams := s.Exams
	if edit.Score != nil {
		if err := SetExamScore(&exams, slot, *edit.Score); err != nil {
			return err
		}
	}
	if edit.Date != nil {
		if err := SetExamDate(&exams, slot, *edit.Date); err != nil {
			return err
		}
	}
	if _, ok := exams.Entry(slot); !ok {
		return errors.Wrapf(ErrInvalidField, "exam slot %q", slot)
	}
	s.Exams = exams
	d.dirty = true
	return nil
}

// Students returns a copy of the draft for previews.
func (d *Draft) Students() roster.Roster {
	return d.students.Clone()
}

// Dirty reports whether any edit has been applied.
func (d *Draft) Dirty() bool {
	return d.dirty
}

// Commit returns the roster that replaces the canonical store. Later edits to
// the draft do not affect the returned value.
func (d *Draft) Commit() roster.Roster {
	d.dirty = false
	return d.students.Clone()
}
