package handler

import (
	"github.com/pkg/errors"

	"evaluation/internal/editor"
	"evaluation/internal/roster"
	"evaluation/internal/scoring"
)

const (
	categoryAttendance    = "attendance"
	categoryProactiveness = "proactiveness"
	categoryTasks         = "tasks"
	categoryExams         = "exams"
	categoryRankings      = "rankings"
)

var errNoView = errors.New("no such view")

// view renders one category of r. A non-empty date selects the daily view.
func view(category string, r roster.Roster, date string) (any, error) {
	if date != "" {
		d, err := roster.ParseDate(date)
		if err != nil {
			return nil, errors.Wrap(editor.ErrInvalidField, err.Error())
		}
		switch category {
		case categoryAttendance:
			return scoring.AttendanceOn(r, d), nil
		case categoryProactiveness:
			return scoring.ProactivenessOn(r, d), nil
		case categoryTasks:
			return scoring.TaskOn(r, d), nil
		}
		return nil, errors.Wrapf(editor.ErrInvalidField, "%s has no daily view", category)
	}

	switch category {
	case categoryAttendance:
		return scoring.AttendanceTable(r), nil
	case categoryProactiveness:
		return scoring.ProactivenessTable(r), nil
	case categoryTasks:
		return scoring.TaskTable(r), nil
	case categoryExams:
		return scoring.ExamTable(r), nil
	case categoryRankings:
		return scoring.Standings(r), nil
	}
	return nil, errors.Wrap(errNoView, category)
}
