// Package status derives point-in-time state for recurring activities.
// Every query recomputes from scratch; nothing here is stored or cached.
package status

import (
	"encoding/json"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/model"
	"github.com/mseewaters/kitchen-tracker/internal/recurrence"
)

type EngineStatus string

const (
	StatusUpcoming  EngineStatus = "upcoming"
	StatusDue       EngineStatus = "due"
	StatusOverdue   EngineStatus = "overdue"
	StatusCompleted EngineStatus = "completed"
)

// Report is the full derived state for one activity as of a reference date.
// Status and IsOverdue answer different questions ("what should I show" vs
// "should this alarm") and deliberately disagree for never-completed daily
// activities: status is due while IsOverdue is true.
type Report struct {
	Status            EngineStatus
	IsDueToday        bool
	IsOverdue         bool
	NextDueDate       time.Time
	LastCompletedDate *time.Time
	LastCompletedBy   string
}

// MarshalJSON renders dates as YYYY-MM-DD strings.
func (r Report) MarshalJSON() ([]byte, error) {
	out := struct {
		Status            EngineStatus `json:"status"`
		IsDueToday        bool         `json:"is_due_today"`
		IsOverdue         bool         `json:"is_overdue"`
		NextDueDate       string       `json:"next_due_date"`
		LastCompletedDate *string      `json:"last_completed_date"`
		LastCompletedBy   string       `json:"last_completed_by,omitempty"`
	}{
		Status:          r.Status,
		IsDueToday:      r.IsDueToday,
		IsOverdue:       r.IsOverdue,
		NextDueDate:     r.NextDueDate.Format("2006-01-02"),
		LastCompletedBy: r.LastCompletedBy,
	}
	if r.LastCompletedDate != nil {
		s := r.LastCompletedDate.Format("2006-01-02")
		out.LastCompletedDate = &s
	}
	return json.Marshal(out)
}

// RuleFor builds the recurrence rule from an activity's inline fields.
func RuleFor(a model.Activity) (recurrence.Rule, error) {
	return recurrence.New(a.Frequency, recurrence.Config{
		DayOfWeek:  a.DayOfWeek,
		DayOfMonth: a.DayOfMonth,
	})
}

// Compute derives the report for one activity given its most recent
// completion date (nil = never completed) and today. It is a total function:
// rules are validated at construction, so nothing here can fail.
func Compute(rule recurrence.Rule, lastCompleted *time.Time, today time.Time) Report {
	today = recurrence.StartOfDay(today)

	var last *time.Time
	if lastCompleted != nil {
		d := recurrence.StartOfDay(*lastCompleted)
		last = &d
	}

	r := Report{
		Status:            statusOf(rule, last, today),
		IsDueToday:        isDueToday(rule, last, today),
		LastCompletedDate: last,
	}
	r.IsOverdue = isOverdue(rule, last, today, r.Status)

	if last != nil {
		r.NextDueDate = rule.NextDueDate(*last)
	} else {
		// Never completed: due right now, not at the next occurrence.
		r.NextDueDate = today
	}
	return r
}

func statusOf(rule recurrence.Rule, last *time.Time, today time.Time) EngineStatus {
	if last != nil && rule.SamePeriod(*last, today) {
		return StatusCompleted
	}

	switch rule.Freq {
	case recurrence.Daily:
		if last == nil {
			return StatusDue
		}
		if last.After(today) {
			return StatusUpcoming
		}
		if daysBetween(*last, today) > 1 {
			return StatusOverdue
		}
		return StatusDue

	case recurrence.Weekly:
		target := rule.DayOfWeek()
		switch wd := mondayWeekday(today); {
		case wd == target:
			return StatusDue
		case wd > target:
			return StatusOverdue
		default:
			return StatusUpcoming
		}

	case recurrence.Monthly:
		target := rule.DayOfMonth()
		switch {
		case today.Day() == target:
			return StatusDue
		case today.Day() > target:
			return StatusOverdue
		default:
			return StatusUpcoming
		}
	}
	return StatusDue
}

// isDueToday reports whether the activity needs doing today: daily items
// whenever uncompleted, periodic items only on their target day.
func isDueToday(rule recurrence.Rule, last *time.Time, today time.Time) bool {
	if last == nil {
		return true
	}

	switch rule.Freq {
	case recurrence.Daily:
		return last.Before(today)
	case recurrence.Weekly:
		return mondayWeekday(today) == rule.DayOfWeek() && last.Before(recurrence.WeekStart(today))
	case recurrence.Monthly:
		monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return today.Day() == rule.DayOfMonth() && last.Before(monthStart)
	}
	return false
}

// isOverdue is the alarm predicate. Never-completed daily activities alarm
// immediately; never-completed weekly/monthly ones only once their target
// day has passed within the period.
func isOverdue(rule recurrence.Rule, last *time.Time, today time.Time, st EngineStatus) bool {
	if last == nil {
		if rule.Freq == recurrence.Daily {
			return true
		}
		return st == StatusOverdue
	}
	return today.After(rule.NextDueDate(*last))
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func mondayWeekday(t time.Time) int {
	wd := int(t.Weekday()) - 1
	if wd < 0 {
		wd = 6
	}
	return wd
}
