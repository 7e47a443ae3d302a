package status

import (
	"testing"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/model"
	"github.com/mseewaters/kitchen-tracker/internal/recurrence"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intp(n int) *int { return &n }

func daily() recurrence.Rule {
	return recurrence.MustNew("daily", recurrence.Config{})
}

func TestDailyCompletedToday(t *testing.T) {
	d := date(2024, 6, 15)
	r := Compute(daily(), &d, d)
	if r.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", r.Status, StatusCompleted)
	}
	if r.IsDueToday {
		t.Error("completed today should not be due today")
	}
	if r.IsOverdue {
		t.Error("completed today should not be overdue")
	}
	want := date(2024, 6, 16)
	if !r.NextDueDate.Equal(want) {
		t.Errorf("next due = %v, want %v", r.NextDueDate, want)
	}
}

func TestDailyDueNextDay(t *testing.T) {
	// Completed on D, queried on D+1: due but not the overdue status.
	d := date(2024, 6, 15)
	r := Compute(daily(), &d, date(2024, 6, 16))
	if r.Status != StatusDue {
		t.Errorf("status = %q, want %q", r.Status, StatusDue)
	}
	if !r.IsDueToday {
		t.Error("should be due today")
	}
	if r.IsOverdue {
		t.Error("one day since completion is due, not overdue")
	}
}

func TestDailyOverdueAfterTwoDays(t *testing.T) {
	d := date(2024, 6, 15)
	r := Compute(daily(), &d, date(2024, 6, 17))
	if r.Status != StatusOverdue {
		t.Errorf("status = %q, want %q", r.Status, StatusOverdue)
	}
	if !r.IsOverdue {
		t.Error("two days since completion should be overdue")
	}
}

func TestDailyNeverCompletedAsymmetry(t *testing.T) {
	// The documented asymmetry: status is due (first query should not shout
	// overdue) while the alarm predicate is already true.
	r := Compute(daily(), nil, date(2024, 6, 15))
	if r.Status != StatusDue {
		t.Errorf("status = %q, want %q", r.Status, StatusDue)
	}
	if !r.IsOverdue {
		t.Error("never-completed daily must report is_overdue=true")
	}
	if !r.IsDueToday {
		t.Error("never-completed should be due today")
	}
	if !r.NextDueDate.Equal(date(2024, 6, 15)) {
		t.Errorf("next due = %v, want today", r.NextDueDate)
	}
}

func TestDailyFutureCompletionUpcoming(t *testing.T) {
	d := date(2024, 6, 16)
	r := Compute(daily(), &d, date(2024, 6, 15))
	if r.Status != StatusUpcoming {
		t.Errorf("status = %q, want %q", r.Status, StatusUpcoming)
	}
}

func TestWeeklyCompletedAnywhereInWeek(t *testing.T) {
	// A completion on any day satisfies the whole Monday-anchored week,
	// regardless of the target weekday.
	rule := recurrence.MustNew("weekly", recurrence.Config{DayOfWeek: intp(6)})
	completed := date(2024, 6, 4) // Tuesday
	for day := 3; day <= 9; day++ {
		r := Compute(rule, &completed, date(2024, 6, day))
		if r.Status != StatusCompleted {
			t.Errorf("today=June %d: status = %q, want %q", day, r.Status, StatusCompleted)
		}
	}
	// Next Monday starts a fresh period.
	r := Compute(rule, &completed, date(2024, 6, 10))
	if r.Status == StatusCompleted {
		t.Error("completion should not carry into the next week")
	}
}

func TestWeeklyNeverCompletedOnTargetDay(t *testing.T) {
	// Sunday target, today is Sunday 2024-06-02, no completions: due, not
	// overdue — the daily-only alarm asymmetry must not leak into weekly.
	rule := recurrence.MustNew("weekly", recurrence.Config{DayOfWeek: intp(6)})
	r := Compute(rule, nil, date(2024, 6, 2))
	if r.Status != StatusDue {
		t.Errorf("status = %q, want %q", r.Status, StatusDue)
	}
	if !r.IsDueToday {
		t.Error("target day should be due today")
	}
	if r.IsOverdue {
		t.Error("never-completed weekly on its target day must not be overdue")
	}
}

func TestWeeklyBeforeTargetUpcoming(t *testing.T) {
	// Friday target (4), today Wednesday June 5, completed last week.
	rule := recurrence.MustNew("weekly", recurrence.Config{DayOfWeek: intp(4)})
	completed := date(2024, 5, 31)
	r := Compute(rule, &completed, date(2024, 6, 5))
	if r.Status != StatusUpcoming {
		t.Errorf("status = %q, want %q", r.Status, StatusUpcoming)
	}
}

func TestWeeklyPastTargetOverdue(t *testing.T) {
	// Tuesday target (1), today Thursday June 6, completed last week.
	rule := recurrence.MustNew("weekly", recurrence.Config{DayOfWeek: intp(1)})
	completed := date(2024, 5, 28)
	r := Compute(rule, &completed, date(2024, 6, 6))
	if r.Status != StatusOverdue {
		t.Errorf("status = %q, want %q", r.Status, StatusOverdue)
	}
}

func TestMonthlyOverdueScenario(t *testing.T) {
	// day_of_month=1, completed May 1, today June 15: the June 1 target
	// passed unsatisfied.
	rule := recurrence.MustNew("monthly", recurrence.Config{DayOfMonth: intp(1)})
	completed := date(2024, 5, 1)
	r := Compute(rule, &completed, date(2024, 6, 15))
	if r.Status != StatusOverdue {
		t.Errorf("status = %q, want %q", r.Status, StatusOverdue)
	}
	want := date(2024, 6, 1)
	if !r.NextDueDate.Equal(want) {
		t.Errorf("next due = %v, want %v", r.NextDueDate, want)
	}
	if !r.IsOverdue {
		t.Error("should be overdue")
	}
}

func TestMonthlyCompletedThisMonth(t *testing.T) {
	rule := recurrence.MustNew("monthly", recurrence.Config{DayOfMonth: intp(15)})
	completed := date(2024, 6, 15)
	r := Compute(rule, &completed, date(2024, 6, 20))
	if r.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", r.Status, StatusCompleted)
	}
}

func TestMonthlyBeforeTargetUpcoming(t *testing.T) {
	rule := recurrence.MustNew("monthly", recurrence.Config{DayOfMonth: intp(20)})
	completed := date(2024, 5, 20)
	r := Compute(rule, &completed, date(2024, 6, 10))
	if r.Status != StatusUpcoming {
		t.Errorf("status = %q, want %q", r.Status, StatusUpcoming)
	}
}

func TestUndoRoundTrip(t *testing.T) {
	// Recomputing after removing a completion must match the pre-completion
	// report exactly.
	rule := daily()
	today := date(2024, 6, 15)

	before := Compute(rule, nil, today)

	d := today
	during := Compute(rule, &d, today)
	if during.Status != StatusCompleted {
		t.Fatalf("status = %q, want %q", during.Status, StatusCompleted)
	}

	after := Compute(rule, nil, today)
	if after != before {
		t.Errorf("report after undo = %+v, want %+v", after, before)
	}
}

func completion(id int64, day time.Time, at time.Time, by *int64) model.Completion {
	return model.Completion{ID: id, ActivityID: 1, CompletedDate: day, CompletedAt: at, CompletedBy: by}
}

func TestHistoryLatestOnOrBefore(t *testing.T) {
	h := History{
		completion(1, date(2024, 6, 10), date(2024, 6, 10).Add(8*time.Hour), nil),
		completion(2, date(2024, 6, 12), date(2024, 6, 12).Add(9*time.Hour), nil),
		completion(3, date(2024, 6, 14), date(2024, 6, 14).Add(7*time.Hour), nil),
	}

	got := h.LatestOnOrBefore(date(2024, 6, 13))
	if got == nil || got.ID != 2 {
		t.Fatalf("got %+v, want completion 2", got)
	}

	if h.LatestOnOrBefore(date(2024, 6, 9)) != nil {
		t.Error("expected nil before any completion")
	}

	got = h.LatestOnOrBefore(date(2024, 6, 14))
	if got == nil || got.ID != 3 {
		t.Fatalf("got %+v, want completion 3 (on-date counts)", got)
	}
}

func TestHistorySameDateTieBreak(t *testing.T) {
	// Two treats the same day: the most recently recorded one wins.
	morning := completion(1, date(2024, 6, 14), date(2024, 6, 14).Add(8*time.Hour), intp64(1))
	evening := completion(2, date(2024, 6, 14), date(2024, 6, 14).Add(19*time.Hour), intp64(2))
	h := History{morning, evening}

	got := h.LatestOnOrBefore(date(2024, 6, 14))
	if got == nil || got.ID != 2 {
		t.Fatalf("got %+v, want the later-recorded completion", got)
	}
}

func TestHistoryCountOn(t *testing.T) {
	h := History{
		completion(1, date(2024, 6, 14), date(2024, 6, 14).Add(8*time.Hour), nil),
		completion(2, date(2024, 6, 14), date(2024, 6, 14).Add(18*time.Hour), nil),
		completion(3, date(2024, 6, 13), date(2024, 6, 13).Add(8*time.Hour), nil),
	}
	if got := h.CountOn(date(2024, 6, 14)); got != 2 {
		t.Errorf("CountOn = %d, want 2", got)
	}
	if got := h.CountOn(date(2024, 6, 12)); got != 0 {
		t.Errorf("CountOn = %d, want 0", got)
	}
}

func TestRuleForInvalidFrequency(t *testing.T) {
	a := model.Activity{Name: "Vitamins", Kind: model.KindHealth, Frequency: "fortnightly"}
	if _, err := RuleFor(a); err == nil {
		t.Error("expected error for unsupported frequency")
	}
}

func intp64(n int64) *int64 { return &n }
