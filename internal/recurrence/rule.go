package recurrence

import (
	"fmt"
	"strings"
	"time"
)

type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
)

var freqNames = map[Frequency]string{
	Daily:   "daily",
	Weekly:  "weekly",
	Monthly: "monthly",
}

var freqFromName = map[string]Frequency{
	"daily":   Daily,
	"weekly":  Weekly,
	"monthly": Monthly,
}

// ErrInvalidFrequency is returned when a rule is built with a frequency
// outside {daily, weekly, monthly}. Callers decide whether to surface it
// or substitute a default; the engine never defaults silently.
type ErrInvalidFrequency struct {
	Frequency string
}

func (e ErrInvalidFrequency) Error() string {
	return fmt.Sprintf("invalid frequency %q: must be daily, weekly, or monthly", e.Frequency)
}

const (
	// DefaultDayOfWeek is Sunday in the Monday=0 convention.
	DefaultDayOfWeek = 6
	// DefaultDayOfMonth is the 1st.
	DefaultDayOfMonth = 1
	// maxSafeDayOfMonth caps monthly targets so every month has the day.
	maxSafeDayOfMonth = 28
)

// Config carries the optional per-frequency settings. Zero-valued pointers
// mean "use the default".
type Config struct {
	DayOfWeek  *int `json:"day_of_week,omitempty"`  // 0=Monday .. 6=Sunday
	DayOfMonth *int `json:"day_of_month,omitempty"` // 1..31
}

// Rule is an immutable recurrence definition for one trackable entity.
// Replace the whole value to edit; never mutate in place.
type Rule struct {
	Freq       Frequency
	dayOfWeek  int
	dayOfMonth int
}

// New validates the frequency string and builds a Rule. Unknown frequencies
// fail with ErrInvalidFrequency.
func New(frequency string, cfg Config) (Rule, error) {
	f, ok := freqFromName[strings.ToLower(strings.TrimSpace(frequency))]
	if !ok {
		return Rule{}, ErrInvalidFrequency{Frequency: frequency}
	}

	r := Rule{Freq: f, dayOfWeek: DefaultDayOfWeek, dayOfMonth: DefaultDayOfMonth}
	if cfg.DayOfWeek != nil {
		if *cfg.DayOfWeek < 0 || *cfg.DayOfWeek > 6 {
			return Rule{}, fmt.Errorf("day_of_week %d out of range 0-6", *cfg.DayOfWeek)
		}
		r.dayOfWeek = *cfg.DayOfWeek
	}
	if cfg.DayOfMonth != nil {
		if *cfg.DayOfMonth < 1 || *cfg.DayOfMonth > 31 {
			return Rule{}, fmt.Errorf("day_of_month %d out of range 1-31", *cfg.DayOfMonth)
		}
		r.dayOfMonth = *cfg.DayOfMonth
	}
	return r, nil
}

// MustNew is for tests and literals with known-good input.
func MustNew(frequency string, cfg Config) Rule {
	r, err := New(frequency, cfg)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the frequency name ("daily", "weekly", "monthly").
func (r Rule) String() string { return freqNames[r.Freq] }

// DayOfWeek returns the weekly target day, 0=Monday .. 6=Sunday.
func (r Rule) DayOfWeek() int { return r.dayOfWeek }

// DayOfMonth returns the monthly target day, 1..31 (unclamped).
func (r Rule) DayOfMonth() int { return r.dayOfMonth }

// NextDueDate computes the next due date strictly after from. For weekly
// rules landing on the target weekday itself, the result is a full week out.
// Monthly targets past the 28th clamp to the 28th so every month is valid.
func (r Rule) NextDueDate(from time.Time) time.Time {
	from = StartOfDay(from)

	switch r.Freq {
	case Daily:
		return from.AddDate(0, 0, 1)

	case Weekly:
		daysAhead := r.dayOfWeek - mondayWeekday(from)
		if daysAhead <= 0 {
			daysAhead += 7
		}
		return from.AddDate(0, 0, daysAhead)

	case Monthly:
		day := r.dayOfMonth
		if day > maxSafeDayOfMonth {
			day = maxSafeDayOfMonth
		}
		firstOfNext := time.Date(from.Year(), from.Month()+1, 1, 0, 0, 0, 0, from.Location())
		return firstOfNext.AddDate(0, 0, day-1)
	}

	// Unreachable: New rejects everything else.
	return from.AddDate(0, 0, 1)
}

// SamePeriod reports whether a and b fall in the same calendar bucket for
// this rule's frequency: same date, same Monday-anchored week, or same
// year+month.
func (r Rule) SamePeriod(a, b time.Time) bool {
	a, b = StartOfDay(a), StartOfDay(b)

	switch r.Freq {
	case Daily:
		return a.Equal(b)
	case Weekly:
		return WeekStart(a).Equal(WeekStart(b))
	case Monthly:
		return a.Year() == b.Year() && a.Month() == b.Month()
	}
	return false
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday of t's week at midnight.
func WeekStart(t time.Time) time.Time {
	t = StartOfDay(t)
	return t.AddDate(0, 0, -mondayWeekday(t))
}

// mondayWeekday converts Go's Sunday=0 convention to Monday=0.
func mondayWeekday(t time.Time) int {
	wd := int(t.Weekday()) - 1
	if wd < 0 {
		wd = 6
	}
	return wd
}
