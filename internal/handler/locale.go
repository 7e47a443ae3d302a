package handler

import (
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/store"
)

// Locale resolves the household timezone for date math. The
// household_timezone setting wins when set and loadable; otherwise the
// location configured at startup applies. Resolved on every call so a
// settings change takes effect without a restart.
type Locale struct {
	settings *store.SettingsStore
	fallback *time.Location
}

func NewLocale(settings *store.SettingsStore, fallback *time.Location) *Locale {
	if fallback == nil {
		fallback = time.Local
	}
	return &Locale{settings: settings, fallback: fallback}
}

// Location returns the effective household timezone.
func (l *Locale) Location() *time.Location {
	if l.settings != nil {
		tz, err := l.settings.GetOrDefault("household_timezone", "")
		if err == nil && tz != "" {
			if loc, err := time.LoadLocation(tz); err == nil {
				return loc
			}
		}
	}
	return l.fallback
}

// Today is the current date in the household timezone, normalized to a
// UTC midnight so it compares cleanly with stored completion dates.
func (l *Locale) Today() time.Time {
	return today(l.Location())
}

// Now is the current wall-clock time in the household timezone.
func (l *Locale) Now() time.Time {
	return time.Now().In(l.Location())
}

func today(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
