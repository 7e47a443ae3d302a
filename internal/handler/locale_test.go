package handler

import (
	"testing"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/database"
	"github.com/mseewaters/kitchen-tracker/internal/store"
)

func setupLocale(t *testing.T) (*Locale, *store.SettingsStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	settings := store.NewSettingsStore(db)
	return NewLocale(settings, time.UTC), settings
}

func TestLocaleFallsBackWhenUnset(t *testing.T) {
	locale, _ := setupLocale(t)

	if got := locale.Location(); got != time.UTC {
		t.Errorf("location = %v, want UTC fallback", got)
	}
}

func TestLocaleHonorsTimezoneSetting(t *testing.T) {
	locale, settings := setupLocale(t)

	if err := settings.Set("household_timezone", "America/New_York"); err != nil {
		t.Fatalf("set timezone: %v", err)
	}

	// No restart needed: the next lookup sees the new zone.
	if got := locale.Location().String(); got != "America/New_York" {
		t.Errorf("location = %q, want America/New_York", got)
	}

	if err := settings.Set("household_timezone", "Europe/Berlin"); err != nil {
		t.Fatalf("update timezone: %v", err)
	}
	if got := locale.Location().String(); got != "Europe/Berlin" {
		t.Errorf("location after update = %q, want Europe/Berlin", got)
	}
}

func TestLocaleIgnoresInvalidTimezone(t *testing.T) {
	locale, settings := setupLocale(t)

	if err := settings.Set("household_timezone", "Atlantis/Sunken"); err != nil {
		t.Fatalf("set timezone: %v", err)
	}
	if got := locale.Location(); got != time.UTC {
		t.Errorf("location = %v, want UTC fallback for bad zone", got)
	}
}

func TestLocaleTodayIsUTCMidnight(t *testing.T) {
	locale, _ := setupLocale(t)

	day := locale.Today()
	if day.Location() != time.UTC {
		t.Errorf("today location = %v, want UTC", day.Location())
	}
	if day.Hour() != 0 || day.Minute() != 0 || day.Second() != 0 {
		t.Errorf("today = %v, want midnight", day)
	}
}
