package store

import (
	"testing"

	"github.com/mseewaters/kitchen-tracker/internal/database"
)

func setupSettingsTestDB(t *testing.T) *SettingsStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSettingsStore(db)
}

func TestSettingsSetGet(t *testing.T) {
	ss := setupSettingsTestDB(t)

	if err := ss.Set("household_timezone", "America/New_York"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := ss.Get("household_timezone")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "America/New_York" {
		t.Errorf("value = %q, want America/New_York", got)
	}

	// Upsert overwrites.
	if err := ss.Set("household_timezone", "America/Chicago"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	got, _ = ss.Get("household_timezone")
	if got != "America/Chicago" {
		t.Errorf("value = %q, want America/Chicago", got)
	}
}

func TestSettingsGetMissing(t *testing.T) {
	ss := setupSettingsTestDB(t)

	if _, err := ss.Get("nope"); err == nil {
		t.Error("expected error for missing key")
	}

	got, err := ss.GetOrDefault("summary_hour", "7")
	if err != nil {
		t.Fatalf("get or default: %v", err)
	}
	if got != "7" {
		t.Errorf("default = %q, want 7", got)
	}
}

func TestSettingsGroups(t *testing.T) {
	ss := setupSettingsTestDB(t)

	if err := ss.Set("s3_bucket", "kitchen-backups"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ss.Set("backup_enabled", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}

	s3, err := ss.GetS3Settings()
	if err != nil {
		t.Fatalf("s3 settings: %v", err)
	}
	if s3["s3_bucket"] != "kitchen-backups" {
		t.Errorf("s3_bucket = %q", s3["s3_bucket"])
	}
	if _, ok := s3["backup_enabled"]; ok {
		t.Error("backup key leaked into s3 settings")
	}

	backup, err := ss.GetBackupSettings()
	if err != nil {
		t.Fatalf("backup settings: %v", err)
	}
	if backup["backup_enabled"] != "true" {
		t.Errorf("backup_enabled = %q", backup["backup_enabled"])
	}
}
