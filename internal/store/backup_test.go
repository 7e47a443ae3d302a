package store

import (
	"testing"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/database"
	"github.com/mseewaters/kitchen-tracker/internal/model"
)

func setupBackupTestDB(t *testing.T) *BackupStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBackupStore(db)
}

func TestBackupLifecycle(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.Create("kitchen-20240615.db.enc", "backups/kitchen-20240615.db.enc")
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if b.Status != model.BackupStatusPending {
		t.Errorf("status = %q, want pending", b.Status)
	}

	if err := bs.UpdateStatus(b.ID, model.BackupStatusUploading, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := bs.UpdateCompleted(b.ID, 4096); err != nil {
		t.Fatalf("update completed: %v", err)
	}

	got, err := bs.GetByID(b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.BackupStatusCompleted || got.SizeBytes != 4096 {
		t.Errorf("got = %q/%d, want completed/4096", got.Status, got.SizeBytes)
	}

	latest, err := bs.LatestCompleted()
	if err != nil {
		t.Fatalf("latest completed: %v", err)
	}
	if latest == nil || latest.ID != b.ID {
		t.Errorf("latest = %v, want backup %d", latest, b.ID)
	}
}

func TestBackupFailureRecordsError(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.Create("kitchen-bad.db.enc", "backups/kitchen-bad.db.enc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := bs.UpdateStatus(b.ID, model.BackupStatusFailed, "s3 upload timed out"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, _ := bs.GetByID(b.ID)
	if got.Status != model.BackupStatusFailed || got.Error != "s3 upload timed out" {
		t.Errorf("got = %q/%q", got.Status, got.Error)
	}

	// Failed backups never show up as latest completed.
	latest, err := bs.LatestCompleted()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Error("expected no completed backup")
	}
}

func TestBackupDeleteOlderThan(t *testing.T) {
	bs := setupBackupTestDB(t)

	b, err := bs.Create("kitchen-old.db.enc", "backups/kitchen-old.db.enc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	keys, err := bs.DeleteOlderThan(time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("delete older than: %v", err)
	}
	if len(keys) != 1 || keys[0] != "backups/kitchen-old.db.enc" {
		t.Errorf("keys = %v, want the one old key", keys)
	}

	got, err := bs.GetByID(b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("expected old backup row to be gone")
	}
}
