package store

import (
	"testing"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/database"
	"github.com/mseewaters/kitchen-tracker/internal/model"
)

func setupTestDB(t *testing.T) *ActivityStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewActivityStore(db)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestActivityCRUD(t *testing.T) {
	as := setupTestDB(t)

	dow := 6
	created, err := as.Create(model.Activity{
		Name:      "Clean litter box",
		Kind:      model.KindPetCare,
		Category:  "other",
		Frequency: "weekly",
		DayOfWeek: &dow,
	})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if created.Name != "Clean litter box" {
		t.Errorf("name = %q, want %q", created.Name, "Clean litter box")
	}
	if created.DayOfWeek == nil || *created.DayOfWeek != 6 {
		t.Errorf("day_of_week = %v, want 6", created.DayOfWeek)
	}
	if created.DayOfMonth != nil {
		t.Errorf("day_of_month = %v, want nil", created.DayOfMonth)
	}
	if !created.IsActive {
		t.Error("expected new activity to be active")
	}

	// Update changes the recurrence to monthly.
	dom := 15
	updated, err := as.Update(created.ID, model.Activity{
		Name:       "Deep clean litter box",
		Kind:       model.KindPetCare,
		Category:   "other",
		Frequency:  "monthly",
		DayOfMonth: &dom,
	})
	if err != nil {
		t.Fatalf("update activity: %v", err)
	}
	if updated.Frequency != "monthly" {
		t.Errorf("frequency = %q, want monthly", updated.Frequency)
	}
	if updated.DayOfWeek != nil {
		t.Errorf("day_of_week = %v, want nil after update", updated.DayOfWeek)
	}
	if updated.DayOfMonth == nil || *updated.DayOfMonth != 15 {
		t.Errorf("day_of_month = %v, want 15", updated.DayOfMonth)
	}

	// Deactivate hides from List but keeps the row.
	if err := as.Deactivate(created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	list, err := as.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("list after deactivate = %d activities, want 0", len(list))
	}
	got, err := as.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get after deactivate: %v", err)
	}
	if got == nil || got.IsActive {
		t.Error("expected inactive row to survive deactivate")
	}
}

func TestActivityGetByIDNotFound(t *testing.T) {
	as := setupTestDB(t)

	got, err := as.GetByID(9999)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent activity")
	}
}

func TestListByKind(t *testing.T) {
	as := setupTestDB(t)

	mustCreate := func(name, kind string) {
		t.Helper()
		if _, err := as.Create(model.Activity{Name: name, Kind: kind, Frequency: "daily"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	mustCreate("Vitamins", model.KindHealth)
	mustCreate("Dishes", model.KindTask)
	mustCreate("Feed dog", model.KindPetCare)
	mustCreate("Walk dog", model.KindPetCare)

	pets, err := as.ListByKind(model.KindPetCare)
	if err != nil {
		t.Fatalf("list by kind: %v", err)
	}
	if len(pets) != 2 {
		t.Fatalf("pet_care activities = %d, want 2", len(pets))
	}
	// Ordered by name.
	if pets[0].Name != "Feed dog" || pets[1].Name != "Walk dog" {
		t.Errorf("order = %q, %q", pets[0].Name, pets[1].Name)
	}
}

func TestCompletionRoundTrip(t *testing.T) {
	as := setupTestDB(t)

	a, err := as.Create(model.Activity{Name: "Vitamins", Kind: model.KindHealth, Frequency: "daily"})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}

	c, err := as.CreateCompletion(a.ID, day(2024, 6, 15), nil, "with breakfast")
	if err != nil {
		t.Fatalf("create completion: %v", err)
	}
	if !c.CompletedDate.Equal(day(2024, 6, 15)) {
		t.Errorf("completed_date = %v, want 2024-06-15", c.CompletedDate)
	}
	if c.Notes != "with breakfast" {
		t.Errorf("notes = %q", c.Notes)
	}

	latest, err := as.LatestCompletionOnOrBefore(a.ID, day(2024, 6, 20))
	if err != nil {
		t.Fatalf("latest completion: %v", err)
	}
	if latest == nil || latest.ID != c.ID {
		t.Fatalf("latest = %v, want completion %d", latest, c.ID)
	}

	// A query window before the completion finds nothing.
	earlier, err := as.LatestCompletionOnOrBefore(a.ID, day(2024, 6, 14))
	if err != nil {
		t.Fatalf("latest completion: %v", err)
	}
	if earlier != nil {
		t.Error("expected nil before any completion")
	}
}

func TestDeleteLatestCompletionOn(t *testing.T) {
	as := setupTestDB(t)

	a, err := as.Create(model.Activity{Name: "Feed cat", Kind: model.KindPetCare, Frequency: "daily"})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}

	if _, err := as.CreateCompletion(a.ID, day(2024, 6, 15), nil, ""); err != nil {
		t.Fatalf("create completion: %v", err)
	}
	if _, err := as.CreateCompletion(a.ID, day(2024, 6, 15), nil, ""); err != nil {
		t.Fatalf("create second completion: %v", err)
	}

	undone, err := as.DeleteLatestCompletionOn(a.ID, day(2024, 6, 15))
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !undone {
		t.Fatal("expected an undo to happen")
	}

	remaining, err := as.ListCompletionsByActivity(a.ID)
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("remaining completions = %d, want 1", len(remaining))
	}

	// Undo on a day with nothing recorded reports false.
	undone, err = as.DeleteLatestCompletionOn(a.ID, day(2024, 6, 16))
	if err != nil {
		t.Fatalf("undo empty day: %v", err)
	}
	if undone {
		t.Error("expected no undo on an empty day")
	}
}

func TestDeleteCascadesCompletions(t *testing.T) {
	as := setupTestDB(t)

	a, err := as.Create(model.Activity{Name: "Trash", Kind: model.KindTask, Frequency: "weekly"})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if _, err := as.CreateCompletion(a.ID, day(2024, 6, 15), nil, ""); err != nil {
		t.Fatalf("create completion: %v", err)
	}

	if err := as.Delete(a.ID); err != nil {
		t.Fatalf("delete activity: %v", err)
	}

	completions, err := as.ListCompletionsByActivity(a.ID)
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(completions) != 0 {
		t.Errorf("completions after delete = %d, want 0", len(completions))
	}
}

func TestListCompletionsByDateRange(t *testing.T) {
	as := setupTestDB(t)

	a, err := as.Create(model.Activity{Name: "Vitamins", Kind: model.KindHealth, Frequency: "daily"})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	for _, d := range []time.Time{day(2024, 6, 10), day(2024, 6, 12), day(2024, 6, 20)} {
		if _, err := as.CreateCompletion(a.ID, d, nil, ""); err != nil {
			t.Fatalf("create completion: %v", err)
		}
	}

	got, err := as.ListCompletionsByDateRange(day(2024, 6, 10), day(2024, 6, 15))
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("completions in range = %d, want 2", len(got))
	}
}
