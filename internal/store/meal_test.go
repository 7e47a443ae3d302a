package store

import (
	"testing"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/database"
	"github.com/mseewaters/kitchen-tracker/internal/model"
)

func setupMealTestDB(t *testing.T) *MealStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMealStore(db)
}

func TestMealLifecycle(t *testing.T) {
	ms := setupMealTestDB(t)

	m, err := ms.Create("Tuscan Chicken", "2024-06-10", "https://example.com/recipe", nil)
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if m.Status != model.MealStatusOrdered {
		t.Errorf("status = %q, want ordered", m.Status)
	}
	if m.DeliveryDate != nil {
		t.Errorf("delivery_date = %v, want nil", m.DeliveryDate)
	}

	delivered, err := ms.MarkDelivered(m.ID, time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	if delivered.Status != model.MealStatusDelivered {
		t.Errorf("status = %q, want delivered", delivered.Status)
	}
	if delivered.DeliveryDate == nil || delivered.DeliveryDate.Format("2006-01-02") != "2024-06-12" {
		t.Errorf("delivery_date = %v, want 2024-06-12", delivered.DeliveryDate)
	}

	cookedAt := time.Date(2024, 6, 13, 18, 30, 0, 0, time.UTC)
	cookedBy := int64(1)
	cooked, err := ms.MarkCooked(m.ID, cookedAt, &cookedBy, "extra garlic")
	if err != nil {
		t.Fatalf("mark cooked: %v", err)
	}
	if cooked.Status != model.MealStatusCooked {
		t.Errorf("status = %q, want cooked", cooked.Status)
	}
	if cooked.CookedAt == nil {
		t.Fatal("cooked_at not set")
	}

	records, err := ms.ListRecords(m.ID)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("meal records = %d, want 1", len(records))
	}
	r := records[0]
	if r.CookedBy == nil || *r.CookedBy != 1 {
		t.Errorf("cooked_by = %v, want 1", r.CookedBy)
	}
	if r.Notes != "extra garlic" {
		t.Errorf("notes = %q", r.Notes)
	}
	if r.CookedDate.Format("2006-01-02") != "2024-06-13" {
		t.Errorf("cooked_date = %v, want 2024-06-13", r.CookedDate)
	}
}

func TestMealListByWeek(t *testing.T) {
	ms := setupMealTestDB(t)

	if _, err := ms.Create("Tacos", "2024-06-10", "", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ms.Create("Soup", "2024-06-17", "", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	week, err := ms.ListByWeek("2024-06-10")
	if err != nil {
		t.Fatalf("list by week: %v", err)
	}
	if len(week) != 1 || week[0].Name != "Tacos" {
		t.Errorf("week = %+v, want just Tacos", week)
	}
}

func TestMealDeactivate(t *testing.T) {
	ms := setupMealTestDB(t)

	m, err := ms.Create("Old Stir Fry", "2024-06-03", "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ms.Deactivate(m.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	list, err := ms.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("active meals = %d, want 0", len(list))
	}
}
