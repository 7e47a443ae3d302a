package store

import (
	"testing"

	"github.com/mseewaters/kitchen-tracker/internal/database"
	"github.com/mseewaters/kitchen-tracker/internal/model"
)

func setupMemberTestDB(t *testing.T) *MemberStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMemberStore(db)
}

func TestMemberCRUD(t *testing.T) {
	ms := setupMemberTestDB(t)

	m, err := ms.Create("Maya", model.MemberTypePerson, "", 1)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if m.Name != "Maya" {
		t.Errorf("name = %q, want Maya", m.Name)
	}
	if m.MemberType != model.MemberTypePerson {
		t.Errorf("member_type = %q, want person", m.MemberType)
	}

	updated, err := ms.Update(m.ID, "Maya R", model.MemberTypePerson, "", 2)
	if err != nil {
		t.Fatalf("update member: %v", err)
	}
	if updated.Name != "Maya R" || updated.SortOrder != 2 {
		t.Errorf("updated = %q/%d, want Maya R/2", updated.Name, updated.SortOrder)
	}

	if err := ms.Deactivate(m.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	list, err := ms.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("active members = %d, want 0", len(list))
	}
	// Row survives for historical attribution.
	got, err := ms.GetByID(m.ID)
	if err != nil {
		t.Fatalf("get after deactivate: %v", err)
	}
	if got == nil {
		t.Fatal("expected deactivated member row to exist")
	}
}

func TestMemberListByType(t *testing.T) {
	ms := setupMemberTestDB(t)

	if _, err := ms.Create("Maya", model.MemberTypePerson, "", 1); err != nil {
		t.Fatalf("create person: %v", err)
	}
	if _, err := ms.Create("Biscuit", model.MemberTypePet, "dog", 2); err != nil {
		t.Fatalf("create pet: %v", err)
	}

	pets, err := ms.ListByType(model.MemberTypePet)
	if err != nil {
		t.Fatalf("list pets: %v", err)
	}
	if len(pets) != 1 || pets[0].Name != "Biscuit" || pets[0].PetType != "dog" {
		t.Errorf("pets = %+v, want just Biscuit the dog", pets)
	}
}
