package engine

import (
	"testing"

	"example.com/travel-quote-planner/backend/internal/models"
)

func strPtr(value string) *string {
	return &value
}

// TestIsVisibleSuperAdmin проверяет, что super_admin видит любые записи.
func TestIsVisibleSuperAdmin(t *testing.T) {
	super := models.Viewer{Username: "root", Role: models.RoleSuperAdmin}

	records := []models.ResourceRecord{
		{Name: "private", OwnerUsername: strPtr("alice")},
		{Name: "public", OwnerUsername: strPtr("alice"), IsPublic: true},
		{Name: "legacy"},
	}

	for _, record := range records {
		if !IsVisible(super, record) {
			t.Fatalf("expected %s to be visible to super_admin", record.Name)
		}
	}
}

// TestIsVisibleOwnershipRules проверяет видимость по владельцу и публичности.
func TestIsVisibleOwnershipRules(t *testing.T) {
	alice := models.Viewer{Username: "alice", Role: models.RoleStandard}
	bob := models.Viewer{Username: "bob", Role: models.RoleStandard}

	private := models.ResourceRecord{Name: "bus", OwnerUsername: strPtr("alice")}
	if !IsVisible(alice, private) {
		t.Fatal("expected owner to see own private record")
	}
	if IsVisible(bob, private) {
		t.Fatal("expected private record to be hidden from others")
	}

	public := models.ResourceRecord{Name: "bus", OwnerUsername: strPtr("alice"), IsPublic: true}
	if !IsVisible(bob, public) {
		t.Fatal("expected public record to be visible to everyone")
	}

	legacy := models.ResourceRecord{Name: "bus"}
	if !IsVisible(bob, legacy) {
		t.Fatal("expected ownerless record to be visible to everyone")
	}
}

// TestCanEditPublicLock проверяет, что публикация закрывает правку всем, кроме super_admin.
func TestCanEditPublicLock(t *testing.T) {
	owner := models.Viewer{Username: "alice", Role: models.RoleAdmin}
	super := models.Viewer{Username: "root", Role: models.RoleSuperAdmin}

	record := models.ResourceRecord{Name: "hotel", OwnerUsername: strPtr("alice"), IsPublic: true}

	if CanEdit(owner, record) {
		t.Fatal("expected public record to be edit-locked for its owner")
	}
	if !CanEdit(super, record) {
		t.Fatal("expected super_admin to edit public record")
	}
}

// TestCanEditLegacyAndOwnership проверяет правку записей без владельца и чужих записей.
func TestCanEditLegacyAndOwnership(t *testing.T) {
	alice := models.Viewer{Username: "alice", Role: models.RoleStandard}
	admin := models.Viewer{Username: "carol", Role: models.RoleAdmin}

	legacy := models.ResourceRecord{Name: "ferry"}
	if CanEdit(alice, legacy) || CanEdit(admin, legacy) {
		t.Fatal("expected ownerless record to be editable only by super_admin")
	}

	private := models.ResourceRecord{Name: "ferry", OwnerUsername: strPtr("alice")}
	if !CanEdit(alice, private) {
		t.Fatal("expected owner to edit own private record")
	}
	if CanEdit(admin, private) {
		t.Fatal("expected admin not to edit someone else's private record")
	}
}

// TestVisibleRecordsFilter проверяет фильтрацию каталога с сохранением порядка.
func TestVisibleRecordsFilter(t *testing.T) {
	bob := models.Viewer{Username: "bob", Role: models.RoleStandard}

	catalog := []models.ResourceRecord{
		{Name: "first", OwnerUsername: strPtr("alice")},
		{Name: "second", OwnerUsername: strPtr("bob")},
		{Name: "third", IsPublic: true, OwnerUsername: strPtr("alice")},
	}

	visible := VisibleRecords(bob, catalog)
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible records, got %d", len(visible))
	}
	if visible[0].Name != "second" || visible[1].Name != "third" {
		t.Fatalf("unexpected order: %s, %s", visible[0].Name, visible[1].Name)
	}
}
