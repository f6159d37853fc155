package handlers

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"example.com/travel-quote-planner/backend/internal/models"
)

func publicRecord(owner string) models.ResourceRecord {
	return models.ResourceRecord{
		ID:             uuid.New(),
		Kind:           models.KindHotel,
		Name:           "Hotel Kazbegi",
		UnitPriceCents: 9000,
		OwnerUsername:  &owner,
		IsPublic:       true,
	}
}

// TestToResourceResponseMasksPublicPrice проверяет маскирование цены
// опубликованной записи для standard-пользователя.
func TestToResourceResponseMasksPublicPrice(t *testing.T) {
	viewer := models.Viewer{Username: "alice", Role: models.RoleStandard}
	response := toResourceResponse(viewer, publicRecord("bob"))

	if response.UnitPriceCents != nil {
		t.Fatal("expected no numeric price for masked record")
	}
	if !strings.Contains(response.DisplayPrice, "*") {
		t.Fatalf("expected masked price, got %s", response.DisplayPrice)
	}
	if response.CanEdit {
		t.Fatal("expected published record to be read-only for standard user")
	}
}

// TestToResourceResponseOwnerSeesOwnPrice проверяет раскрытие цены владельцу.
func TestToResourceResponseOwnerSeesOwnPrice(t *testing.T) {
	viewer := models.Viewer{Username: "bob", Role: models.RoleStandard}
	response := toResourceResponse(viewer, publicRecord("bob"))

	if response.UnitPriceCents == nil || *response.UnitPriceCents != 9000 {
		t.Fatalf("expected price 9000, got %v", response.UnitPriceCents)
	}
	if response.DisplayPrice != "9000" {
		t.Fatalf("expected display price 9000, got %s", response.DisplayPrice)
	}

	// Публикация односторонняя: даже автор не правит опубликованную запись.
	if response.CanEdit {
		t.Fatal("expected published record to be read-only for its author")
	}
}

// TestToResourceResponseSuperAdmin проверяет полный доступ super_admin.
func TestToResourceResponseSuperAdmin(t *testing.T) {
	viewer := models.Viewer{Username: "root", Role: models.RoleSuperAdmin}
	response := toResourceResponse(viewer, publicRecord("bob"))

	if response.UnitPriceCents == nil || *response.UnitPriceCents != 9000 {
		t.Fatalf("expected price 9000, got %v", response.UnitPriceCents)
	}
	if !response.CanEdit {
		t.Fatal("expected super_admin to edit published record")
	}
}
