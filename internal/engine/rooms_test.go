package engine

import (
	"testing"

	"example.com/travel-quote-planner/backend/internal/models"
)

func hotelRecord(name, roomType string, priceCents int64, isPublic bool) models.ResourceRecord {
	return models.ResourceRecord{
		Kind:           models.KindHotel,
		Name:           name,
		SubKey:         strPtr(roomType),
		UnitPriceCents: priceCents,
		IsPublic:       isPublic,
	}
}

// TestPlanRoomsUnevenSplit проверяет раскладку 5 человек на 2 номера.
func TestPlanRoomsUnevenSplit(t *testing.T) {
	lines := PlanRooms(RoomAllocationRequest{HotelName: "Grand", PeopleCount: 5, RoomCount: 2}, nil)

	if len(lines) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(lines))
	}
	if lines[0].Occupancy != 3 || lines[0].Quantity != 1 {
		t.Fatalf("unexpected large group: occ=%d qty=%d", lines[0].Occupancy, lines[0].Quantity)
	}
	if lines[1].Occupancy != 2 || lines[1].Quantity != 1 {
		t.Fatalf("unexpected small group: occ=%d qty=%d", lines[1].Occupancy, lines[1].Quantity)
	}
	if !VerifyAllocation(lines, 5, 2) {
		t.Fatal("expected allocation invariant to hold")
	}
}

// TestPlanRoomsEvenSplitMerges проверяет слияние одинаковых групп для 4 человек на 2 номера.
func TestPlanRoomsEvenSplitMerges(t *testing.T) {
	lines := PlanRooms(RoomAllocationRequest{HotelName: "Grand", PeopleCount: 4, RoomCount: 2}, nil)

	if len(lines) != 1 {
		t.Fatalf("expected single merged group, got %d", len(lines))
	}
	if lines[0].Quantity != 2 || lines[0].Occupancy != 2 {
		t.Fatalf("unexpected group: occ=%d qty=%d", lines[0].Occupancy, lines[0].Quantity)
	}
	if !VerifyAllocation(lines, 4, 2) {
		t.Fatal("expected allocation invariant to hold")
	}
}

// TestPlanRoomsClampsDegenerateInput проверяет сжатие нулевых входов до единицы.
func TestPlanRoomsClampsDegenerateInput(t *testing.T) {
	lines := PlanRooms(RoomAllocationRequest{HotelName: "Grand", PeopleCount: 0, RoomCount: 0}, nil)

	if len(lines) != 1 {
		t.Fatalf("expected single group, got %d", len(lines))
	}
	if lines[0].Quantity != 1 || lines[0].Occupancy != 1 {
		t.Fatalf("unexpected group: occ=%d qty=%d", lines[0].Occupancy, lines[0].Quantity)
	}
	if lines[0].RoomType != "single room" {
		t.Fatalf("unexpected room type: %s", lines[0].RoomType)
	}
}

// TestPlanRoomsClampsExcessRooms проверяет сжатие числа номеров до числа людей.
func TestPlanRoomsClampsExcessRooms(t *testing.T) {
	lines := PlanRooms(RoomAllocationRequest{HotelName: "Grand", PeopleCount: 3, RoomCount: 5}, nil)

	if len(lines) != 1 {
		t.Fatalf("expected single group, got %d", len(lines))
	}
	if lines[0].Quantity != 3 || lines[0].Occupancy != 1 {
		t.Fatalf("unexpected group: occ=%d qty=%d", lines[0].Occupancy, lines[0].Quantity)
	}
	if !VerifyAllocation(lines, 3, 5) {
		t.Fatal("expected allocation invariant to hold for clamped input")
	}
}

// TestPlanRoomsMatchesCatalog проверяет подбор типов номеров из каталога отеля.
func TestPlanRoomsMatchesCatalog(t *testing.T) {
	catalog := []models.ResourceRecord{
		hotelRecord("Grand", "twin room", 9000, false),
		hotelRecord("Grand", "triple room", 12000, true),
		hotelRecord("Other", "twin room", 1, false),
	}

	lines := PlanRooms(RoomAllocationRequest{HotelName: "Grand", PeopleCount: 5, RoomCount: 2}, catalog)

	if len(lines) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(lines))
	}
	if lines[0].RoomType != "triple room" || lines[0].UnitPriceCents != 12000 || !lines[0].SourceIsPublic {
		t.Fatalf("unexpected large group line: %+v", lines[0])
	}
	if lines[1].RoomType != "twin room" || lines[1].UnitPriceCents != 9000 || lines[1].SourceIsPublic {
		t.Fatalf("unexpected small group line: %+v", lines[1])
	}
}

// TestPlanRoomsHintBonus проверяет бонус подсказки при выборе двухместного номера.
func TestPlanRoomsHintBonus(t *testing.T) {
	catalog := []models.ResourceRecord{
		hotelRecord("Grand", "standard room", 8000, false),
		hotelRecord("Grand", "king room", 11000, false),
	}

	lines := PlanRooms(RoomAllocationRequest{
		HotelName:         "Grand",
		PeopleCount:       2,
		RoomCount:         1,
		PreferredRoomType: "king",
	}, catalog)

	if len(lines) != 1 {
		t.Fatalf("expected single group, got %d", len(lines))
	}
	if lines[0].RoomType != "king room" {
		t.Fatalf("expected hint to win, got %s", lines[0].RoomType)
	}
}

// TestPlanRoomsFallbackDefaults проверяет типы по умолчанию без каталога.
func TestPlanRoomsFallbackDefaults(t *testing.T) {
	lines := PlanRooms(RoomAllocationRequest{HotelName: "Unknown", PeopleCount: 9, RoomCount: 2}, nil)

	if len(lines) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(lines))
	}
	if lines[0].RoomType != "family room" {
		t.Fatalf("expected family room for occupancy 5, got %s", lines[0].RoomType)
	}
	if lines[1].RoomType != "family room" {
		t.Fatalf("expected family room for occupancy 4, got %s", lines[1].RoomType)
	}
	if !VerifyAllocation(lines, 9, 2) {
		t.Fatal("expected allocation invariant to hold")
	}
	if lines[0].UnitPriceCents != 0 || lines[0].SourceIsPublic {
		t.Fatal("expected unresolved line to default to zero price")
	}
}

// TestRoomLinesToItems проверяет превращение раскладки в строки сметы.
func TestRoomLinesToItems(t *testing.T) {
	lines := []RoomLine{
		{RoomType: "twin room", Quantity: 2, Occupancy: 2, UnitPriceCents: 9000, SourceIsPublic: true},
	}

	items := RoomLinesToItems("Grand", lines)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Name != "Grand" || items[0].SubKey == nil || *items[0].SubKey != "twin room" {
		t.Fatalf("unexpected item keys: %+v", items[0])
	}
	if items[0].Quantity != 2 || items[0].UnitPriceCents != 9000 || !items[0].SourceIsPublic {
		t.Fatalf("unexpected item values: %+v", items[0])
	}
}
