package engine

import (
	"testing"

	"example.com/travel-quote-planner/backend/internal/models"
)

func testViewer() models.Viewer {
	return models.Viewer{Username: "alice", Role: models.RoleAdmin}
}

// TestRepriceUpdatesMatchedItems проверяет перенос цены и признака публичности.
func TestRepriceUpdatesMatchedItems(t *testing.T) {
	days := []models.ItineraryDay{{
		DayIndex: 1,
		TicketItems: []models.SelectionItem{
			{Name: "museum", Quantity: 2, UnitPriceCents: 100},
		},
	}}

	catalogs := CatalogSet{
		models.KindTicket: {
			{Kind: models.KindTicket, Name: "museum", UnitPriceCents: 1500, IsPublic: true},
		},
	}

	RepriceDays(testViewer(), days, catalogs)

	item := days[0].TicketItems[0]
	if item.UnitPriceCents != 1500 || !item.SourceIsPublic {
		t.Fatalf("unexpected item after reprice: %+v", item)
	}
	if days[0].Costs.Ticket != 3000 {
		t.Fatalf("expected recomputed total 3000, got %d", days[0].Costs.Ticket)
	}
}

// TestRepriceKeepsStalePrice проверяет, что строка без совпадения не меняется.
func TestRepriceKeepsStalePrice(t *testing.T) {
	days := []models.ItineraryDay{{
		DayIndex: 1,
		TicketItems: []models.SelectionItem{
			{Name: "closed museum", Quantity: 1, UnitPriceCents: 700, SourceIsPublic: true},
		},
	}}

	RepriceDays(testViewer(), days, CatalogSet{models.KindTicket: nil})

	item := days[0].TicketItems[0]
	if item.UnitPriceCents != 700 || !item.SourceIsPublic {
		t.Fatalf("expected stale price retained, got %+v", item)
	}
	if days[0].Costs.Ticket != 700 {
		t.Fatalf("expected total from stale price, got %d", days[0].Costs.Ticket)
	}
}

// TestRepriceTransportFallback проверяет запасной поиск транспорта по модели.
func TestRepriceTransportFallback(t *testing.T) {
	days := []models.ItineraryDay{{
		DayIndex: 1,
		TransportItems: []models.SelectionItem{
			{Name: "minibus", SubKey: strPtr("airport transfer"), Quantity: 1, UnitPriceCents: 100},
		},
	}}

	catalogs := CatalogSet{
		models.KindTransport: {
			{Kind: models.KindTransport, Name: "minibus", SubKey: strPtr("full day"), UnitPriceCents: 4200},
		},
	}

	RepriceDays(testViewer(), days, catalogs)

	item := days[0].TransportItems[0]
	if item.UnitPriceCents != 4200 {
		t.Fatalf("expected fallback by model, got %+v", item)
	}
	if item.SubKey == nil || *item.SubKey != "airport transfer" {
		t.Fatalf("expected transport service type preserved, got %+v", item.SubKey)
	}
}

// TestRepriceHotelFallbackAdoptsRoomType проверяет, что запасной поиск отеля перенимает тип номера.
func TestRepriceHotelFallbackAdoptsRoomType(t *testing.T) {
	days := []models.ItineraryDay{{
		DayIndex: 1,
		HotelItems: []models.SelectionItem{
			{Name: "Grand", SubKey: strPtr("old suite"), Quantity: 2, UnitPriceCents: 100},
		},
	}}

	catalogs := CatalogSet{
		models.KindHotel: {
			{Kind: models.KindHotel, Name: "Grand", SubKey: strPtr("twin room"), UnitPriceCents: 9000},
		},
	}

	RepriceDays(testViewer(), days, catalogs)

	item := days[0].HotelItems[0]
	if item.SubKey == nil || *item.SubKey != "twin room" {
		t.Fatalf("expected adopted room type, got %+v", item.SubKey)
	}
	if item.UnitPriceCents != 9000 {
		t.Fatalf("expected catalog price, got %d", item.UnitPriceCents)
	}
}

// TestRepriceSkipsHiddenRecords проверяет, что чужие приватные записи не участвуют в переоценке.
func TestRepriceSkipsHiddenRecords(t *testing.T) {
	bob := models.Viewer{Username: "bob", Role: models.RoleStandard}

	days := []models.ItineraryDay{{
		DayIndex: 1,
		TicketItems: []models.SelectionItem{
			{Name: "museum", Quantity: 1, UnitPriceCents: 500},
		},
	}}

	catalogs := CatalogSet{
		models.KindTicket: {
			{Kind: models.KindTicket, Name: "museum", UnitPriceCents: 9999, OwnerUsername: strPtr("alice")},
		},
	}

	RepriceDays(bob, days, catalogs)

	if days[0].TicketItems[0].UnitPriceCents != 500 {
		t.Fatalf("expected hidden record to be ignored, got %d", days[0].TicketItems[0].UnitPriceCents)
	}
}

// TestRepricePreservesManualTotal проверяет, что ручной итог переживает переоценку.
func TestRepricePreservesManualTotal(t *testing.T) {
	day := models.ItineraryDay{
		DayIndex: 1,
		TicketItems: []models.SelectionItem{
			{Name: "museum", Quantity: 1, UnitPriceCents: 500},
		},
	}
	SetManualTotal(&day, models.CategoryTicket, 42)
	days := []models.ItineraryDay{day}

	catalogs := CatalogSet{
		models.KindTicket: {
			{Kind: models.KindTicket, Name: "museum", UnitPriceCents: 1500},
		},
	}

	RepriceDays(testViewer(), days, catalogs)

	if days[0].TicketItems[0].UnitPriceCents != 1500 {
		t.Fatal("expected item price to be refreshed")
	}
	if days[0].Costs.Ticket != 42 {
		t.Fatalf("expected manual total to survive, got %d", days[0].Costs.Ticket)
	}
}
