package handlers

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"example.com/travel-quote-planner/backend/internal/models"
)

func quoteTrip() models.Trip {
	day := models.ItineraryDay{
		DayIndex: 1,
		Date:     "2026-10-01",
		TicketItems: []models.SelectionItem{
			{ID: uuid.New(), Name: "Museum", Quantity: 2, UnitPriceCents: 1500, SourceIsPublic: true},
		},
		HotelItems: []models.SelectionItem{
			{ID: uuid.New(), Name: "Hotel Kazbegi", Quantity: 1, UnitPriceCents: 9000},
		},
		Costs: models.DayCosts{Ticket: 3000, Hotel: 9000},
	}

	return models.Trip{
		ID:    uuid.New(),
		Title: "Georgia loop",
		Settings: models.TripSettings{
			Destinations: "Tbilisi, Kazbegi",
			StartDate:    "2026-10-01",
			PeopleCount:  2,
			RoomCount:    1,
		},
		Days: []models.ItineraryDay{day},
	}
}

// TestBuildQuoteMasksPublicForStandard проверяет маскирование итогов
// категории с опубликованной строкой для standard-зрителя.
func TestBuildQuoteMasksPublicForStandard(t *testing.T) {
	viewer := models.Viewer{Username: "alice", Role: models.RoleStandard}
	quote := BuildQuote(viewer, quoteTrip())

	if len(quote.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(quote.Days))
	}

	var ticket, hotel QuoteCategory
	for _, category := range quote.Days[0].Categories {
		switch category.Category {
		case "ticket":
			ticket = category
		case "hotel":
			hotel = category
		}
	}

	if !ticket.Masked {
		t.Fatal("expected ticket category to be masked")
	}
	if ticket.TotalCents != nil {
		t.Fatal("expected no numeric total for masked category")
	}
	if !strings.HasPrefix(ticket.DisplayTotal, "3") || !strings.Contains(ticket.DisplayTotal, "*") {
		t.Fatalf("expected masked total keeping first digit, got %s", ticket.DisplayTotal)
	}

	if hotel.Masked {
		t.Fatal("expected hotel category to stay open")
	}
	if hotel.TotalCents == nil || *hotel.TotalCents != 9000 {
		t.Fatalf("expected hotel total 9000, got %v", hotel.TotalCents)
	}

	// Маска тянется вверх: итог дня и общий итог тоже скрыты.
	if quote.Days[0].TotalCents != nil {
		t.Fatal("expected masked day total")
	}
	if quote.TotalCents != nil {
		t.Fatal("expected masked grand total")
	}
	if !strings.Contains(quote.DisplayTotal, "*") {
		t.Fatalf("expected masked grand total, got %s", quote.DisplayTotal)
	}
}

// TestBuildQuoteAdminSeesRealTotals проверяет полное раскрытие цен для admin.
func TestBuildQuoteAdminSeesRealTotals(t *testing.T) {
	viewer := models.Viewer{Username: "bob", Role: models.RoleAdmin}
	quote := BuildQuote(viewer, quoteTrip())

	if quote.TotalCents == nil || *quote.TotalCents != 12000 {
		t.Fatalf("expected grand total 12000, got %v", quote.TotalCents)
	}
	if quote.DisplayTotal != "12000" {
		t.Fatalf("expected display total 12000, got %s", quote.DisplayTotal)
	}

	for _, category := range quote.Days[0].Categories {
		if category.Masked {
			t.Fatalf("expected no masked categories for admin, got %s", category.Category)
		}
	}
}

// TestToQuoteItemMasksPublicUnitPrice проверяет маскирование цены строки
// из опубликованной записи.
func TestToQuoteItemMasksPublicUnitPrice(t *testing.T) {
	item := models.SelectionItem{ID: uuid.New(), Name: "Museum", Quantity: 2, UnitPriceCents: 1500, SourceIsPublic: true}

	standard := toQuoteItem(models.Viewer{Username: "alice", Role: models.RoleStandard}, item)
	if standard.UnitPriceCents != nil {
		t.Fatal("expected no numeric unit price for standard viewer")
	}
	if !strings.Contains(standard.DisplayUnitPrice, "*") {
		t.Fatalf("expected masked unit price, got %s", standard.DisplayUnitPrice)
	}

	admin := toQuoteItem(models.Viewer{Username: "bob", Role: models.RoleAdmin}, item)
	if admin.UnitPriceCents == nil || *admin.UnitPriceCents != 1500 {
		t.Fatalf("expected unit price 1500, got %v", admin.UnitPriceCents)
	}
	if admin.DisplayTotal != "3000" {
		t.Fatalf("expected total 3000, got %s", admin.DisplayTotal)
	}
}
