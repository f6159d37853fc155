package engine

import (
	"testing"

	"example.com/travel-quote-planner/backend/internal/models"
)

func dayWithTickets(items ...models.SelectionItem) models.ItineraryDay {
	day := models.ItineraryDay{DayIndex: 1}
	day.TicketItems = items
	return day
}

// TestRecomputeCosts проверяет, что итог категории равен сумме её строк.
func TestRecomputeCosts(t *testing.T) {
	day := dayWithTickets(
		models.SelectionItem{Name: "museum", Quantity: 2, UnitPriceCents: 1500},
		models.SelectionItem{Name: "tower", Quantity: 3, UnitPriceCents: 700},
	)

	RecomputeCosts(&day)

	if day.Costs.Ticket != 2*1500+3*700 {
		t.Fatalf("unexpected ticket total: %d", day.Costs.Ticket)
	}
	if day.Costs.Hotel != 0 || day.Costs.Transport != 0 {
		t.Fatal("expected empty categories to stay zero")
	}
}

// TestRecomputeRespectsOverride проверяет, что ручной итог не пересчитывается.
func TestRecomputeRespectsOverride(t *testing.T) {
	day := dayWithTickets(models.SelectionItem{Name: "museum", Quantity: 1, UnitPriceCents: 500})

	SetManualTotal(&day, models.CategoryTicket, 9900)
	RecomputeCosts(&day)

	if day.Costs.Ticket != 9900 {
		t.Fatalf("expected manual total to survive recompute, got %d", day.Costs.Ticket)
	}
}

// TestReplaceItemsClearsOverride проверяет, что каталожная правка снимает фиксацию.
func TestReplaceItemsClearsOverride(t *testing.T) {
	day := dayWithTickets(models.SelectionItem{Name: "museum", Quantity: 1, UnitPriceCents: 500})
	SetManualTotal(&day, models.CategoryTicket, 9900)

	ReplaceItems(&day, models.CategoryTicket, []models.SelectionItem{
		{Name: "garden", Quantity: 4, UnitPriceCents: 250},
	})

	if day.Overridden(models.CategoryTicket) {
		t.Fatal("expected override flag to be cleared")
	}
	if day.Costs.Ticket != 1000 {
		t.Fatalf("expected recomputed total 1000, got %d", day.Costs.Ticket)
	}
}

// TestUnrelatedCategoryUntouched проверяет, что правка одной категории не задевает другую.
func TestUnrelatedCategoryUntouched(t *testing.T) {
	day := models.ItineraryDay{DayIndex: 1}
	day.HotelItems = []models.SelectionItem{{Name: "Grand", Quantity: 2, UnitPriceCents: 8000}}
	RecomputeCosts(&day)

	hotelBefore := day.Costs.Hotel

	ReplaceItems(&day, models.CategoryTicket, []models.SelectionItem{
		{Name: "museum", Quantity: 1, UnitPriceCents: 600},
	})

	if day.Costs.Hotel != hotelBefore {
		t.Fatalf("expected hotel total unchanged, got %d", day.Costs.Hotel)
	}
}

// TestSetManualTotalStoresVerbatim проверяет, что введённый итог хранится как есть.
func TestSetManualTotalStoresVerbatim(t *testing.T) {
	day := models.ItineraryDay{DayIndex: 1}

	SetManualTotal(&day, models.CategoryOther, 12345)

	if !day.Overridden(models.CategoryOther) {
		t.Fatal("expected override flag to be set")
	}
	if day.Costs.Other != 12345 {
		t.Fatalf("expected stored total 12345, got %d", day.Costs.Other)
	}
}
