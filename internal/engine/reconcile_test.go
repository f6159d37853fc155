package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"example.com/travel-quote-planner/backend/internal/models"
)

func fiveDayTrip() models.Trip {
	trip := models.Trip{
		Title: "autumn tour",
		Settings: models.TripSettings{
			Destinations: "Tbilisi, Kazbegi",
			StartDate:    "2026-10-01",
			PeopleCount:  4,
			RoomCount:    2,
		},
	}
	for i := 1; i <= 5; i++ {
		day := models.ItineraryDay{DayIndex: i, Route: "stay"}
		day.TicketItems = []models.SelectionItem{
			{Name: "museum", Quantity: 4, UnitPriceCents: 500},
		}
		RecomputeCosts(&day)
		trip.Days = append(trip.Days, day)
	}
	return trip
}

func dayJSON(t *testing.T, day models.ItineraryDay) string {
	t.Helper()
	raw, err := json.Marshal(day)
	if err != nil {
		t.Fatalf("marshal day: %v", err)
	}
	return string(raw)
}

// TestReconcileEmptyProposal проверяет, что пустое предложение не трогает поездку.
func TestReconcileEmptyProposal(t *testing.T) {
	trip := fiveDayTrip()
	before := dayJSON(t, trip.Days[0])

	_, err := Reconcile(testViewer(), &trip, Proposal{}, nil)
	if !errors.Is(err, ErrEmptyProposal) {
		t.Fatalf("expected ErrEmptyProposal, got %v", err)
	}
	if len(trip.Days) != 5 || dayJSON(t, trip.Days[0]) != before {
		t.Fatal("expected trip to stay unchanged after rejected proposal")
	}
}

// TestReconcileInvalidDayIndex проверяет отказ без изменений при индексе вне диапазона.
func TestReconcileInvalidDayIndex(t *testing.T) {
	trip := fiveDayTrip()

	proposal := Proposal{Days: []ProposalDay{{DayIndex: 0, Route: strPtr("anywhere")}}}
	if _, err := Reconcile(testViewer(), &trip, proposal, nil); err == nil {
		t.Fatal("expected error for day index below 1")
	}
	if trip.Days[0].Route != "stay" {
		t.Fatal("expected trip to stay unchanged after rejected proposal")
	}
}

// TestReconcilePartialMerge проверяет, что незатронутые дни и категории не меняются.
func TestReconcilePartialMerge(t *testing.T) {
	trip := fiveDayTrip()
	day4Before := dayJSON(t, trip.Days[3])
	day5Before := dayJSON(t, trip.Days[4])

	proposal := Proposal{Days: []ProposalDay{{
		DayIndex:      2,
		Route:         strPtr("Tbilisi - Kazbegi"),
		ActivityNames: []string{"hiking"},
	}}}

	touched, err := Reconcile(testViewer(), &trip, proposal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(touched) != 1 || touched[0] != 2 {
		t.Fatalf("unexpected touched days: %v", touched)
	}

	if trip.Days[1].Route != "Tbilisi - Kazbegi" {
		t.Fatalf("unexpected route: %s", trip.Days[1].Route)
	}
	if len(trip.Days[1].ActivityItems) != 1 || trip.Days[1].ActivityItems[0].Quantity != 4 {
		t.Fatalf("unexpected activities: %+v", trip.Days[1].ActivityItems)
	}
	// Категория билетов дня 2 не упоминалась и должна уцелеть.
	if trip.Days[1].Costs.Ticket != 2000 {
		t.Fatalf("expected ticket total untouched, got %d", trip.Days[1].Costs.Ticket)
	}

	if dayJSON(t, trip.Days[3]) != day4Before || dayJSON(t, trip.Days[4]) != day5Before {
		t.Fatal("expected unmentioned days to stay byte-identical")
	}
}

// TestReconcileFullReplacementTruncates проверяет усечение поездки при полной замене.
func TestReconcileFullReplacementTruncates(t *testing.T) {
	trip := fiveDayTrip()
	SetManualTotal(&trip.Days[4], models.CategoryOther, 777)

	proposal := Proposal{
		IsFullReplacement: true,
		Days: []ProposalDay{
			{DayIndex: 1, Route: strPtr("arrival")},
			{DayIndex: 2, Route: strPtr("mountains")},
			{DayIndex: 3, Route: strPtr("departure")},
		},
	}

	touched, err := Reconcile(testViewer(), &trip, proposal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trip.Days) != 3 {
		t.Fatalf("expected 3 days after full replacement, got %d", len(trip.Days))
	}
	if len(touched) != 3 {
		t.Fatalf("unexpected touched days: %v", touched)
	}
	for i, route := range []string{"arrival", "mountains", "departure"} {
		if trip.Days[i].Route != route {
			t.Fatalf("unexpected route for day %d: %s", i+1, trip.Days[i].Route)
		}
	}
}

// TestReconcileAppendsMissingDays проверяет дорастание массива дней до предложения.
func TestReconcileAppendsMissingDays(t *testing.T) {
	trip := fiveDayTrip()

	proposal := Proposal{Days: []ProposalDay{{DayIndex: 7, Route: strPtr("extension")}}}

	if _, err := Reconcile(testViewer(), &trip, proposal, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trip.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(trip.Days))
	}
	if trip.Days[5].Date != "2026-10-06" {
		t.Fatalf("unexpected date for appended day 6: %s", trip.Days[5].Date)
	}
	if trip.Days[6].Route != "extension" {
		t.Fatalf("unexpected route: %s", trip.Days[6].Route)
	}
}

// TestReconcileGlobalOverrides проверяет перенос глобальных настроек из предложения.
func TestReconcileGlobalOverrides(t *testing.T) {
	trip := fiveDayTrip()

	people := 6
	proposal := Proposal{
		GlobalOverrides: &GlobalOverrides{
			Destinations: strPtr("Yerevan"),
			StartDate:    strPtr("2026-11-01"),
			PeopleCount:  &people,
		},
		Days: []ProposalDay{{DayIndex: 1, TicketNames: []string{"cathedral"}}},
	}

	if _, err := Reconcile(testViewer(), &trip, proposal, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Settings.Destinations != "Yerevan" || trip.Settings.StartDate != "2026-11-01" {
		t.Fatalf("unexpected settings: %+v", trip.Settings)
	}
	if trip.Settings.PeopleCount != 6 {
		t.Fatalf("expected people count 6, got %d", trip.Settings.PeopleCount)
	}
	// Новое количество людей действует уже при наполнении дня.
	if trip.Days[0].TicketItems[0].Quantity != 6 {
		t.Fatalf("unexpected ticket quantity: %d", trip.Days[0].TicketItems[0].Quantity)
	}
}

// TestReconcileExplicitCosts проверяет, что явные суммы становятся ручными итогами.
func TestReconcileExplicitCosts(t *testing.T) {
	trip := fiveDayTrip()

	proposal := Proposal{Days: []ProposalDay{{
		DayIndex:      1,
		TicketNames:   []string{"fortress"},
		ExplicitCosts: map[string]int64{"ticket": 12000, "bogus": 1},
	}}}

	if _, err := Reconcile(testViewer(), &trip, proposal, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day := trip.Days[0]
	if !day.Overridden(models.CategoryTicket) {
		t.Fatal("expected explicit cost to set manual override")
	}
	if day.Costs.Ticket != 12000 {
		t.Fatalf("expected manual total 12000, got %d", day.Costs.Ticket)
	}
	if day.Overridden(models.CategoryOther) || day.Costs.Other != 0 {
		t.Fatal("expected unknown cost key to be ignored")
	}
}

// TestReconcileHotelAndTransport проверяет наполнение отеля и транспорта из каталога.
func TestReconcileHotelAndTransport(t *testing.T) {
	trip := fiveDayTrip()

	catalogs := CatalogSet{
		models.KindHotel: {
			hotelRecord("Grand", "twin room", 9000, true),
		},
		models.KindTransport: {
			{Kind: models.KindTransport, Name: "minibus", UnitPriceCents: 20000, Capacity: 8, Region: "kazbegi"},
		},
	}

	proposal := Proposal{Days: []ProposalDay{{
		DayIndex:  2,
		Route:     strPtr("Tbilisi - Kazbegi"),
		HotelName: strPtr("Grand"),
	}}}

	if _, err := Reconcile(testViewer(), &trip, proposal, catalogs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day := trip.Days[1]
	if len(day.HotelItems) != 1 || day.HotelItems[0].Name != "Grand" {
		t.Fatalf("unexpected hotel items: %+v", day.HotelItems)
	}
	if day.Costs.Hotel != 2*9000 {
		t.Fatalf("unexpected hotel total: %d", day.Costs.Hotel)
	}
	if len(day.TransportItems) != 1 || day.TransportItems[0].Name != "minibus" {
		t.Fatalf("unexpected transport items: %+v", day.TransportItems)
	}
	if day.TransportItems[0].Quantity != 1 {
		t.Fatalf("expected one vehicle for 4 people, got %d", day.TransportItems[0].Quantity)
	}
}
