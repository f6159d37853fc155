package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/travel-quote-planner/backend/internal/models"
)

// ErrEmptyProposal возвращается, когда предложение планировщика не содержит дней.
var ErrEmptyProposal = errors.New("proposal contains no days")

const dateLayout = "2006-01-02"

type GlobalOverrides struct {
	Destinations *string `json:"destinations,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	PeopleCount  *int    `json:"people_count,omitempty"`
	RoomCount    *int    `json:"room_count,omitempty"`
}

type ProposalDay struct {
	DayIndex      int              `json:"day_index"`
	Route         *string          `json:"route,omitempty"`
	Origin        *string          `json:"origin,omitempty"`
	Destination   *string          `json:"destination,omitempty"`
	HotelName     *string          `json:"hotel_name,omitempty"`
	CarModel      *string          `json:"car_model,omitempty"`
	TicketNames   []string         `json:"ticket_names,omitempty"`
	ActivityNames []string         `json:"activity_names,omitempty"`
	Description   *string          `json:"description,omitempty"`
	ExplicitCosts map[string]int64 `json:"explicit_costs,omitempty"`
}

type Proposal struct {
	GlobalOverrides   *GlobalOverrides `json:"global_overrides,omitempty"`
	IsFullReplacement bool             `json:"is_full_replacement,omitempty"`
	Days              []ProposalDay    `json:"days"`
}

// Reconcile вливает предложение планировщика в рабочий массив дней поездки.
// Дни и категории, не упомянутые в предложении, остаются нетронутыми.
// Возвращает индексы затронутых дней. При пустом или некорректном
// предложении поездка не изменяется.
func Reconcile(viewer models.Viewer, trip *models.Trip, proposal Proposal, catalogs CatalogSet) ([]int, error) {
	if len(proposal.Days) == 0 {
		return nil, ErrEmptyProposal
	}

	maxDay := 0
	for _, day := range proposal.Days {
		if day.DayIndex < 1 {
			return nil, fmt.Errorf("proposal day index %d is out of range", day.DayIndex)
		}
		if day.DayIndex > maxDay {
			maxDay = day.DayIndex
		}
	}

	applyGlobalOverrides(&trip.Settings, proposal.GlobalOverrides)

	for len(trip.Days) < maxDay {
		trip.Days = append(trip.Days, emptyDay(trip.Settings, len(trip.Days)+1))
	}
	if proposal.IsFullReplacement && maxDay < len(trip.Days) {
		// Полная замена отбрасывает лишние дни вместе с их ручными итогами.
		trip.Days = trip.Days[:maxDay]
	}

	visible := VisibleCatalogs(viewer, catalogs)

	touched := make([]int, 0, len(proposal.Days))
	for _, proposed := range proposal.Days {
		day := &trip.Days[proposed.DayIndex-1]
		applyProposalDay(day, proposed, trip.Settings, visible)
		RecomputeCosts(day)
		touched = append(touched, proposed.DayIndex)
	}

	return touched, nil
}

func applyGlobalOverrides(settings *models.TripSettings, overrides *GlobalOverrides) {
	if overrides == nil {
		return
	}

	if overrides.Destinations != nil && strings.TrimSpace(*overrides.Destinations) != "" {
		settings.Destinations = strings.TrimSpace(*overrides.Destinations)
	}
	if overrides.StartDate != nil {
		if _, err := time.Parse(dateLayout, *overrides.StartDate); err == nil {
			settings.StartDate = *overrides.StartDate
		}
	}
	if overrides.PeopleCount != nil && *overrides.PeopleCount > 0 {
		settings.PeopleCount = *overrides.PeopleCount
	}
	if overrides.RoomCount != nil && *overrides.RoomCount > 0 {
		settings.RoomCount = *overrides.RoomCount
	}
}

// EmptyDays строит массив пустых дней с датами от начала поездки.
func EmptyDays(settings models.TripSettings, count int) []models.ItineraryDay {
	days := make([]models.ItineraryDay, 0, count)
	for i := 1; i <= count; i++ {
		days = append(days, emptyDay(settings, i))
	}
	return days
}

func emptyDay(settings models.TripSettings, dayIndex int) models.ItineraryDay {
	day := models.ItineraryDay{
		DayIndex:       dayIndex,
		TransportItems: []models.SelectionItem{},
		HotelItems:     []models.SelectionItem{},
		TicketItems:    []models.SelectionItem{},
		ActivityItems:  []models.SelectionItem{},
		OtherItems:     []models.SelectionItem{},
	}

	if start, err := time.Parse(dateLayout, settings.StartDate); err == nil {
		day.Date = start.AddDate(0, 0, dayIndex-1).Format(dateLayout)
	}

	return day
}

func applyProposalDay(day *models.ItineraryDay, proposed ProposalDay, settings models.TripSettings, visible CatalogSet) {
	people := settings.PeopleCount
	if people < 1 {
		people = 1
	}

	routeChanged := false
	if proposed.Route != nil && strings.TrimSpace(*proposed.Route) != "" {
		day.Route = strings.TrimSpace(*proposed.Route)
		routeChanged = true
	} else if proposed.Origin != nil && proposed.Destination != nil {
		day.Route = strings.TrimSpace(*proposed.Origin) + " - " + strings.TrimSpace(*proposed.Destination)
		routeChanged = true
	}

	if proposed.Description != nil {
		day.Description = strings.TrimSpace(*proposed.Description)
	}

	if proposed.TicketNames != nil {
		ReplaceItems(day, models.CategoryTicket, namesToItems(proposed.TicketNames, people))
	}
	if proposed.ActivityNames != nil {
		ReplaceItems(day, models.CategoryActivity, namesToItems(proposed.ActivityNames, people))
	}

	if proposed.HotelName != nil && strings.TrimSpace(*proposed.HotelName) != "" {
		hotelName := strings.TrimSpace(*proposed.HotelName)
		lines := PlanRooms(RoomAllocationRequest{
			HotelName:   hotelName,
			PeopleCount: people,
			RoomCount:   settings.RoomCount,
		}, visible[models.KindHotel])
		ReplaceItems(day, models.CategoryHotel, RoomLinesToItems(hotelName, lines))
	}

	if routeChanged || proposed.CarModel != nil {
		if item, ok := buildTransportItem(proposed, day.Route, people, visible[models.KindTransport]); ok {
			ReplaceItems(day, models.CategoryTransport, []models.SelectionItem{item})
		}
	}

	for key, cents := range proposed.ExplicitCosts {
		if category, ok := models.ParseCategory(key); ok {
			SetManualTotal(day, category, cents)
		}
	}
}

func namesToItems(names []string, quantity int) []models.SelectionItem {
	items := make([]models.SelectionItem, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		// Цена 0 до ближайшего прогона переоценки по каталогу.
		items = append(items, models.SelectionItem{
			ID:       uuid.New(),
			Name:     trimmed,
			Quantity: quantity,
		})
	}
	return items
}

// buildTransportItem подбирает машину: запрошенную модель, иначе первую
// видимую запись, обслуживающую регион назначения, иначе первую видимую.
// Без запрошенной модели и записей в каталоге транспорт дня не трогается.
func buildTransportItem(proposed ProposalDay, route string, people int, catalog []models.ResourceRecord) (models.SelectionItem, bool) {
	requested := ""
	if proposed.CarModel != nil {
		requested = strings.TrimSpace(*proposed.CarModel)
	}

	if requested != "" {
		if record, ok := findByName(catalog, requested); ok {
			return transportItemFromRecord(record, people), true
		}
		return models.SelectionItem{
			ID:       uuid.New(),
			Name:     requested,
			Quantity: ceilDiv(people, defaultCarCapacity),
		}, true
	}

	if len(catalog) == 0 {
		return models.SelectionItem{}, false
	}

	lowerRoute := strings.ToLower(route)
	for _, record := range catalog {
		if record.Region != "" && strings.Contains(lowerRoute, strings.ToLower(record.Region)) {
			return transportItemFromRecord(record, people), true
		}
	}

	return transportItemFromRecord(catalog[0], people), true
}

const defaultCarCapacity = 4

func transportItemFromRecord(record models.ResourceRecord, people int) models.SelectionItem {
	capacity := record.Capacity
	if capacity < 1 {
		capacity = defaultCarCapacity
	}

	return models.SelectionItem{
		ID:             uuid.New(),
		Name:           record.Name,
		SubKey:         record.SubKey,
		Quantity:       ceilDiv(people, capacity),
		UnitPriceCents: record.UnitPriceCents,
		SourceIsPublic: record.IsPublic,
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
