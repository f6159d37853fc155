package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/travel-quote-planner/backend/internal/auth"
	"example.com/travel-quote-planner/backend/internal/engine"
	"example.com/travel-quote-planner/backend/internal/models"
	"example.com/travel-quote-planner/backend/internal/repository"
)

type QuoteHandler struct {
	Trips *repository.TripRepository
}

// NewQuoteHandler создает обработчик сметы поездки.
func NewQuoteHandler(trips *repository.TripRepository) *QuoteHandler {
	return &QuoteHandler{Trips: trips}
}

type QuoteItem struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	SubKey           *string   `json:"sub_key,omitempty"`
	Quantity         int       `json:"quantity"`
	DisplayUnitPrice string    `json:"display_unit_price"`
	UnitPriceCents   *int64    `json:"unit_price_cents,omitempty"`
	DisplayTotal     string    `json:"display_total"`
}

type QuoteCategory struct {
	Category     string      `json:"category"`
	Items        []QuoteItem `json:"items"`
	DisplayTotal string      `json:"display_total"`
	TotalCents   *int64      `json:"total_cents,omitempty"`
	Manual       bool        `json:"manual"`
	Masked       bool        `json:"masked"`
}

type QuoteDay struct {
	DayIndex     int             `json:"day_index"`
	Date         string          `json:"date,omitempty"`
	Route        string          `json:"route,omitempty"`
	Description  string          `json:"description,omitempty"`
	Categories   []QuoteCategory `json:"categories"`
	DisplayTotal string          `json:"display_total"`
	TotalCents   *int64          `json:"total_cents,omitempty"`
}

type QuoteResponse struct {
	TripID       uuid.UUID  `json:"trip_id"`
	Title        string     `json:"title"`
	Destinations string     `json:"destinations"`
	StartDate    string     `json:"start_date"`
	PeopleCount  int        `json:"people_count"`
	RoomCount    int        `json:"room_count"`
	Days         []QuoteDay `json:"days"`
	DisplayTotal string     `json:"display_total"`
	TotalCents   *int64     `json:"total_cents,omitempty"`
}

// Get возвращает смету поездки с ценами, раскрытыми по роли зрителя.
func (h *QuoteHandler) Get(c echo.Context) error {
	viewer, ok := auth.ViewerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	userID, okID := auth.UserIDFromContext(c)
	if !okID {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	trip, err := h.Trips.GetByID(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, BuildQuote(viewer, trip))
}

// BuildQuote собирает смету: итог категории маскируется для standard-зрителя,
// если в категории есть строка из опубликованной записи; маска тянется
// вверх в итог дня и общий итог поездки.
func BuildQuote(viewer models.Viewer, trip models.Trip) QuoteResponse {
	response := QuoteResponse{
		TripID:       trip.ID,
		Title:        trip.Title,
		Destinations: trip.Settings.Destinations,
		StartDate:    trip.Settings.StartDate,
		PeopleCount:  trip.Settings.PeopleCount,
		RoomCount:    trip.Settings.RoomCount,
		Days:         make([]QuoteDay, 0, len(trip.Days)),
	}

	var grandTotal int64
	grandMasked := false

	for i := range trip.Days {
		day := &trip.Days[i]
		quoteDay := QuoteDay{
			DayIndex:    day.DayIndex,
			Date:        day.Date,
			Route:       day.Route,
			Description: day.Description,
			Categories:  make([]QuoteCategory, 0, len(models.Categories)),
		}

		var dayTotal int64
		dayMasked := false

		for _, category := range models.Categories {
			items := day.ItemsFor(category)
			total := day.CostFor(category)
			masked := engine.ShouldMaskCategory(viewer, items)

			quoteCategory := QuoteCategory{
				Category: string(category),
				Items:    make([]QuoteItem, 0, len(items)),
				Manual:   day.Overridden(category),
				Masked:   masked,
			}

			for _, item := range items {
				quoteCategory.Items = append(quoteCategory.Items, toQuoteItem(viewer, item))
			}

			if masked {
				quoteCategory.DisplayTotal = engine.MaskAmountCents(total)
				dayMasked = true
			} else {
				value := total
				quoteCategory.TotalCents = &value
				quoteCategory.DisplayTotal = engine.FormatAmountCents(total)
			}

			dayTotal += total
			quoteDay.Categories = append(quoteDay.Categories, quoteCategory)
		}

		if dayMasked {
			quoteDay.DisplayTotal = engine.MaskAmountCents(dayTotal)
			grandMasked = true
		} else {
			value := dayTotal
			quoteDay.TotalCents = &value
			quoteDay.DisplayTotal = engine.FormatAmountCents(dayTotal)
		}

		grandTotal += dayTotal
		response.Days = append(response.Days, quoteDay)
	}

	if grandMasked {
		response.DisplayTotal = engine.MaskAmountCents(grandTotal)
	} else {
		value := grandTotal
		response.TotalCents = &value
		response.DisplayTotal = engine.FormatAmountCents(grandTotal)
	}

	return response
}

func toQuoteItem(viewer models.Viewer, item models.SelectionItem) QuoteItem {
	quoteItem := QuoteItem{
		ID:       item.ID,
		Name:     item.Name,
		SubKey:   item.SubKey,
		Quantity: item.Quantity,
	}

	if viewer.Role == models.RoleStandard && item.SourceIsPublic {
		quoteItem.DisplayUnitPrice = engine.MaskAmountCents(item.UnitPriceCents)
		quoteItem.DisplayTotal = engine.MaskAmountCents(item.TotalCents())
	} else {
		price := item.UnitPriceCents
		quoteItem.UnitPriceCents = &price
		quoteItem.DisplayUnitPrice = engine.FormatAmountCents(price)
		quoteItem.DisplayTotal = engine.FormatAmountCents(item.TotalCents())
	}

	return quoteItem
}
