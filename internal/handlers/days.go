package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/travel-quote-planner/backend/internal/auth"
	"example.com/travel-quote-planner/backend/internal/engine"
	"example.com/travel-quote-planner/backend/internal/models"
	"example.com/travel-quote-planner/backend/internal/notifications"
	"example.com/travel-quote-planner/backend/internal/repository"
)

type DayHandler struct {
	Trips    *repository.TripRepository
	Catalogs *repository.CatalogRepository
	Hub      *notifications.Hub
}

// NewDayHandler создает обработчик дней поездки.
func NewDayHandler(trips *repository.TripRepository, catalogs *repository.CatalogRepository, hub *notifications.Hub) *DayHandler {
	return &DayHandler{Trips: trips, Catalogs: catalogs, Hub: hub}
}

type ItemRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	SubKey         *string `json:"sub_key" validate:"omitempty,max=100"`
	Quantity       int     `json:"quantity" validate:"required,min=1,max=10000"`
	UnitPriceCents int64   `json:"unit_price_cents" validate:"gte=0"`
}

type ReplaceItemsRequest struct {
	Items []ItemRequest `json:"items" validate:"dive"`
}

type ManualTotalRequest struct {
	TotalCents int64 `json:"total_cents" validate:"gte=0"`
}

type PlanRoomsRequest struct {
	HotelName         string `json:"hotel_name" validate:"required,max=200"`
	PreferredRoomType string `json:"preferred_room_type" validate:"omitempty,max=100"`
}

type DayResponse struct {
	Day models.ItineraryDay `json:"day"`
}

func (h *DayHandler) loadTripDay(c echo.Context) (uuid.UUID, models.Trip, int, models.Category, error) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return uuid.Nil, models.Trip{}, 0, "", unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, models.Trip{}, 0, "", badRequest(c, "invalid trip id")
	}

	dayIndex, err := strconv.Atoi(c.Param("day"))
	if err != nil || dayIndex < 1 {
		return uuid.Nil, models.Trip{}, 0, "", badRequest(c, "invalid day index")
	}

	category, ok := models.ParseCategory(c.Param("category"))
	if !ok {
		return uuid.Nil, models.Trip{}, 0, "", badRequest(c, "unknown category")
	}

	trip, err := h.Trips.GetByID(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, models.Trip{}, 0, "", notFound(c, "trip not found")
		}
		return uuid.Nil, models.Trip{}, 0, "", serverError(c)
	}

	if dayIndex > len(trip.Days) {
		return uuid.Nil, models.Trip{}, 0, "", notFound(c, "day not found")
	}

	return userID, trip, dayIndex, category, nil
}

func (h *DayHandler) saveAndRespond(c echo.Context, userID uuid.UUID, trip models.Trip, dayIndex int) error {
	if err := h.Trips.SaveDays(c.Request().Context(), userID, trip.ID, trip.Settings, trip.Days); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	publishQuoteUpdate(h.Hub, userID, trip.ID)
	return c.JSON(http.StatusOK, DayResponse{Day: trip.Days[dayIndex-1]})
}

func publishQuoteUpdate(hub *notifications.Hub, userID, tripID uuid.UUID) {
	if hub == nil {
		return
	}
	hub.Publish(userID, notifications.Event{
		Type: "quote_updated",
		Data: map[string]string{"trip_id": tripID.String()},
	})
}

// ReplaceItems заменяет строки категории дня и снимает ручную фиксацию итога.
func (h *DayHandler) ReplaceItems(c echo.Context) error {
	userID, trip, dayIndex, category, err := h.loadTripDay(c)
	if err != nil {
		return err
	}

	var req ReplaceItemsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	items := make([]models.SelectionItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.SelectionItem{
			ID:             uuid.New(),
			Name:           strings.TrimSpace(item.Name),
			SubKey:         normalizeName(item.SubKey),
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	engine.ReplaceItems(&trip.Days[dayIndex-1], category, items)

	return h.saveAndRespond(c, userID, trip, dayIndex)
}

// SetManualTotal фиксирует итог категории дня вручную.
func (h *DayHandler) SetManualTotal(c echo.Context) error {
	userID, trip, dayIndex, category, err := h.loadTripDay(c)
	if err != nil {
		return err
	}

	var req ManualTotalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	engine.SetManualTotal(&trip.Days[dayIndex-1], category, req.TotalCents)

	return h.saveAndRespond(c, userID, trip, dayIndex)
}

// ClearManualTotal снимает ручную фиксацию и пересчитывает итог по строкам.
func (h *DayHandler) ClearManualTotal(c echo.Context) error {
	userID, trip, dayIndex, category, err := h.loadTripDay(c)
	if err != nil {
		return err
	}

	day := &trip.Days[dayIndex-1]
	day.SetOverridden(category, false)
	engine.RecomputeCosts(day)

	return h.saveAndRespond(c, userID, trip, dayIndex)
}

// PlanRooms раскладывает группу по номерам отеля и заполняет категорию hotel.
func (h *DayHandler) PlanRooms(c echo.Context) error {
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

	dayIndex, err := strconv.Atoi(c.Param("day"))
	if err != nil || dayIndex < 1 {
		return badRequest(c, "invalid day index")
	}

	var req PlanRoomsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	trip, err := h.Trips.GetByID(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	if dayIndex > len(trip.Days) {
		return notFound(c, "day not found")
	}

	hotels, err := h.Catalogs.ListByKind(c.Request().Context(), models.KindHotel)
	if err != nil {
		return serverError(c)
	}

	hotelName := strings.TrimSpace(req.HotelName)
	lines := engine.PlanRooms(engine.RoomAllocationRequest{
		HotelName:         hotelName,
		PeopleCount:       trip.Settings.PeopleCount,
		RoomCount:         trip.Settings.RoomCount,
		PreferredRoomType: strings.TrimSpace(req.PreferredRoomType),
	}, engine.VisibleRecords(viewer, hotels))

	if !engine.VerifyAllocation(lines, trip.Settings.PeopleCount, trip.Settings.RoomCount) {
		return serverError(c)
	}

	day := &trip.Days[dayIndex-1]
	engine.ReplaceItems(day, models.CategoryHotel, engine.RoomLinesToItems(hotelName, lines))

	return h.saveAndRespond(c, userID, trip, dayIndex)
}

// Reprice переоценивает все дни поездки по видимым зрителю справочникам.
func (h *DayHandler) Reprice(c echo.Context) error {
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

	catalogs, err := h.Catalogs.ListAll(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	engine.RepriceDays(viewer, trip.Days, engine.CatalogSet(catalogs))

	if err := h.Trips.SaveDays(c.Request().Context(), userID, trip.ID, trip.Settings, trip.Days); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	publishQuoteUpdate(h.Hub, userID, trip.ID)
	return c.JSON(http.StatusOK, TripResponse{Trip: trip})
}
