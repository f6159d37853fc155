package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/travel-quote-planner/backend/internal/auth"
	"example.com/travel-quote-planner/backend/internal/engine"
	"example.com/travel-quote-planner/backend/internal/models"
	"example.com/travel-quote-planner/backend/internal/repository"
)

type TripHandler struct {
	Trips *repository.TripRepository
}

// NewTripHandler создает обработчик поездок.
func NewTripHandler(trips *repository.TripRepository) *TripHandler {
	return &TripHandler{Trips: trips}
}

type CreateTripRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Destinations string `json:"destinations" validate:"required,max=500"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	DayCount     int    `json:"day_count" validate:"required,min=1,max=60"`
	PeopleCount  int    `json:"people_count" validate:"required,min=1,max=500"`
	RoomCount    int    `json:"room_count" validate:"required,min=1,max=250"`
}

type UpdateTripRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Destinations string `json:"destinations" validate:"required,max=500"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	PeopleCount  int    `json:"people_count" validate:"required,min=1,max=500"`
	RoomCount    int    `json:"room_count" validate:"required,min=1,max=250"`
}

type TripSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Destinations string    `json:"destinations"`
	StartDate    string    `json:"start_date"`
	PeopleCount  int       `json:"people_count"`
	RoomCount    int       `json:"room_count"`
	DayCount     int       `json:"day_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type TripResponse struct {
	Trip models.Trip `json:"trip"`
}

type TripListResponse struct {
	Trips []TripSummary `json:"trips"`
}

func toTripSummary(item repository.TripWithDayCount) TripSummary {
	return TripSummary{
		ID:           item.Trip.ID,
		Title:        item.Trip.Title,
		Destinations: item.Trip.Settings.Destinations,
		StartDate:    item.Trip.Settings.StartDate,
		PeopleCount:  item.Trip.Settings.PeopleCount,
		RoomCount:    item.Trip.Settings.RoomCount,
		DayCount:     item.DayCount,
		CreatedAt:    item.Trip.CreatedAt,
		UpdatedAt:    item.Trip.UpdatedAt,
	}
}

// Create создает поездку с пустыми днями по датам.
func (h *TripHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CreateTripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	settings := models.TripSettings{
		Destinations: strings.TrimSpace(req.Destinations),
		StartDate:    req.StartDate,
		PeopleCount:  req.PeopleCount,
		RoomCount:    req.RoomCount,
	}

	days := engine.EmptyDays(settings, req.DayCount)

	trip, err := h.Trips.Create(c.Request().Context(), userID, strings.TrimSpace(req.Title), settings, days)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, TripResponse{Trip: trip})
}

// List возвращает поездки пользователя.
func (h *TripHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	trips, err := h.Trips.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	summaries := make([]TripSummary, 0, len(trips))
	for _, trip := range trips {
		summaries = append(summaries, toTripSummary(trip))
	}

	return c.JSON(http.StatusOK, TripListResponse{Trips: summaries})
}

// Get возвращает поездку с полным массивом дней.
func (h *TripHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
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

	return c.JSON(http.StatusOK, TripResponse{Trip: trip})
}

// Update обновляет заголовок и настройки поездки.
func (h *TripHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	var req UpdateTripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	settings := models.TripSettings{
		Destinations: strings.TrimSpace(req.Destinations),
		StartDate:    req.StartDate,
		PeopleCount:  req.PeopleCount,
		RoomCount:    req.RoomCount,
	}

	trip, err := h.Trips.Update(c.Request().Context(), userID, tripID, strings.TrimSpace(req.Title), settings)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, TripResponse{Trip: trip})
}

// Delete удаляет поездку.
func (h *TripHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	if err := h.Trips.Delete(c.Request().Context(), userID, tripID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Duplicate создает копию поездки.
func (h *TripHandler) Duplicate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	trip, err := h.Trips.Duplicate(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, TripResponse{Trip: trip})
}
