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

type StatsHandler struct {
	Stats *repository.StatsRepository
	Trips *repository.TripRepository
}

// NewStatsHandler создает обработчик статистики.
func NewStatsHandler(stats *repository.StatsRepository, trips *repository.TripRepository) *StatsHandler {
	return &StatsHandler{Stats: stats, Trips: trips}
}

type OverviewResponse struct {
	TotalTrips    int `json:"total_trips"`
	UpcomingTrips int `json:"upcoming_trips"`
	PastTrips     int `json:"past_trips"`
	TotalDays     int `json:"total_days"`
}

type CatalogBreakdownResponse struct {
	Kinds []CatalogKindResponse `json:"kinds"`
}

type CatalogKindResponse struct {
	Kind    string `json:"kind"`
	Total   int    `json:"total"`
	Public  int    `json:"public"`
	Private int    `json:"private"`
	Legacy  int    `json:"legacy"`
}

// Overview возвращает сводную статистику по поездкам пользователя.
func (h *StatsHandler) Overview(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	stats, err := h.Stats.Overview(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, OverviewResponse{
		TotalTrips:    stats.TotalTrips,
		UpcomingTrips: stats.UpcomingTrips,
		PastTrips:     stats.PastTrips,
		TotalDays:     stats.TotalDays,
	})
}

type CostByCategoryResponse struct {
	TripID     uuid.UUID              `json:"trip_id"`
	Categories []CategoryCostResponse `json:"categories"`
}

type CategoryCostResponse struct {
	Category     string `json:"category"`
	DisplayTotal string `json:"display_total"`
	TotalCents   *int64 `json:"total_cents,omitempty"`
	Masked       bool   `json:"masked"`
}

// CostByCategory возвращает суммы поездки по категориям с маскированием
// по роли зрителя.
func (h *StatsHandler) CostByCategory(c echo.Context) error {
	viewer, ok := auth.ViewerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	userID, okID := auth.UserIDFromContext(c)
	if !okID {
		return unauthorized(c)
	}

	tripIDParam := c.QueryParam("trip_id")
	if tripIDParam == "" {
		return badRequest(c, "trip_id is required")
	}

	tripID, err := uuid.Parse(tripIDParam)
	if err != nil {
		return badRequest(c, "invalid trip_id")
	}

	trip, err := h.Trips.GetByID(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	categories := make([]CategoryCostResponse, 0, len(models.Categories))
	for _, category := range models.Categories {
		var total int64
		masked := false
		for i := range trip.Days {
			day := &trip.Days[i]
			total += day.CostFor(category)
			if engine.ShouldMaskCategory(viewer, day.ItemsFor(category)) {
				masked = true
			}
		}

		item := CategoryCostResponse{Category: string(category), Masked: masked}
		if masked {
			item.DisplayTotal = engine.MaskAmountCents(total)
		} else {
			value := total
			item.TotalCents = &value
			item.DisplayTotal = engine.FormatAmountCents(total)
		}
		categories = append(categories, item)
	}

	return c.JSON(http.StatusOK, CostByCategoryResponse{TripID: trip.ID, Categories: categories})
}

// CatalogBreakdown возвращает состав справочников по видам ресурсов.
func (h *StatsHandler) CatalogBreakdown(c echo.Context) error {
	if _, ok := auth.UserIDFromContext(c); !ok {
		return unauthorized(c)
	}

	breakdown, err := h.Stats.CatalogBreakdown(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	kinds := make([]CatalogKindResponse, 0, len(breakdown))
	for _, row := range breakdown {
		kinds = append(kinds, CatalogKindResponse{
			Kind:    string(row.Kind),
			Total:   row.Total,
			Public:  row.Public,
			Private: row.Private,
			Legacy:  row.Legacy,
		})
	}

	return c.JSON(http.StatusOK, CatalogBreakdownResponse{Kinds: kinds})
}
