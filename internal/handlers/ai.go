package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/travel-quote-planner/backend/internal/ai"
	"example.com/travel-quote-planner/backend/internal/auth"
	"example.com/travel-quote-planner/backend/internal/engine"
	"example.com/travel-quote-planner/backend/internal/models"
	"example.com/travel-quote-planner/backend/internal/notifications"
	"example.com/travel-quote-planner/backend/internal/repository"
)

const (
	aiRequestProposeItinerary = "propose_itinerary"
	aiRequestSuggestNotes     = "suggest_notes"
)

type AIHandler struct {
	Service  *ai.Service
	Trips    *repository.TripRepository
	Catalogs *repository.CatalogRepository
	Notes    *repository.NoteRepository
	AIRepo   *repository.AIRepository
	Hub      *notifications.Hub
	Provider string
	Model    string

	guard planningGuard
}

// NewAIHandler создает обработчик AI-запросов.
func NewAIHandler(service *ai.Service, trips *repository.TripRepository, catalogs *repository.CatalogRepository, notes *repository.NoteRepository, aiRepo *repository.AIRepository, hub *notifications.Hub, provider, model string) *AIHandler {
	return &AIHandler{
		Service:  service,
		Trips:    trips,
		Catalogs: catalogs,
		Notes:    notes,
		AIRepo:   aiRepo,
		Hub:      hub,
		Provider: provider,
		Model:    model,
	}
}

// planningGuard нумерует запросы планирования по поездке. Ответ применяется,
// только если за время ожидания не стартовал более новый запрос: медленный
// ответ модели не должен перетирать результат свежего.
type planningGuard struct {
	mu   sync.Mutex
	seqs map[uuid.UUID]uint64
}

func (g *planningGuard) begin(tripID uuid.UUID) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seqs == nil {
		g.seqs = make(map[uuid.UUID]uint64)
	}
	g.seqs[tripID]++
	return g.seqs[tripID]
}

func (g *planningGuard) isCurrent(tripID uuid.UUID, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seqs[tripID] == seq
}

type ProposeRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type ProposeResponse struct {
	Trip        models.Trip `json:"trip"`
	TouchedDays []int       `json:"touched_days"`
}

// Propose запрашивает у AI правки маршрута и вливает их в поездку.
func (h *AIHandler) Propose(c echo.Context) error {
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

	var req ProposeRequest
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

	catalogs, err := h.Catalogs.ListAll(c.Request().Context())
	if err != nil {
		return serverError(c)
	}
	visible := engine.VisibleCatalogs(viewer, engine.CatalogSet(catalogs))

	input := ai.ProposeInput{
		Destinations: trip.Settings.Destinations,
		StartDate:    trip.Settings.StartDate,
		DayCount:     len(trip.Days),
		PeopleCount:  trip.Settings.PeopleCount,
		RoomCount:    trip.Settings.RoomCount,
		CurrentDays:  toDaySummaries(trip.Days),
		Catalog:      toCatalogSummary(visible),
		UserRequest:  strings.TrimSpace(req.Message),
	}
	inputPayload, _ := json.Marshal(input)

	seq := h.guard.begin(tripID)

	proposal, prompt, raw, err := h.Service.ProposeItinerary(c.Request().Context(), input)
	responsePayload := []byte(nil)
	if err == nil {
		responsePayload, _ = json.Marshal(proposal)
	}

	h.logAIRequest(c.Request().Context(), userID, &tripID, aiRequestProposeItinerary, prompt, inputPayload, responsePayload, raw, err)

	if err != nil {
		slog.Warn("ai proposal failed",
			slog.String("trip_id", tripID.String()),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	if !h.guard.isCurrent(tripID, seq) {
		slog.Warn("stale ai proposal discarded",
			slog.String("trip_id", tripID.String()),
			slog.String("user_id", userID.String()))
		return conflict(c, "a newer planning request superseded this one")
	}

	// Пока модель отвечала, поездку могли править руками: сливаем в свежее состояние.
	trip, err = h.Trips.GetByID(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	touched, err := engine.Reconcile(viewer, &trip, proposal, engine.CatalogSet(catalogs))
	if err != nil {
		slog.Warn("ai proposal rejected",
			slog.String("trip_id", tripID.String()),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	if err := h.Trips.SaveDays(c.Request().Context(), userID, trip.ID, trip.Settings, trip.Days); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	_, _ = h.Notes.Create(c.Request().Context(), userID, trip.ID, "AI: "+input.UserRequest, models.NoteTypeAI)

	slog.Info("ai proposal applied",
		slog.String("trip_id", tripID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("touched_days", len(touched)))

	publishQuoteUpdate(h.Hub, userID, trip.ID)
	return c.JSON(http.StatusOK, ProposeResponse{Trip: trip, TouchedDays: touched})
}

// SuggestNotes запрашивает у AI заметки по маршруту и сохраняет их.
func (h *AIHandler) SuggestNotes(c echo.Context) error {
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

	input := ai.SuggestNotesInput{
		Destinations: trip.Settings.Destinations,
		StartDate:    trip.Settings.StartDate,
		PeopleCount:  trip.Settings.PeopleCount,
		Days:         toDaySummaries(trip.Days),
	}
	inputPayload, _ := json.Marshal(input)

	response, prompt, raw, err := h.Service.SuggestNotes(c.Request().Context(), input)
	responsePayload := []byte(nil)
	if err == nil {
		responsePayload, _ = json.Marshal(response)
	}

	h.logAIRequest(c.Request().Context(), userID, &tripID, aiRequestSuggestNotes, prompt, inputPayload, responsePayload, raw, err)

	suggested := response.Notes
	if err != nil {
		suggested = fallbackNotes()
		slog.Warn("ai notes fallback used", slog.String("trip_id", tripID.String()), slog.String("user_id", userID.String()))
	} else {
		slog.Info("ai notes generated", slog.String("trip_id", tripID.String()), slog.String("user_id", userID.String()))
	}

	if err := h.Notes.DeleteByTripAndType(c.Request().Context(), userID, trip.ID, models.NoteTypeAI); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return serverError(c)
	}

	noteResponses := make([]NoteResponse, 0, len(suggested))
	for _, suggestion := range suggested {
		noteType := models.NoteTypeAI
		if strings.TrimSpace(suggestion.Type) == string(models.NoteTypeUser) {
			noteType = models.NoteTypeUser
		}

		note, err := h.Notes.Create(c.Request().Context(), userID, trip.ID, suggestion.Content, noteType)
		if err != nil {
			return serverError(c)
		}
		noteResponses = append(noteResponses, toNoteResponse(note))
	}

	return c.JSON(http.StatusOK, map[string][]NoteResponse{"notes": noteResponses})
}

func (h *AIHandler) logAIRequest(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID, requestType string, prompt string, requestPayload, responsePayload []byte, raw []byte, err error) {
	log := repository.AIRequestLog{
		UserID:          userID,
		TripID:          tripID,
		RequestType:     requestType,
		Provider:        h.Provider,
		Model:           h.Model,
		Prompt:          prompt,
		RequestPayload:  requestPayload,
		ResponsePayload: responsePayload,
		RawResponse:     string(raw),
		Success:         err == nil,
	}
	if err != nil {
		errMsg := err.Error()
		log.ErrorMessage = &errMsg
	}

	_ = h.AIRepo.LogRequest(ctx, log)
}

func toDaySummaries(days []models.ItineraryDay) []ai.DaySummary {
	summaries := make([]ai.DaySummary, 0, len(days))
	for i := range days {
		day := &days[i]
		summary := ai.DaySummary{
			DayIndex:    day.DayIndex,
			Date:        day.Date,
			Route:       day.Route,
			Description: day.Description,
		}
		if len(day.HotelItems) > 0 {
			summary.HotelName = day.HotelItems[0].Name
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func toCatalogSummary(visible engine.CatalogSet) ai.CatalogSummary {
	return ai.CatalogSummary{
		Transport: toCatalogEntries(visible[models.KindTransport]),
		Hotels:    toCatalogEntries(visible[models.KindHotel]),
		Tickets:   toCatalogEntries(visible[models.KindTicket]),
		Activity:  toCatalogEntries(visible[models.KindActivity]),
	}
}

func toCatalogEntries(records []models.ResourceRecord) []ai.CatalogEntry {
	entries := make([]ai.CatalogEntry, 0, len(records))
	for _, record := range records {
		entry := ai.CatalogEntry{
			Name:     record.Name,
			Capacity: record.Capacity,
			Region:   record.Region,
		}
		if record.SubKey != nil {
			entry.SubKey = *record.SubKey
		}
		entries = append(entries, entry)
	}
	return entries
}

func fallbackNotes() []ai.Note {
	return []ai.Note{
		{Content: "Проверьте часы работы и сезонные закрытия по каждому объекту маршрута.", Type: string(models.NoteTypeAI)},
		{Content: "Бронируйте отели и транспорт заранее: в высокий сезон свободных мест мало.", Type: string(models.NoteTypeAI)},
		{Content: "Держите резерв 5-10% сметы на непредвиденные расходы в пути.", Type: string(models.NoteTypeAI)},
	}
}
