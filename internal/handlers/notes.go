package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/travel-quote-planner/backend/internal/auth"
	"example.com/travel-quote-planner/backend/internal/models"
	"example.com/travel-quote-planner/backend/internal/repository"
)

type NoteHandler struct {
	Notes *repository.NoteRepository
}

// NewNoteHandler создает обработчик заметок поездки.
func NewNoteHandler(notes *repository.NoteRepository) *NoteHandler {
	return &NoteHandler{Notes: notes}
}

type NoteRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type NoteResponse struct {
	ID        uuid.UUID       `json:"id"`
	Content   string          `json:"content"`
	NoteType  models.NoteType `json:"note_type"`
	SortOrder int             `json:"sort_order"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// List возвращает заметки поездки.
func (h *NoteHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	notes, err := h.Notes.ListByTrip(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	response := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		response = append(response, toNoteResponse(note))
	}

	return c.JSON(http.StatusOK, map[string][]NoteResponse{"notes": response})
}

// Create добавляет заметку к поездке.
func (h *NoteHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return badRequest(c, "content is required")
	}

	note, err := h.Notes.Create(c.Request().Context(), userID, tripID, content, models.NoteTypeUser)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toNoteResponse(note))
}

// Update обновляет текст заметки.
func (h *NoteHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		return badRequest(c, "invalid note id")
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return badRequest(c, "content is required")
	}

	note, err := h.Notes.Update(c.Request().Context(), userID, noteID, content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "note not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toNoteResponse(note))
}

// Delete удаляет заметку.
func (h *NoteHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		return badRequest(c, "invalid note id")
	}

	if err := h.Notes.Delete(c.Request().Context(), userID, noteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "note not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func toNoteResponse(note models.TripNote) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Content:   note.Content,
		NoteType:  note.NoteType,
		SortOrder: note.SortOrder,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
