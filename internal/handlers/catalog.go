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

type CatalogHandler struct {
	Catalogs *repository.CatalogRepository
}

// NewCatalogHandler создает обработчик справочников ресурсов.
func NewCatalogHandler(catalogs *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{Catalogs: catalogs}
}

type ResourceRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	SubKey         *string `json:"sub_key" validate:"omitempty,max=100"`
	UnitPriceCents int64   `json:"unit_price_cents" validate:"gte=0"`
	IsPublic       bool    `json:"is_public"`
	Capacity       int     `json:"capacity" validate:"gte=0"`
	Region         string  `json:"region" validate:"omitempty,max=100"`
}

type ReplaceCatalogRequest struct {
	Records []ResourceRequest `json:"records" validate:"required,dive"`
}

// ResourceResponse отдает цену уже с учетом политики раскрытия:
// скрытая цена приходит маской, а числовое поле отсутствует.
type ResourceResponse struct {
	ID             uuid.UUID `json:"id"`
	Kind           string    `json:"kind"`
	Name           string    `json:"name"`
	SubKey         *string   `json:"sub_key,omitempty"`
	DisplayPrice   string    `json:"display_price"`
	UnitPriceCents *int64    `json:"unit_price_cents,omitempty"`
	OwnerUsername  *string   `json:"owner_username,omitempty"`
	IsPublic       bool      `json:"is_public"`
	CanEdit        bool      `json:"can_edit"`
	Capacity       int       `json:"capacity,omitempty"`
	Region         string    `json:"region,omitempty"`
	LastUpdated    time.Time `json:"last_updated"`
}

type CatalogResponse struct {
	Kind    string             `json:"kind"`
	Records []ResourceResponse `json:"records"`
}

func toResourceResponse(viewer models.Viewer, record models.ResourceRecord) ResourceResponse {
	response := ResourceResponse{
		ID:            record.ID,
		Kind:          string(record.Kind),
		Name:          record.Name,
		SubKey:        record.SubKey,
		OwnerUsername: record.OwnerUsername,
		IsPublic:      record.IsPublic,
		CanEdit:       engine.CanEdit(viewer, record),
		Capacity:      record.Capacity,
		Region:        record.Region,
		LastUpdated:   record.LastUpdated,
	}

	if engine.CanSeeRealPrice(viewer, record) {
		price := record.UnitPriceCents
		response.UnitPriceCents = &price
		response.DisplayPrice = engine.FormatAmountCents(price)
	} else {
		response.DisplayPrice = engine.MaskAmountCents(record.UnitPriceCents)
	}

	return response
}

func parseKindParam(c echo.Context) (models.ResourceKind, bool) {
	kind, ok := models.ParseResourceKind(c.Param("kind"))
	return kind, ok
}

// List возвращает видимые зрителю записи справочника одного вида.
func (h *CatalogHandler) List(c echo.Context) error {
	viewer, ok := auth.ViewerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	kind, ok := parseKindParam(c)
	if !ok {
		return badRequest(c, "unknown resource kind")
	}

	records, err := h.Catalogs.ListByKind(c.Request().Context(), kind)
	if err != nil {
		return serverError(c)
	}

	visible := engine.VisibleRecords(viewer, records)
	responses := make([]ResourceResponse, 0, len(visible))
	for _, record := range visible {
		responses = append(responses, toResourceResponse(viewer, record))
	}

	return c.JSON(http.StatusOK, CatalogResponse{Kind: string(kind), Records: responses})
}

// Create добавляет запись справочника от имени зрителя.
func (h *CatalogHandler) Create(c echo.Context) error {
	viewer, ok := auth.ViewerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	kind, ok := parseKindParam(c)
	if !ok {
		return badRequest(c, "unknown resource kind")
	}

	var req ResourceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	record, err := h.Catalogs.Create(c.Request().Context(), kind, h.toInput(viewer, req))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "resource already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toResourceResponse(viewer, record))
}

// Update обновляет запись справочника с проверкой права правки.
func (h *CatalogHandler) Update(c echo.Context) error {
	viewer, ok := auth.ViewerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid resource id")
	}

	var req ResourceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	existing, err := h.Catalogs.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "resource not found")
		}
		return serverError(c)
	}

	// Невидимая запись для зрителя не существует.
	if !engine.IsVisible(viewer, existing) {
		return notFound(c, "resource not found")
	}
	if !engine.CanEdit(viewer, existing) {
		return forbidden(c)
	}

	input := h.toInput(viewer, req)
	// Владелец записи при правке не меняется.
	input.OwnerUsername = existing.OwnerUsername

	record, err := h.Catalogs.Update(c.Request().Context(), id, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "resource not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toResourceResponse(viewer, record))
}

// Delete удаляет запись справочника с проверкой права правки.
func (h *CatalogHandler) Delete(c echo.Context) error {
	viewer, ok := auth.ViewerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid resource id")
	}

	existing, err := h.Catalogs.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "resource not found")
		}
		return serverError(c)
	}

	if !engine.IsVisible(viewer, existing) {
		return notFound(c, "resource not found")
	}
	if !engine.CanEdit(viewer, existing) {
		return forbidden(c)
	}

	if err := h.Catalogs.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "resource not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Replace заменяет справочник вида целиком снимком из запроса.
func (h *CatalogHandler) Replace(c echo.Context) error {
	viewer, ok := auth.ViewerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if viewer.Role != models.RoleSuperAdmin {
		return forbidden(c)
	}

	kind, ok := parseKindParam(c)
	if !ok {
		return badRequest(c, "unknown resource kind")
	}

	var req ReplaceCatalogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	inputs := make([]repository.ResourceInput, 0, len(req.Records))
	for _, record := range req.Records {
		inputs = append(inputs, h.toInput(viewer, record))
	}

	if err := h.Catalogs.ReplaceKind(c.Request().Context(), kind, viewer.Username, inputs); err != nil {
		return serverError(c)
	}

	return h.List(c)
}

func (h *CatalogHandler) toInput(viewer models.Viewer, req ResourceRequest) repository.ResourceInput {
	owner := viewer.Username
	return repository.ResourceInput{
		Name:           strings.TrimSpace(req.Name),
		SubKey:         normalizeName(req.SubKey),
		UnitPriceCents: req.UnitPriceCents,
		OwnerUsername:  &owner,
		IsPublic:       req.IsPublic,
		Capacity:       req.Capacity,
		Region:         strings.TrimSpace(req.Region),
	}
}
