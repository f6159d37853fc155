package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/phpdave11/gofpdf"

	"example.com/travel-quote-planner/backend/internal/auth"
	"example.com/travel-quote-planner/backend/internal/repository"
)

func (h *QuoteHandler) loadQuote(c echo.Context) (QuoteResponse, error) {
	viewer, ok := auth.ViewerFromContext(c)
	if !ok {
		return QuoteResponse{}, unauthorized(c)
	}

	userID, okID := auth.UserIDFromContext(c)
	if !okID {
		return QuoteResponse{}, unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return QuoteResponse{}, badRequest(c, "invalid trip id")
	}

	trip, err := h.Trips.GetByID(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return QuoteResponse{}, notFound(c, "trip not found")
		}
		return QuoteResponse{}, serverError(c)
	}

	return BuildQuote(viewer, trip), nil
}

// ExportJSON выгружает смету в JSON-файл с ценами, раскрытыми по роли зрителя.
func (h *QuoteHandler) ExportJSON(c echo.Context) error {
	quote, err := h.loadQuote(c)
	if err != nil {
		return err
	}

	filename := "quote-" + quote.TripID.String() + ".json"
	c.Response().Header().Set(echo.HeaderContentType, "application/json")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, quote)
}

// ExportCSV выгружает строки сметы в CSV-файл.
func (h *QuoteHandler) ExportCSV(c echo.Context) error {
	quote, err := h.loadQuote(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writeQuoteCSV(writer, quote); err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "quote-" + quote.TripID.String() + ".csv"
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportPDF выгружает смету в PDF-файл.
func (h *QuoteHandler) ExportPDF(c echo.Context) error {
	quote, err := h.loadQuote(c)
	if err != nil {
		return err
	}

	buf, err := renderQuotePDF(quote)
	if err != nil {
		return serverError(c)
	}

	filename := "quote-" + quote.TripID.String() + ".pdf"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

func writeQuoteCSV(writer *csv.Writer, quote QuoteResponse) error {
	header := []string{
		"trip_id",
		"trip_title",
		"day_index",
		"date",
		"category",
		"item_name",
		"sub_key",
		"quantity",
		"unit_price",
		"total",
		"manual",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, day := range quote.Days {
		for _, category := range day.Categories {
			for _, item := range category.Items {
				subKey := ""
				if item.SubKey != nil {
					subKey = *item.SubKey
				}

				record := []string{
					quote.TripID.String(),
					quote.Title,
					strconv.Itoa(day.DayIndex),
					day.Date,
					category.Category,
					item.Name,
					subKey,
					strconv.Itoa(item.Quantity),
					item.DisplayUnitPrice,
					item.DisplayTotal,
					formatBool(category.Manual),
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func renderQuotePDF(quote QuoteResponse) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, quote.Title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Destinations: %s", quote.Destinations))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Start date: %s    People: %d    Rooms: %d", quote.StartDate, quote.PeopleCount, quote.RoomCount))
	pdf.Ln(12)

	for _, day := range quote.Days {
		pdf.SetFont("Arial", "B", 12)
		heading := fmt.Sprintf("Day %d", day.DayIndex)
		if day.Date != "" {
			heading += " - " + day.Date
		}
		if day.Route != "" {
			heading += " - " + day.Route
		}
		pdf.Cell(0, 8, heading)
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, category := range day.Categories {
			if len(category.Items) == 0 && !category.Manual {
				continue
			}

			for _, item := range category.Items {
				name := item.Name
				if item.SubKey != nil {
					name += " (" + *item.SubKey + ")"
				}
				pdf.Cell(100, 6, fmt.Sprintf("%s: %s", category.Category, name))
				pdf.Cell(25, 6, fmt.Sprintf("x%d", item.Quantity))
				pdf.Cell(0, 6, item.DisplayTotal)
				pdf.Ln(6)
			}

			if category.Manual {
				pdf.Cell(125, 6, fmt.Sprintf("%s: manual total", category.Category))
				pdf.Cell(0, 6, category.DisplayTotal)
				pdf.Ln(6)
			}
		}

		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(125, 6, "Day total")
		pdf.Cell(0, 6, day.DisplayTotal)
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(125, 8, "Trip total")
	pdf.Cell(0, 8, quote.DisplayTotal)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return &buf, nil
}

func formatBool(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
