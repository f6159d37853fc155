package repository

import (
	"strings"
	"testing"
	"unicode/utf8"

	"example.com/travel-quote-planner/backend/internal/models"
)

// TestBuildCopyTitle проверяет ограничение длины заголовка копии.
func TestBuildCopyTitle(t *testing.T) {
	original := strings.Repeat("a", 210)
	result := buildCopyTitle(original, 200)

	if !strings.HasPrefix(result, "Copy of ") {
		t.Fatalf("expected prefix, got %s", result)
	}

	if utf8.RuneCountInString(result) > 200 {
		t.Fatalf("expected result length <= 200, got %d", utf8.RuneCountInString(result))
	}
}

// TestMarshalDaysNil проверяет сериализацию отсутствующих дней в пустой массив.
func TestMarshalDaysNil(t *testing.T) {
	payload, err := marshalDays(nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if string(payload) != "[]" {
		t.Fatalf("expected empty json array, got %s", payload)
	}
}

// TestUnmarshalDaysRoundTrip проверяет восстановление дней из jsonb-документа.
func TestUnmarshalDaysRoundTrip(t *testing.T) {
	days := []models.ItineraryDay{
		{DayIndex: 1, Date: "2026-10-01", Route: "Tbilisi - Kazbegi"},
	}

	payload, err := marshalDays(days)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	restored, err := unmarshalDays(payload)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(restored) != 1 || restored[0].Route != "Tbilisi - Kazbegi" {
		t.Fatalf("unexpected days: %+v", restored)
	}
}

// TestUnmarshalDaysEmptyPayload проверяет пустой документ.
func TestUnmarshalDaysEmptyPayload(t *testing.T) {
	days, err := unmarshalDays(nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if days == nil || len(days) != 0 {
		t.Fatalf("expected empty slice, got %v", days)
	}
}
