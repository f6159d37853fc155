package ai

import (
	"context"
	"errors"
	"testing"

	"example.com/travel-quote-planner/backend/internal/engine"
)

type stubClient struct {
	content string
	err     error
}

func (s *stubClient) Chat(_ context.Context, _ []Message) (string, []byte, error) {
	return s.content, []byte(s.content), s.err
}

// TestExtractJSON проверяет снятие ограждения и обрезку мусора вокруг JSON.
func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"days":[]}`, `{"days":[]}`},
		{"fenced", "```json\n{\"days\":[]}\n```", `{"days":[]}`},
		{"prefixed", "Here is the plan: {\"days\":[]} hope it helps", `{"days":[]}`},
		{"empty", "no json here", ""},
	}

	for _, tc := range cases {
		if got := extractJSON(tc.input); got != tc.want {
			t.Fatalf("%s: extractJSON = %q, want %q", tc.name, got, tc.want)
		}
	}
}

// TestProposeItinerary проверяет разбор корректного предложения.
func TestProposeItinerary(t *testing.T) {
	client := &stubClient{content: "```json\n" + `{
		"days": [
			{"day_index": 2, "route": "Tbilisi - Kazbegi", "ticket_names": [" fortress ", ""]}
		]
	}` + "\n```"}

	service := NewService(client)
	proposal, prompt, raw, err := service.ProposeItinerary(context.Background(), ProposeInput{
		Destinations: "Georgia",
		DayCount:     5,
		PeopleCount:  4,
		UserRequest:  "add a fortress visit on day two",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompt == "" || len(raw) == 0 {
		t.Fatal("expected prompt and raw response to be returned")
	}

	if len(proposal.Days) != 1 || proposal.Days[0].DayIndex != 2 {
		t.Fatalf("unexpected proposal days: %+v", proposal.Days)
	}
	if len(proposal.Days[0].TicketNames) != 1 || proposal.Days[0].TicketNames[0] != "fortress" {
		t.Fatalf("expected trimmed ticket names, got %+v", proposal.Days[0].TicketNames)
	}
}

// TestProposeItineraryEmptyDays проверяет отказ при предложении без дней.
func TestProposeItineraryEmptyDays(t *testing.T) {
	client := &stubClient{content: `{"days": []}`}

	service := NewService(client)
	_, _, _, err := service.ProposeItinerary(context.Background(), ProposeInput{UserRequest: "hi"})
	if !errors.Is(err, engine.ErrEmptyProposal) {
		t.Fatalf("expected ErrEmptyProposal, got %v", err)
	}
}

// TestProposeItineraryDuplicateDay проверяет отказ при повторном упоминании дня.
func TestProposeItineraryDuplicateDay(t *testing.T) {
	client := &stubClient{content: `{"days": [{"day_index": 1}, {"day_index": 1}]}`}

	service := NewService(client)
	_, _, _, err := service.ProposeItinerary(context.Background(), ProposeInput{UserRequest: "hi"})
	if err == nil {
		t.Fatal("expected error for duplicated day index")
	}
}

// TestProposeItineraryNegativeCost проверяет отказ при отрицательной явной сумме.
func TestProposeItineraryNegativeCost(t *testing.T) {
	client := &stubClient{content: `{"days": [{"day_index": 1, "explicit_costs": {"ticket": -5}}]}`}

	service := NewService(client)
	_, _, _, err := service.ProposeItinerary(context.Background(), ProposeInput{UserRequest: "hi"})
	if err == nil {
		t.Fatal("expected error for negative explicit cost")
	}
}

// TestSuggestNotes проверяет нормализацию типа заметки по умолчанию.
func TestSuggestNotes(t *testing.T) {
	client := &stubClient{content: `{"notes": [{"content": "book the hotel early"}, {"content": "carry cash", "type": "ai"}]}`}

	service := NewService(client)
	response, _, _, err := service.SuggestNotes(context.Background(), SuggestNotesInput{Destinations: "Georgia"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(response.Notes))
	}
	if response.Notes[0].Type != noteTypeAI {
		t.Fatalf("expected default note type ai, got %s", response.Notes[0].Type)
	}
}
