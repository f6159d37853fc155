package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"example.com/travel-quote-planner/backend/internal/engine"
)

const (
	noteTypeAI   = "ai"
	noteTypeUser = "user"

	maxProposalDays    = 60
	maxNamesPerDay     = 12
	maxProposalStrings = 200
)

type Service struct {
	client Client
}

// NewService создает сервис работы с AI-клиентом.
func NewService(client Client) *Service {
	return &Service{client: client}
}

// ProposeItinerary запрашивает у AI правки маршрута и валидирует ответ.
// Возвращает готовое к слиянию предложение, текст запроса и сырой ответ API.
func (s *Service) ProposeItinerary(ctx context.Context, input ProposeInput) (engine.Proposal, string, []byte, error) {
	prompt, err := buildProposePrompt(input)
	if err != nil {
		return engine.Proposal{}, "", nil, err
	}

	messages := []Message{
		{Role: "system", Content: "You are a travel itinerary assistant. Respond with JSON only, without extra text."},
		{Role: "user", Content: prompt},
	}

	content, raw, err := s.client.Chat(ctx, messages)
	if err != nil {
		return engine.Proposal{}, prompt, raw, err
	}

	var proposal engine.Proposal
	if err := parseJSON(content, &proposal); err != nil {
		return engine.Proposal{}, prompt, raw, err
	}

	normalizeProposal(&proposal)
	if err := validateProposal(proposal); err != nil {
		return engine.Proposal{}, prompt, raw, err
	}

	return proposal, prompt, raw, nil
}

// SuggestNotes запрашивает у AI короткие заметки по готовому маршруту.
func (s *Service) SuggestNotes(ctx context.Context, input SuggestNotesInput) (NotesResponse, string, []byte, error) {
	prompt, err := buildNotesPrompt(input)
	if err != nil {
		return NotesResponse{}, "", nil, err
	}

	messages := []Message{
		{Role: "system", Content: "You are a travel itinerary assistant. Respond with JSON only, without extra text."},
		{Role: "user", Content: prompt},
	}

	content, raw, err := s.client.Chat(ctx, messages)
	if err != nil {
		return NotesResponse{}, prompt, raw, err
	}

	var response NotesResponse
	if err := parseJSON(content, &response); err != nil {
		return NotesResponse{}, prompt, raw, err
	}

	normalizeNotesResponse(&response)
	if err := validateNotesResponse(response); err != nil {
		return NotesResponse{}, prompt, raw, err
	}

	return response, prompt, raw, nil
}

func buildProposePrompt(input ProposeInput) (string, error) {
	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Update a travel itinerary and return the changes as JSON.

Requirements:
- Output JSON only, no code fences, no extra text.
- Include ONLY the days you change; untouched days must be absent from "days".
- Set "is_full_replacement": true ONLY when the user asks to rebuild the whole trip.
- Pick hotel, transport and ticket names from the catalog when a suitable entry exists; invent a name only when the catalog has nothing close.
- Do not include any prices unless the user explicitly states an amount; put stated amounts into "explicit_costs" keyed by category.
- Categories: "transport", "hotel", "ticket", "activity", "other".
- Schema:
{
  "global_overrides": {
    "destinations": string,
    "start_date": "YYYY-MM-DD",
    "people_count": integer,
    "room_count": integer
  },
  "is_full_replacement": boolean,
  "days": [
    {
      "day_index": integer (1-based),
      "route": string,
      "origin": string,
      "destination": string,
      "hotel_name": string,
      "car_model": string,
      "ticket_names": [string],
      "activity_names": [string],
      "description": string,
      "explicit_costs": {"ticket": integer_cents}
    }
  ]
}
- Omit every field you do not change; omit "global_overrides" entirely when settings stay the same.
- Keep descriptions short (<= 200 chars).

Input:
%s`, string(payload))

	return prompt, nil
}

func buildNotesPrompt(input SuggestNotesInput) (string, error) {
	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Review a travel itinerary and return concise practical notes as JSON.

Requirements:
- Output JSON only, no code fences.
- Schema:
{
  "notes": [
    {"content": string, "type": "ai"}
  ]
}
- Provide 2-5 actionable notes (border crossings, seasonal closures, booking tips).
- Keep each note under 200 chars.

Input:
%s`, string(payload))

	return prompt, nil
}

func parseJSON(input string, target interface{}) error {
	payload := extractJSON(input)
	if payload == "" {
		return errors.New("ai response does not contain json")
	}

	return json.Unmarshal([]byte(payload), target)
}

func extractJSON(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "json")
		trimmed = strings.TrimSpace(trimmed)
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return trimmed[start : end+1]
}

func normalizeProposal(proposal *engine.Proposal) {
	for i := range proposal.Days {
		day := &proposal.Days[i]
		day.TicketNames = trimNames(day.TicketNames)
		day.ActivityNames = trimNames(day.ActivityNames)
	}
}

func trimNames(names []string) []string {
	if names == nil {
		return nil
	}
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			trimmed = append(trimmed, name)
		}
	}
	return trimmed
}

func validateProposal(proposal engine.Proposal) error {
	if len(proposal.Days) == 0 {
		return engine.ErrEmptyProposal
	}
	if len(proposal.Days) > maxProposalDays {
		return errors.New("too many proposal days")
	}

	nameCount := 0
	seen := make(map[int]bool, len(proposal.Days))
	for _, day := range proposal.Days {
		if day.DayIndex < 1 || day.DayIndex > maxProposalDays {
			return fmt.Errorf("proposal day index %d is out of range", day.DayIndex)
		}
		if seen[day.DayIndex] {
			return fmt.Errorf("proposal mentions day %d twice", day.DayIndex)
		}
		seen[day.DayIndex] = true

		if len(day.TicketNames) > maxNamesPerDay || len(day.ActivityNames) > maxNamesPerDay {
			return errors.New("too many names for one day")
		}
		nameCount += len(day.TicketNames) + len(day.ActivityNames)

		for _, cents := range day.ExplicitCosts {
			if cents < 0 {
				return errors.New("explicit cost must not be negative")
			}
		}
	}

	if nameCount > maxProposalStrings {
		return errors.New("proposal is too large")
	}

	return nil
}

func normalizeNotesResponse(response *NotesResponse) {
	for i := range response.Notes {
		if strings.TrimSpace(response.Notes[i].Type) == "" {
			response.Notes[i].Type = noteTypeAI
		}
	}
}

func validateNotesResponse(response NotesResponse) error {
	if len(response.Notes) == 0 {
		return errors.New("notes are required")
	}

	for _, note := range response.Notes {
		if strings.TrimSpace(note.Content) == "" {
			return errors.New("note content is required")
		}
		if !isNoteType(note.Type) {
			return fmt.Errorf("invalid note type: %s", note.Type)
		}
	}

	return nil
}

func isNoteType(value string) bool {
	switch strings.TrimSpace(value) {
	case noteTypeAI, noteTypeUser:
		return true
	default:
		return false
	}
}
