package engine

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"example.com/travel-quote-planner/backend/internal/models"
)

type RoomAllocationRequest struct {
	HotelName         string
	PeopleCount       int
	RoomCount         int
	PreferredRoomType string
}

type RoomLine struct {
	RoomType       string
	Quantity       int
	Occupancy      int
	UnitPriceCents int64
	SourceIsPublic bool
}

// PlanRooms раскладывает людей по номерам и подбирает типы номеров
// из каталога отеля. Квоты строятся так, что сумма количеств равна числу
// номеров, а взвешенная по вместимости сумма — числу людей. Вырожденные
// входы сжимаются: минимум один человек и один номер, номеров не больше,
// чем людей (в каждом номере хотя бы один человек).
func PlanRooms(req RoomAllocationRequest, hotelCatalog []models.ResourceRecord) []RoomLine {
	people, rooms := clampAllocation(req.PeopleCount, req.RoomCount)

	baseOcc := people / rooms
	remainder := people % rooms

	entries := hotelEntries(hotelCatalog, req.HotelName)

	lines := make([]RoomLine, 0, 2)
	if remainder > 0 {
		lines = appendRoomLine(lines, entries, req, baseOcc+1, remainder)
	}
	if rooms-remainder > 0 {
		lines = appendRoomLine(lines, entries, req, baseOcc, rooms-remainder)
	}

	return lines
}

func clampAllocation(peopleCount, roomCount int) (int, int) {
	if peopleCount < 1 {
		peopleCount = 1
	}
	if roomCount < 1 {
		roomCount = 1
	}
	if roomCount > peopleCount {
		roomCount = peopleCount
	}
	return peopleCount, roomCount
}

// VerifyAllocation проверяет постусловия раскладки: количества сходятся
// с числом номеров, а вместимости — с числом людей. Вход сжимается теми же
// правилами, что и в PlanRooms.
func VerifyAllocation(lines []RoomLine, peopleCount, roomCount int) bool {
	peopleCount, roomCount = clampAllocation(peopleCount, roomCount)

	var quantity, served int
	for _, line := range lines {
		quantity += line.Quantity
		served += line.Quantity * line.Occupancy
	}
	return quantity == roomCount && served == peopleCount
}

func appendRoomLine(lines []RoomLine, entries []models.ResourceRecord, req RoomAllocationRequest, occupancy, quantity int) []RoomLine {
	roomType := matchRoomType(entries, occupancy, req.PreferredRoomType)

	line := RoomLine{
		RoomType:  roomType,
		Quantity:  quantity,
		Occupancy: occupancy,
	}

	if record, ok := resolveRoomRecord(entries, roomType); ok {
		line.UnitPriceCents = record.UnitPriceCents
		line.SourceIsPublic = record.IsPublic
	}

	// Обе группы с одним типом номера и одной вместимостью сливаются в строку.
	for i := range lines {
		if lines[i].RoomType == line.RoomType && lines[i].Occupancy == line.Occupancy {
			lines[i].Quantity += line.Quantity
			return lines
		}
	}

	return append(lines, line)
}

func hotelEntries(catalog []models.ResourceRecord, hotelName string) []models.ResourceRecord {
	entries := make([]models.ResourceRecord, 0, len(catalog))
	for _, record := range catalog {
		if record.Kind == models.KindHotel && strings.EqualFold(strings.TrimSpace(record.Name), strings.TrimSpace(hotelName)) {
			entries = append(entries, record)
		}
	}
	return entries
}

// matchRoomType выбирает тип номера по ключевым словам в названии.
// При пустом каталоге отеля действуют фиксированные типы по вместимости.
func matchRoomType(entries []models.ResourceRecord, occupancy int, hint string) string {
	if len(entries) == 0 {
		return defaultRoomType(occupancy, hint)
	}

	type scored struct {
		label string
		score int
	}

	candidates := make([]scored, 0, len(entries))
	for _, entry := range entries {
		label := ""
		if entry.SubKey != nil {
			label = strings.TrimSpace(*entry.SubKey)
		}
		if label == "" {
			continue
		}
		candidates = append(candidates, scored{label: label, score: roomTypeScore(label, occupancy, hint)})
	}

	if len(candidates) == 0 {
		return defaultRoomType(occupancy, hint)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if candidates[0].score <= 0 {
		return defaultRoomType(occupancy, hint)
	}
	return candidates[0].label
}

func roomTypeScore(label string, occupancy int, hint string) int {
	lower := strings.ToLower(label)
	score := 0

	switch {
	case occupancy <= 1:
		if strings.Contains(lower, "single") {
			score += 30
		}
	case occupancy == 2:
		if strings.Contains(lower, "standard") {
			score += 20
		}
		if strings.Contains(lower, "twin") {
			score += 20
		}
		if strings.Contains(lower, "king") {
			score += 20
		}
		trimmedHint := strings.ToLower(strings.TrimSpace(hint))
		if trimmedHint != "" && strings.Contains(lower, trimmedHint) {
			score += 20
		}
	case occupancy == 3:
		if strings.Contains(lower, "triple") {
			score += 30
		}
		if strings.Contains(lower, "family") {
			score += 20
		}
	default:
		if strings.Contains(lower, "family") {
			score += 30
		}
		if strings.Contains(lower, "suite") {
			score += 25
		}
	}

	return score
}

func defaultRoomType(occupancy int, hint string) string {
	switch {
	case occupancy <= 1:
		return "single room"
	case occupancy == 2:
		trimmed := strings.ToLower(strings.TrimSpace(hint))
		if trimmed != "" {
			return trimmed
		}
		return "standard room"
	case occupancy == 3:
		return "triple room"
	default:
		return "family room"
	}
}

func resolveRoomRecord(entries []models.ResourceRecord, roomType string) (models.ResourceRecord, bool) {
	for _, entry := range entries {
		if entry.SubKey != nil && strings.EqualFold(strings.TrimSpace(*entry.SubKey), roomType) {
			return entry, true
		}
	}
	return models.ResourceRecord{}, false
}

// RoomLinesToItems превращает раскладку в строки сметы отеля.
func RoomLinesToItems(hotelName string, lines []RoomLine) []models.SelectionItem {
	items := make([]models.SelectionItem, 0, len(lines))
	for _, line := range lines {
		roomType := line.RoomType
		items = append(items, models.SelectionItem{
			ID:             uuid.New(),
			Name:           hotelName,
			SubKey:         &roomType,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			SourceIsPublic: line.SourceIsPublic,
		})
	}
	return items
}
