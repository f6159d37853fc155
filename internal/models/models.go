package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type RoleTier string

type ResourceKind string

type Category string

type NoteType string

const (
	RoleStandard   RoleTier = "standard"
	RoleAdmin      RoleTier = "admin"
	RoleSuperAdmin RoleTier = "super_admin"

	KindTransport ResourceKind = "transport"
	KindHotel     ResourceKind = "hotel"
	KindTicket    ResourceKind = "ticket"
	KindActivity  ResourceKind = "activity"
	KindOther     ResourceKind = "other"

	CategoryTransport Category = "transport"
	CategoryHotel     Category = "hotel"
	CategoryTicket    Category = "ticket"
	CategoryActivity  Category = "activity"
	CategoryOther     Category = "other"

	NoteTypeAI   NoteType = "ai"
	NoteTypeUser NoteType = "user"
)

var ResourceKinds = []ResourceKind{KindTransport, KindHotel, KindTicket, KindActivity, KindOther}

var Categories = []Category{CategoryTransport, CategoryHotel, CategoryTicket, CategoryActivity, CategoryOther}

// ParseRole нормализует роль; неизвестные значения считаются standard.
func ParseRole(value string) RoleTier {
	switch RoleTier(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSuperAdmin:
		return RoleSuperAdmin
	default:
		return RoleStandard
	}
}

// ParseResourceKind разбирает вид ресурса из строки.
func ParseResourceKind(value string) (ResourceKind, bool) {
	kind := ResourceKind(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range ResourceKinds {
		if kind == known {
			return known, true
		}
	}
	return "", false
}

// ParseCategory разбирает категорию дня из строки.
func ParseCategory(value string) (Category, bool) {
	category := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Categories {
		if category == known {
			return known, true
		}
	}
	return "", false
}

// Kind возвращает вид ресурса, которым наполняется категория.
func (c Category) Kind() ResourceKind {
	return ResourceKind(c)
}

type Viewer struct {
	Username string   `json:"username"`
	Role     RoleTier `json:"role"`
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	Role         RoleTier  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Viewer возвращает представление пользователя для движка.
func (u User) Viewer() Viewer {
	return Viewer{Username: u.Username, Role: u.Role}
}

type ResourceRecord struct {
	ID             uuid.UUID    `json:"id"`
	Kind           ResourceKind `json:"kind"`
	Name           string       `json:"name"`
	SubKey         *string      `json:"sub_key,omitempty"`
	UnitPriceCents int64        `json:"unit_price_cents"`
	OwnerUsername  *string      `json:"owner_username,omitempty"`
	IsPublic       bool         `json:"is_public"`
	Capacity       int          `json:"capacity,omitempty"`
	Region         string       `json:"region,omitempty"`
	LastUpdated    time.Time    `json:"last_updated"`
}

type SelectionItem struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	SubKey         *string   `json:"sub_key,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	SourceIsPublic bool      `json:"source_is_public"`
}

// TotalCents возвращает стоимость строки.
func (i SelectionItem) TotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

type DayCosts struct {
	Transport int64 `json:"transport"`
	Hotel     int64 `json:"hotel"`
	Ticket    int64 `json:"ticket"`
	Activity  int64 `json:"activity"`
	Other     int64 `json:"other"`
}

type DayOverrides struct {
	Transport bool `json:"transport,omitempty"`
	Hotel     bool `json:"hotel,omitempty"`
	Ticket    bool `json:"ticket,omitempty"`
	Activity  bool `json:"activity,omitempty"`
	Other     bool `json:"other,omitempty"`
}

type ItineraryDay struct {
	DayIndex       int             `json:"day_index"`
	Date           string          `json:"date,omitempty"`
	Route          string          `json:"route,omitempty"`
	Description    string          `json:"description,omitempty"`
	TransportItems []SelectionItem `json:"transport_items"`
	HotelItems     []SelectionItem `json:"hotel_items"`
	TicketItems    []SelectionItem `json:"ticket_items"`
	ActivityItems  []SelectionItem `json:"activity_items"`
	OtherItems     []SelectionItem `json:"other_items"`
	Costs          DayCosts        `json:"costs"`
	ManualOverride DayOverrides    `json:"manual_override"`
}

// ItemsFor возвращает строки дня для категории.
func (d *ItineraryDay) ItemsFor(category Category) []SelectionItem {
	switch category {
	case CategoryTransport:
		return d.TransportItems
	case CategoryHotel:
		return d.HotelItems
	case CategoryTicket:
		return d.TicketItems
	case CategoryActivity:
		return d.ActivityItems
	default:
		return d.OtherItems
	}
}

// SetItemsFor заменяет строки дня для категории.
func (d *ItineraryDay) SetItemsFor(category Category, items []SelectionItem) {
	switch category {
	case CategoryTransport:
		d.TransportItems = items
	case CategoryHotel:
		d.HotelItems = items
	case CategoryTicket:
		d.TicketItems = items
	case CategoryActivity:
		d.ActivityItems = items
	default:
		d.OtherItems = items
	}
}

// CostFor возвращает итог дня по категории.
func (d *ItineraryDay) CostFor(category Category) int64 {
	switch category {
	case CategoryTransport:
		return d.Costs.Transport
	case CategoryHotel:
		return d.Costs.Hotel
	case CategoryTicket:
		return d.Costs.Ticket
	case CategoryActivity:
		return d.Costs.Activity
	default:
		return d.Costs.Other
	}
}

// SetCostFor записывает итог дня по категории.
func (d *ItineraryDay) SetCostFor(category Category, cents int64) {
	switch category {
	case CategoryTransport:
		d.Costs.Transport = cents
	case CategoryHotel:
		d.Costs.Hotel = cents
	case CategoryTicket:
		d.Costs.Ticket = cents
	case CategoryActivity:
		d.Costs.Activity = cents
	default:
		d.Costs.Other = cents
	}
}

// Overridden сообщает, зафиксирован ли итог категории вручную.
func (d *ItineraryDay) Overridden(category Category) bool {
	switch category {
	case CategoryTransport:
		return d.ManualOverride.Transport
	case CategoryHotel:
		return d.ManualOverride.Hotel
	case CategoryTicket:
		return d.ManualOverride.Ticket
	case CategoryActivity:
		return d.ManualOverride.Activity
	default:
		return d.ManualOverride.Other
	}
}

// SetOverridden ставит или снимает ручную фиксацию итога категории.
func (d *ItineraryDay) SetOverridden(category Category, value bool) {
	switch category {
	case CategoryTransport:
		d.ManualOverride.Transport = value
	case CategoryHotel:
		d.ManualOverride.Hotel = value
	case CategoryTicket:
		d.ManualOverride.Ticket = value
	case CategoryActivity:
		d.ManualOverride.Activity = value
	default:
		d.ManualOverride.Other = value
	}
}

// TotalCents возвращает сумму всех категорий дня.
func (d *ItineraryDay) TotalCents() int64 {
	var total int64
	for _, category := range Categories {
		total += d.CostFor(category)
	}
	return total
}

type TripSettings struct {
	Destinations string `json:"destinations"`
	StartDate    string `json:"start_date"`
	PeopleCount  int    `json:"people_count"`
	RoomCount    int    `json:"room_count"`
}

type Trip struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Title     string         `json:"title"`
	Settings  TripSettings   `json:"settings"`
	Days      []ItineraryDay `json:"days"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type TripNote struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Content   string    `json:"content"`
	NoteType  NoteType  `json:"note_type"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}
