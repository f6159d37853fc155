package ai

// CatalogEntry описывает доступный ресурс без цены: прайс в модель не передается.
type CatalogEntry struct {
	Name     string `json:"name"`
	SubKey   string `json:"sub_key,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
	Region   string `json:"region,omitempty"`
}

type CatalogSummary struct {
	Transport []CatalogEntry `json:"transport,omitempty"`
	Hotels    []CatalogEntry `json:"hotels,omitempty"`
	Tickets   []CatalogEntry `json:"tickets,omitempty"`
	Activity  []CatalogEntry `json:"activity,omitempty"`
}

type DaySummary struct {
	DayIndex    int    `json:"day_index"`
	Date        string `json:"date,omitempty"`
	Route       string `json:"route,omitempty"`
	Description string `json:"description,omitempty"`
	HotelName   string `json:"hotel_name,omitempty"`
}

type ProposeInput struct {
	Destinations string         `json:"destinations"`
	StartDate    string         `json:"start_date"`
	DayCount     int            `json:"day_count"`
	PeopleCount  int            `json:"people_count"`
	RoomCount    int            `json:"room_count"`
	CurrentDays  []DaySummary   `json:"current_days,omitempty"`
	Catalog      CatalogSummary `json:"catalog"`
	UserRequest  string         `json:"user_request"`
}

type SuggestNotesInput struct {
	Destinations string       `json:"destinations"`
	StartDate    string       `json:"start_date"`
	PeopleCount  int          `json:"people_count"`
	Days         []DaySummary `json:"days"`
}

type Note struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type NotesResponse struct {
	Notes []Note `json:"notes"`
}
