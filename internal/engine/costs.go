package engine

import (
	"example.com/travel-quote-planner/backend/internal/models"
)

// CategoryTotalCents суммирует строки категории.
func CategoryTotalCents(items []models.SelectionItem) int64 {
	var total int64
	for _, item := range items {
		total += item.TotalCents()
	}
	return total
}

// RecomputeCategory пересчитывает итог категории, если он не зафиксирован вручную.
func RecomputeCategory(day *models.ItineraryDay, category models.Category) {
	if day.Overridden(category) {
		return
	}
	day.SetCostFor(category, CategoryTotalCents(day.ItemsFor(category)))
}

// RecomputeCosts пересчитывает все незафиксированные итоги дня.
func RecomputeCosts(day *models.ItineraryDay) {
	for _, category := range models.Categories {
		RecomputeCategory(day, category)
	}
}

// ReplaceItems заменяет строки категории как привязанную к каталогу правку:
// ручная фиксация итога снимается, итог пересчитывается.
func ReplaceItems(day *models.ItineraryDay, category models.Category, items []models.SelectionItem) {
	day.SetOverridden(category, false)
	day.SetItemsFor(category, items)
	RecomputeCategory(day, category)
}

// SetManualTotal записывает введённый оператором итог категории и
// отвязывает его от строк до следующей каталожной правки.
func SetManualTotal(day *models.ItineraryDay, category models.Category, cents int64) {
	day.SetOverridden(category, true)
	day.SetCostFor(category, cents)
}
