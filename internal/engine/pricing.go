package engine

import (
	"strings"

	"example.com/travel-quote-planner/backend/internal/models"
)

// RepriceDays заново разрешает цену каждой строки по видимой части каталога.
// Строка без совпадения сохраняет прежнюю цену: переименования и удаления
// записей за время поездки — ожидаемое состояние каталога, не ошибка.
// Ручные итоги при этом не сбрасываются; пересчитываются только
// незафиксированные категории.
func RepriceDays(viewer models.Viewer, days []models.ItineraryDay, catalogs CatalogSet) {
	visible := VisibleCatalogs(viewer, catalogs)

	for i := range days {
		day := &days[i]
		for _, category := range models.Categories {
			items := day.ItemsFor(category)
			for j := range items {
				repriceItem(&items[j], category, visible[category.Kind()])
			}
			day.SetItemsFor(category, items)
		}
		RecomputeCosts(day)
	}
}

func repriceItem(item *models.SelectionItem, category models.Category, catalog []models.ResourceRecord) {
	var record models.ResourceRecord
	var ok bool

	switch category {
	case models.CategoryTransport:
		// Модель + тип услуги, при отсутствии точного совпадения — только модель.
		record, ok = findByNameAndSubKey(catalog, item.Name, item.SubKey)
		if !ok {
			record, ok = findByName(catalog, item.Name)
		}
		if ok {
			item.UnitPriceCents = record.UnitPriceCents
			item.SourceIsPublic = record.IsPublic
		}
	case models.CategoryHotel:
		// Отель + тип номера; запасной путь по имени отеля перенимает тип номера каталога.
		record, ok = findByNameAndSubKey(catalog, item.Name, item.SubKey)
		if !ok {
			record, ok = findByName(catalog, item.Name)
			if ok {
				item.SubKey = record.SubKey
			}
		}
		if ok {
			item.UnitPriceCents = record.UnitPriceCents
			item.SourceIsPublic = record.IsPublic
		}
	default:
		record, ok = findByName(catalog, item.Name)
		if ok {
			item.UnitPriceCents = record.UnitPriceCents
			item.SourceIsPublic = record.IsPublic
		}
	}
}

func findByNameAndSubKey(catalog []models.ResourceRecord, name string, subKey *string) (models.ResourceRecord, bool) {
	if subKey == nil || strings.TrimSpace(*subKey) == "" {
		return models.ResourceRecord{}, false
	}

	for _, record := range catalog {
		if !strings.EqualFold(strings.TrimSpace(record.Name), strings.TrimSpace(name)) {
			continue
		}
		if record.SubKey == nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(*record.SubKey), strings.TrimSpace(*subKey)) {
			return record, true
		}
	}
	return models.ResourceRecord{}, false
}

func findByName(catalog []models.ResourceRecord, name string) (models.ResourceRecord, bool) {
	for _, record := range catalog {
		if strings.EqualFold(strings.TrimSpace(record.Name), strings.TrimSpace(name)) {
			return record, true
		}
	}
	return models.ResourceRecord{}, false
}
