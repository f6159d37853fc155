package engine

import (
	"strconv"
	"strings"

	"example.com/travel-quote-planner/backend/internal/models"
)

// MaskedPricePlaceholder подставляется вместо числа в каталоге,
// когда реальная цена пользователю не раскрывается.
const MaskedPricePlaceholder = "****"

// CanSeeRealPrice решает, видна ли реальная цена записи в каталоге.
// Владелец всегда видит свою цену; цены общих и опубликованных записей
// открыты admin и super_admin; чужие приватные цены видит только super_admin.
func CanSeeRealPrice(viewer models.Viewer, record models.ResourceRecord) bool {
	if viewer.Role == models.RoleSuperAdmin {
		return true
	}
	if record.OwnerUsername != nil && *record.OwnerUsername == viewer.Username {
		return true
	}
	if record.OwnerUsername == nil || record.IsPublic {
		return viewer.Role == models.RoleAdmin
	}
	return false
}

// ShouldMaskCategory решает, маскируется ли итог категории в смете.
// Маскируется только для standard-пользователя и только если хотя бы одна
// строка категории взята из опубликованной записи на момент расчёта цены.
func ShouldMaskCategory(viewer models.Viewer, items []models.SelectionItem) bool {
	if viewer.Role != models.RoleStandard {
		return false
	}
	for _, item := range items {
		if item.SourceIsPublic {
			return true
		}
	}
	return false
}

// FormatAmountCents возвращает открытое строковое представление суммы.
func FormatAmountCents(cents int64) string {
	return strconv.FormatInt(cents, 10)
}

// MaskAmountCents маскирует сумму, оставляя первую цифру и разрядность.
// Порядок величины сохраняется намеренно: смета должна передавать масштаб,
// а не скрывать его.
func MaskAmountCents(cents int64) string {
	digits := strconv.FormatInt(cents, 10)
	if len(digits) <= 1 {
		return digits
	}
	return digits[:1] + strings.Repeat("*", len(digits)-1)
}
