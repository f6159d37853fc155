package engine

import (
	"example.com/travel-quote-planner/backend/internal/models"
)

// IsVisible решает, видна ли запись каталога данному пользователю.
// Записи без владельца считаются общими для всех.
func IsVisible(viewer models.Viewer, record models.ResourceRecord) bool {
	if viewer.Role == models.RoleSuperAdmin {
		return true
	}
	if record.IsPublic {
		return true
	}
	if record.OwnerUsername == nil {
		return true
	}
	return *record.OwnerUsername == viewer.Username
}

// CanEdit решает, может ли пользователь менять или удалять запись каталога.
// Публикация односторонняя: опубликованную запись правит только super_admin,
// даже её автор. Записи без владельца тоже доступны только super_admin.
func CanEdit(viewer models.Viewer, record models.ResourceRecord) bool {
	if viewer.Role == models.RoleSuperAdmin {
		return true
	}
	if record.IsPublic {
		return false
	}
	if record.OwnerUsername == nil {
		return false
	}
	return *record.OwnerUsername == viewer.Username
}

// VisibleRecords отбирает записи, видимые пользователю, сохраняя порядок каталога.
func VisibleRecords(viewer models.Viewer, records []models.ResourceRecord) []models.ResourceRecord {
	visible := make([]models.ResourceRecord, 0, len(records))
	for _, record := range records {
		if IsVisible(viewer, record) {
			visible = append(visible, record)
		}
	}
	return visible
}

// CatalogSet хранит каталоги по видам ресурсов.
type CatalogSet map[models.ResourceKind][]models.ResourceRecord

// VisibleCatalogs отбирает видимые пользователю записи в каждом каталоге.
func VisibleCatalogs(viewer models.Viewer, catalogs CatalogSet) CatalogSet {
	visible := make(CatalogSet, len(catalogs))
	for kind, records := range catalogs {
		visible[kind] = VisibleRecords(viewer, records)
	}
	return visible
}
