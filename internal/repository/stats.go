package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/travel-quote-planner/backend/internal/models"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

type OverviewStats struct {
	TotalTrips    int
	UpcomingTrips int
	PastTrips     int
	TotalDays     int
}

type CatalogKindStats struct {
	Kind    models.ResourceKind
	Total   int
	Public  int
	Private int
	Legacy  int
}

// NewStatsRepository создает репозиторий статистики.
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview возвращает сводную статистику по поездкам пользователя.
func (r *StatsRepository) Overview(ctx context.Context, userID uuid.UUID) (OverviewStats, error) {
	var stats OverviewStats

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) AS total_trips,
		        COUNT(*) FILTER (WHERE start_date::date >= CURRENT_DATE) AS upcoming_trips,
		        COUNT(*) FILTER (WHERE start_date::date < CURRENT_DATE) AS past_trips,
		        COALESCE(SUM(jsonb_array_length(days)), 0) AS total_days
		 FROM trips
		 WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalTrips, &stats.UpcomingTrips, &stats.PastTrips, &stats.TotalDays)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

// CatalogBreakdown возвращает состав справочников по видам ресурсов.
func (r *StatsRepository) CatalogBreakdown(ctx context.Context) ([]CatalogKindStats, error) {
	rows, err := r.db.Query(ctx,
		`SELECT kind,
		        COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE is_public) AS public,
		        COUNT(*) FILTER (WHERE NOT is_public AND owner_username IS NOT NULL) AS private,
		        COUNT(*) FILTER (WHERE owner_username IS NULL) AS legacy
		 FROM resources
		 GROUP BY kind
		 ORDER BY kind`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := make([]CatalogKindStats, 0)
	for rows.Next() {
		var row CatalogKindStats
		var kindValue string

		err := rows.Scan(&kindValue, &row.Total, &row.Public, &row.Private, &row.Legacy)
		if err != nil {
			return nil, err
		}

		if kind, ok := models.ParseResourceKind(kindValue); ok {
			row.Kind = kind
		} else {
			row.Kind = models.KindOther
		}
		breakdown = append(breakdown, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return breakdown, nil
}
