package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/travel-quote-planner/backend/internal/models"
)

type TripRepository struct {
	db *pgxpool.Pool
}

type TripWithDayCount struct {
	Trip     models.Trip
	DayCount int
}

// NewTripRepository создает репозиторий поездок.
func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

// Дни хранятся одним jsonb-документом: смета редактируется целыми днями,
// и построчная схема дала бы только лишние джойны.
func marshalDays(days []models.ItineraryDay) ([]byte, error) {
	if days == nil {
		days = []models.ItineraryDay{}
	}
	return json.Marshal(days)
}

func unmarshalDays(payload []byte) ([]models.ItineraryDay, error) {
	days := make([]models.ItineraryDay, 0)
	if len(payload) == 0 {
		return days, nil
	}
	if err := json.Unmarshal(payload, &days); err != nil {
		return nil, fmt.Errorf("decode trip days: %w", err)
	}
	return days, nil
}

func scanTrip(row pgx.Row) (models.Trip, error) {
	var trip models.Trip
	var daysPayload []byte

	err := row.Scan(&trip.ID, &trip.UserID, &trip.Title,
		&trip.Settings.Destinations, &trip.Settings.StartDate, &trip.Settings.PeopleCount, &trip.Settings.RoomCount,
		&daysPayload, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return trip, err
	}

	trip.Days, err = unmarshalDays(daysPayload)
	return trip, err
}

const tripColumns = `id, user_id, title, destinations, start_date, people_count, room_count, days, created_at, updated_at`

// Create создает поездку.
func (r *TripRepository) Create(ctx context.Context, userID uuid.UUID, title string, settings models.TripSettings, days []models.ItineraryDay) (models.Trip, error) {
	payload, err := marshalDays(days)
	if err != nil {
		return models.Trip{}, err
	}

	trip, err := scanTrip(r.db.QueryRow(ctx,
		`INSERT INTO trips (id, user_id, title, destinations, start_date, people_count, room_count, days)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+tripColumns,
		uuid.New(), userID, title,
		settings.Destinations, settings.StartDate, settings.PeopleCount, settings.RoomCount,
		payload,
	))
	if err != nil {
		return models.Trip{}, err
	}

	return trip, nil
}

// GetByID возвращает поездку пользователя по идентификатору.
func (r *TripRepository) GetByID(ctx context.Context, userID, tripID uuid.UUID) (models.Trip, error) {
	trip, err := scanTrip(r.db.QueryRow(ctx,
		`SELECT `+tripColumns+`
		 FROM trips
		 WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trip, ErrNotFound
		}
		return trip, err
	}

	return trip, nil
}

// ListByUser возвращает поездки пользователя без массива дней.
func (r *TripRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]TripWithDayCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, destinations, start_date, people_count, room_count,
		        jsonb_array_length(days) AS day_count, created_at, updated_at
		 FROM trips
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]TripWithDayCount, 0)
	for rows.Next() {
		var trip models.Trip
		var dayCount int

		err := rows.Scan(&trip.ID, &trip.UserID, &trip.Title,
			&trip.Settings.Destinations, &trip.Settings.StartDate, &trip.Settings.PeopleCount, &trip.Settings.RoomCount,
			&dayCount, &trip.CreatedAt, &trip.UpdatedAt)
		if err != nil {
			return nil, err
		}

		trips = append(trips, TripWithDayCount{Trip: trip, DayCount: dayCount})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trips, nil
}

// Update обновляет заголовок и настройки поездки.
func (r *TripRepository) Update(ctx context.Context, userID, tripID uuid.UUID, title string, settings models.TripSettings) (models.Trip, error) {
	trip, err := scanTrip(r.db.QueryRow(ctx,
		`UPDATE trips
		 SET title = $3,
		     destinations = $4,
		     start_date = $5,
		     people_count = $6,
		     room_count = $7,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+tripColumns,
		tripID, userID, title,
		settings.Destinations, settings.StartDate, settings.PeopleCount, settings.RoomCount,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trip, ErrNotFound
		}
		return trip, err
	}

	return trip, nil
}

// SaveDays сохраняет массив дней и настройки поездки целиком.
func (r *TripRepository) SaveDays(ctx context.Context, userID, tripID uuid.UUID, settings models.TripSettings, days []models.ItineraryDay) error {
	payload, err := marshalDays(days)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx,
		`UPDATE trips
		 SET destinations = $3,
		     start_date = $4,
		     people_count = $5,
		     room_count = $6,
		     days = $7,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		tripID, userID,
		settings.Destinations, settings.StartDate, settings.PeopleCount, settings.RoomCount,
		payload,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет поездку.
func (r *TripRepository) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM trips
		 WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Duplicate создает полную копию поездки вместе с заметками.
func (r *TripRepository) Duplicate(ctx context.Context, userID, tripID uuid.UUID) (models.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Trip{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	original, err := scanTrip(tx.QueryRow(ctx,
		`SELECT `+tripColumns+`
		 FROM trips
		 WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Trip{}, ErrNotFound
		}
		return models.Trip{}, err
	}

	payload, err := marshalDays(original.Days)
	if err != nil {
		return models.Trip{}, err
	}

	newTitle := buildCopyTitle(original.Title, 200)

	newTrip, err := scanTrip(tx.QueryRow(ctx,
		`INSERT INTO trips (id, user_id, title, destinations, start_date, people_count, room_count, days)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+tripColumns,
		uuid.New(), userID, newTitle,
		original.Settings.Destinations, original.Settings.StartDate, original.Settings.PeopleCount, original.Settings.RoomCount,
		payload,
	))
	if err != nil {
		return models.Trip{}, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO trip_notes (id, trip_id, content, note_type, sort_order)
		 SELECT gen_random_uuid(), $2, content, note_type, sort_order
		 FROM trip_notes
		 WHERE trip_id = $1`,
		tripID, newTrip.ID,
	)
	if err != nil {
		return models.Trip{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Trip{}, err
	}

	return newTrip, nil
}

func buildCopyTitle(title string, maxRunes int) string {
	copyTitle := fmt.Sprintf("Copy of %s", title)
	if len([]rune(copyTitle)) <= maxRunes {
		return copyTitle
	}

	runes := []rune(copyTitle)
	return string(runes[:maxRunes])
}
