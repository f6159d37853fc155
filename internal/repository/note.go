package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/travel-quote-planner/backend/internal/models"
)

type NoteRepository struct {
	db *pgxpool.Pool
}

// NewNoteRepository создает репозиторий заметок поездки.
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) tripExists(ctx context.Context, tx pgx.Tx, userID, tripID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow
	if tx != nil {
		row = tx.QueryRow
	}
	err := row(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM trips WHERE id = $1 AND user_id = $2
		 )`,
		tripID, userID,
	).Scan(&exists)
	return exists, err
}

// ListByTrip возвращает заметки поездки.
func (r *NoteRepository) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]models.TripNote, error) {
	exists, err := r.tripExists(ctx, nil, userID, tripID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, trip_id, content, note_type, sort_order, created_at, updated_at
		 FROM trip_notes
		 WHERE trip_id = $1
		 ORDER BY sort_order, created_at`,
		tripID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.TripNote, 0)
	for rows.Next() {
		var note models.TripNote

		err := rows.Scan(&note.ID, &note.TripID, &note.Content, &note.NoteType, &note.SortOrder, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			return nil, err
		}

		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

// Create добавляет заметку к поездке.
func (r *NoteRepository) Create(ctx context.Context, userID, tripID uuid.UUID, content string, noteType models.NoteType) (models.TripNote, error) {
	var note models.TripNote

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return note, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	exists, err := r.tripExists(ctx, tx, userID, tripID)
	if err != nil {
		return note, err
	}
	if !exists {
		return note, ErrNotFound
	}

	var maxOrder int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order), -1)
		 FROM trip_notes
		 WHERE trip_id = $1`,
		tripID,
	).Scan(&maxOrder)
	if err != nil {
		return note, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO trip_notes (id, trip_id, content, note_type, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, trip_id, content, note_type, sort_order, created_at, updated_at`,
		uuid.New(), tripID, content, noteType, maxOrder+1,
	).Scan(&note.ID, &note.TripID, &note.Content, &note.NoteType, &note.SortOrder, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return note, err
	}

	if err := tx.Commit(ctx); err != nil {
		return note, err
	}

	return note, nil
}

// Update изменяет заметку.
func (r *NoteRepository) Update(ctx context.Context, userID, noteID uuid.UUID, content string) (models.TripNote, error) {
	var note models.TripNote

	err := r.db.QueryRow(ctx,
		`UPDATE trip_notes n
		 SET content = $2,
		     updated_at = NOW()
		 FROM trips t
		 WHERE n.id = $1
		   AND n.trip_id = t.id
		   AND t.user_id = $3
		 RETURNING n.id, n.trip_id, n.content, n.note_type, n.sort_order, n.created_at, n.updated_at`,
		noteID, content, userID,
	).Scan(&note.ID, &note.TripID, &note.Content, &note.NoteType, &note.SortOrder, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return note, ErrNotFound
		}
		return note, err
	}

	return note, nil
}

// Delete удаляет заметку.
func (r *NoteRepository) Delete(ctx context.Context, userID, noteID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM trip_notes n
		 USING trips t
		 WHERE n.id = $1
		   AND n.trip_id = t.id
		   AND t.user_id = $2`,
		noteID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByTripAndType удаляет заметки поездки по типу.
func (r *NoteRepository) DeleteByTripAndType(ctx context.Context, userID, tripID uuid.UUID, noteType models.NoteType) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM trip_notes n
		 USING trips t
		 WHERE n.trip_id = t.id
		   AND t.id = $1
		   AND t.user_id = $2
		   AND n.note_type = $3`,
		tripID, userID, noteType,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
