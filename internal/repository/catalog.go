package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/travel-quote-planner/backend/internal/models"
)

type CatalogRepository struct {
	db *pgxpool.Pool
}

type ResourceInput struct {
	Name           string
	SubKey         *string
	UnitPriceCents int64
	OwnerUsername  *string
	IsPublic       bool
	Capacity       int
	Region         string
}

// NewCatalogRepository создает репозиторий справочников ресурсов.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const resourceColumns = `id, kind, name, sub_key, unit_price_cents, owner_username, is_public, capacity, region, last_updated`

func scanResource(row pgx.Row) (models.ResourceRecord, error) {
	var record models.ResourceRecord
	var kindValue string

	err := row.Scan(&record.ID, &kindValue, &record.Name, &record.SubKey, &record.UnitPriceCents,
		&record.OwnerUsername, &record.IsPublic, &record.Capacity, &record.Region, &record.LastUpdated)
	if err != nil {
		return record, err
	}

	if kind, ok := models.ParseResourceKind(kindValue); ok {
		record.Kind = kind
	} else {
		record.Kind = models.KindOther
	}
	return record, nil
}

// ListByKind возвращает все записи справочника одного вида.
func (r *CatalogRepository) ListByKind(ctx context.Context, kind models.ResourceKind) ([]models.ResourceRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+resourceColumns+`
		 FROM resources
		 WHERE kind = $1
		 ORDER BY name, sub_key NULLS FIRST`,
		kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.ResourceRecord, 0)
	for rows.Next() {
		record, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// ListAll возвращает все справочники, сгруппированные по виду ресурса.
func (r *CatalogRepository) ListAll(ctx context.Context) (map[models.ResourceKind][]models.ResourceRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+resourceColumns+`
		 FROM resources
		 ORDER BY kind, name, sub_key NULLS FIRST`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	catalogs := make(map[models.ResourceKind][]models.ResourceRecord)
	for rows.Next() {
		record, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		catalogs[record.Kind] = append(catalogs[record.Kind], record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return catalogs, nil
}

// GetByID возвращает запись справочника по идентификатору.
func (r *CatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (models.ResourceRecord, error) {
	record, err := scanResource(r.db.QueryRow(ctx,
		`SELECT `+resourceColumns+`
		 FROM resources
		 WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record, ErrNotFound
		}
		return record, err
	}

	return record, nil
}

// Create добавляет запись в справочник.
func (r *CatalogRepository) Create(ctx context.Context, kind models.ResourceKind, input ResourceInput) (models.ResourceRecord, error) {
	record, err := scanResource(r.db.QueryRow(ctx,
		`INSERT INTO resources (id, kind, name, sub_key, unit_price_cents, owner_username, is_public, capacity, region)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+resourceColumns,
		uuid.New(), kind, input.Name, input.SubKey, input.UnitPriceCents,
		input.OwnerUsername, input.IsPublic, input.Capacity, input.Region,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return record, ErrConflict
		}
		return record, err
	}

	return record, nil
}

// Update обновляет запись справочника.
func (r *CatalogRepository) Update(ctx context.Context, id uuid.UUID, input ResourceInput) (models.ResourceRecord, error) {
	record, err := scanResource(r.db.QueryRow(ctx,
		`UPDATE resources
		 SET name = $2,
		     sub_key = $3,
		     unit_price_cents = $4,
		     owner_username = $5,
		     is_public = $6,
		     capacity = $7,
		     region = $8,
		     last_updated = NOW()
		 WHERE id = $1
		 RETURNING `+resourceColumns,
		id, input.Name, input.SubKey, input.UnitPriceCents,
		input.OwnerUsername, input.IsPublic, input.Capacity, input.Region,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record, ErrNotFound
		}
		return record, err
	}

	return record, nil
}

// Delete удаляет запись справочника.
func (r *CatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM resources
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ReplaceKind целиком заменяет справочник одного вида новым снимком.
// Чужие записи, невидимые автору снимка, при замене сохраняются.
func (r *CatalogRepository) ReplaceKind(ctx context.Context, kind models.ResourceKind, ownerUsername string, records []ResourceInput) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx,
		`DELETE FROM resources
		 WHERE kind = $1 AND (owner_username = $2 OR owner_username IS NULL OR is_public)`,
		kind, ownerUsername,
	)
	if err != nil {
		return err
	}

	for _, input := range records {
		_, err = tx.Exec(ctx,
			`INSERT INTO resources (id, kind, name, sub_key, unit_price_cents, owner_username, is_public, capacity, region)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.New(), kind, input.Name, input.SubKey, input.UnitPriceCents,
			input.OwnerUsername, input.IsPublic, input.Capacity, input.Region,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
