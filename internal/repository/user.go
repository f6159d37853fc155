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

type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create создает пользователя в базе.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string, name *string, role models.RoleTier) (models.User, error) {
	var user models.User
	var nameValue *string
	var roleValue string

	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, name, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, username, password_hash, name, role, created_at, updated_at`,
		username, passwordHash, name, role,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &nameValue, &roleValue, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user, ErrConflict
		}
		return user, err
	}

	user.Name = nameValue
	user.Role = models.ParseRole(roleValue)
	return user, nil
}

// GetByUsername возвращает пользователя по логину.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	var nameValue *string
	var roleValue string

	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, name, role, created_at, updated_at
		 FROM users
		 WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &nameValue, &roleValue, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}

	user.Name = nameValue
	user.Role = models.ParseRole(roleValue)
	return user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	var nameValue *string
	var roleValue string

	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, name, role, created_at, updated_at
		 FROM users
		 WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &nameValue, &roleValue, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}

	user.Name = nameValue
	user.Role = models.ParseRole(roleValue)
	return user, nil
}

// List возвращает всех пользователей без хешей паролей.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, username, name, role, created_at, updated_at
		 FROM users
		 ORDER BY username`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		var nameValue *string
		var roleValue string

		err := rows.Scan(&user.ID, &user.Username, &nameValue, &roleValue, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, err
		}

		user.Name = nameValue
		user.Role = models.ParseRole(roleValue)
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// SetRole меняет роль пользователя.
func (r *UserRepository) SetRole(ctx context.Context, id uuid.UUID, role models.RoleTier) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE users
		 SET role = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, role,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
