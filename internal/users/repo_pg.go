package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PGRepo is the Postgres-backed Repo.
type PGRepo struct {
	db *sql.DB
}

// NewPGRepo wraps an existing connection pool.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Upsert(ctx context.Context, u User) (User, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, picture = EXCLUDED.picture, updated_at = NOW()
		RETURNING id, email, name, picture, created_at, updated_at
	`, uuid.NewString(), email, u.Name, u.Picture)

	out, err := scanUser(row)
	if err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}
	return out, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, picture, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
	out, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return out, nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, picture, created_at, updated_at
		FROM users WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))
	out, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return out, nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var picture sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &picture, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	u.Picture = picture.String
	return u, nil
}

var _ Repo = (*PGRepo)(nil)
