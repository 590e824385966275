package repository

import (
	"context"
	"fmt"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo represents user repository.
type UserRepo struct{ db *pgxpool.Pool }

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, password_hash, name, role, locale, created_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Locale, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u and fills its ID and CreatedAt.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users(email, password_hash, name, role, locale) VALUES($1,$2,$3,$4,$5) RETURNING id, created_at`,
		u.Email, u.PasswordHash, u.Name, string(u.Role), u.Locale,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: email already registered", apperr.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByEmail returns the user or nil when none exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Get returns the user or nil when none exists.
func (r *UserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}
