package store

import (
	"context"
	"fmt"

	"garage-manager/internal/core"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, role, is_active, created_at`

func scanUser(row pgx.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUser(ctx context.Context, id int) (core.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, wrap("get user", id, err)
}

// GetUserByUsername looks up an active user for login.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND is_active = true`, username))
	if err != nil {
		return core.User{}, fmt.Errorf("get user %q: %w", username, classify(err))
	}
	return u, nil
}

// CreateUser stores u; PasswordHash must already be hashed.
func (s *Store) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	out, err := scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.Role,
	))
	if err != nil {
		return core.User{}, fmt.Errorf("create user %q: %w", u.Username, classify(err))
	}
	return out, nil
}
