package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/userboard/internal/domain/user"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *UserRepo { return &UserRepo{pool: pool} }

// Create inserts a new account and returns it with the server-assigned
// id and timestamps. A unique-constraint violation on the username
// (including one raised by a concurrent insert that won the race past
// the service-level existence check) maps to ErrDuplicateUsername.
func (r *UserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, attribute_int, attribute_str)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Username, u.PasswordHash, u.AttributeInt, u.AttributeStr)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrDuplicateUsername
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, attribute_int, attribute_str, created_at, updated_at
		FROM users WHERE username=$1
	`, username)
	return scanUser(row)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, attribute_int, attribute_str, created_at, updated_at
		FROM users WHERE id=$1
	`, id)
	return scanUser(row)
}

// UpdateAttributes writes both profile attributes in one statement so
// the commit is all-or-nothing.
func (r *UserRepo) UpdateAttributes(ctx context.Context, id int64, attrInt int64, attrStr string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET attribute_int=$2, attribute_str=$3, updated_at=$4 WHERE id=$1
	`, id, attrInt, attrStr, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update attributes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.AttributeInt, &u.AttributeStr, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
