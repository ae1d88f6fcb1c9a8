package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

const userColumns = `id, username, password_hash, role, created_at, updated_at`

// UserRepository implements ports.UserRepository.
type UserRepository struct{ db *DB }

func NewUserRepository(db *DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
INSERT INTO users (username, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, u.Username, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	return mapError("insert user", err, nil, domain.ErrUsernameTaken)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u, err := scanUser(r.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("select user", err, domain.ErrUserNotFound, nil)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u, err := scanUser(r.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapError("select user", err, domain.ErrUserNotFound, nil)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var w where
	if f.Search != "" {
		w.add("username ILIKE ?", likePattern(f.Search))
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM users`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count users", err, nil, nil)
	}

	limit, args := w.page(f.Page)
	rows, err := r.db.Pool.Query(ctx, `SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, mapError("list users", err, nil, nil)
	}
	defer rows.Close()

	out := make([]*domain.User, 0, f.Page.Size)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return out, total, nil
}

// Update keeps the stored password hash when u.PasswordHash is empty.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
UPDATE users
SET username = $2, role = $3, password_hash = COALESCE(NULLIF($4, ''), password_hash), updated_at = $5
WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, u.ID, u.Username, string(u.Role), u.PasswordHash, u.UpdatedAt)
	if err != nil {
		return mapError("update user", err, nil, domain.ErrUsernameTaken)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleWrite
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, hash, time.Now().UTC())
	if err != nil {
		return mapError("update password hash", err, nil, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError("delete user", err, nil, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ok bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok)
	return ok, mapError("user exists", err, nil, nil)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, mapError("count users", err, nil, nil)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
