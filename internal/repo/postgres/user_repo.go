package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staywell/staywell-server/internal/domain"
)

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, in *domain.UserUpsertReq) (*domain.User, error)
	UpdateProfile(ctx context.Context, email string, in *domain.UserUpdateReq) (*domain.User, error)
	UpdateStatus(ctx context.Context, email, status string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	RegisteredAt(ctx context.Context, email string) (*time.Time, error)
}

type UserRepoImpl struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *UserRepoImpl { return &UserRepoImpl{pool: pool} }

const userCols = `email, display_name, photo_url, role, status, registered_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.Email, &u.DisplayName, &u.PhotoURL, &u.Role, &u.Status, &u.RegisteredAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail returns (nil, nil) when no identity exists for the email.
func (r *UserRepoImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	u, err := scanUser(r.pool.QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *UserRepoImpl) Insert(ctx context.Context, in *domain.UserUpsertReq) (*domain.User, error) {
	const q = `
INSERT INTO users (email, display_name, photo_url, role, status)
VALUES ($1,$2,$3,'guest',$4)
RETURNING ` + userCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.pool.QueryRow(ctx, q, in.Email, in.DisplayName, in.PhotoURL, in.Status))
}

// UpdateProfile applies the non-nil fields and stamps updated_at.
// registered_at is never touched.
func (r *UserRepoImpl) UpdateProfile(ctx context.Context, email string, in *domain.UserUpdateReq) (*domain.User, error) {
	const q = `
UPDATE users SET
  display_name = COALESCE($2, display_name),
  photo_url    = COALESCE($3, photo_url),
  role         = COALESCE($4, role),
  status       = COALESCE($5, status),
  updated_at   = now()
WHERE email=$1
RETURNING ` + userCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	u, err := scanUser(r.pool.QueryRow(ctx, q, email, in.DisplayName, in.PhotoURL, in.Role, in.Status))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *UserRepoImpl) UpdateStatus(ctx context.Context, email, status string) (*domain.User, error) {
	const q = `UPDATE users SET status=$2, updated_at=now() WHERE email=$1 RETURNING ` + userCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	u, err := scanUser(r.pool.QueryRow(ctx, q, email, status))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *UserRepoImpl) List(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users ORDER BY registered_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var us []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.Email, &u.DisplayName, &u.PhotoURL, &u.Role, &u.Status, &u.RegisteredAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		us = append(us, u)
	}
	return us, rows.Err()
}

func (r *UserRepoImpl) Count(ctx context.Context) (int64, error) {
	const q = `SELECT count(*) FROM users`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var n int64
	err := r.pool.QueryRow(ctx, q).Scan(&n)
	return n, err
}

// RegisteredAt returns (nil, nil) when the identity is absent; dashboard
// aggregation omits the "since" field rather than failing.
func (r *UserRepoImpl) RegisteredAt(ctx context.Context, email string) (*time.Time, error) {
	const q = `SELECT registered_at FROM users WHERE email=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var t time.Time
	err := r.pool.QueryRow(ctx, q, email).Scan(&t)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
