package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staywell/staywell-server/internal/domain"
)

type RoomRepo interface {
	Create(ctx context.Context, hostEmail, hostName string, in *domain.RoomReq) (*domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context, category string) ([]domain.Room, error)
	ListByHost(ctx context.Context, hostEmail string) ([]domain.Room, error)
	UpdateOwned(ctx context.Context, id int64, hostEmail string, in *domain.RoomReq) (bool, error)
	SetBooked(ctx context.Context, id int64, booked bool) (bool, error)
	DeleteOwned(ctx context.Context, id int64, hostEmail string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByHost(ctx context.Context, hostEmail string) (int64, error)
}

type RoomRepoImpl struct{ pool *pgxpool.Pool }

func NewRoomRepo(pool *pgxpool.Pool) *RoomRepoImpl { return &RoomRepoImpl{pool: pool} }

const roomCols = `id, title, location, category, description, image_url,
price, guests, bedrooms, bathrooms, booked,
host_email, host_name, created_at, updated_at`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var rm domain.Room
	if err := row.Scan(
		&rm.ID, &rm.Title, &rm.Location, &rm.Category, &rm.Description, &rm.ImageURL,
		&rm.Price, &rm.Guests, &rm.Bedrooms, &rm.Bathrooms, &rm.Booked,
		&rm.HostEmail, &rm.HostName, &rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepoImpl) Create(ctx context.Context, hostEmail, hostName string, in *domain.RoomReq) (*domain.Room, error) {
	const q = `INSERT INTO rooms (
    title, location, category, description, image_url,
    price, guests, bedrooms, bathrooms, host_email, host_name
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  RETURNING ` + roomCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanRoom(r.pool.QueryRow(ctx, q,
		in.Title, in.Location, in.Category, in.Description, in.ImageURL,
		in.Price, in.Guests, in.Bedrooms, in.Bathrooms, hostEmail, hostName,
	))
}

func (r *RoomRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	const q = `SELECT ` + roomCols + ` FROM rooms WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rm, err := scanRoom(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return rm, err
}

func (r *RoomRepoImpl) List(ctx context.Context, category string) ([]domain.Room, error) {
	q := `SELECT ` + roomCols + ` FROM rooms ORDER BY created_at DESC`
	args := []any{}
	if category != "" {
		q = `SELECT ` + roomCols + ` FROM rooms WHERE category=$1 ORDER BY created_at DESC`
		args = append(args, category)
	}
	return r.listRooms(ctx, q, args...)
}

func (r *RoomRepoImpl) ListByHost(ctx context.Context, hostEmail string) ([]domain.Room, error) {
	const q = `SELECT ` + roomCols + ` FROM rooms WHERE host_email=$1 ORDER BY created_at DESC`
	return r.listRooms(ctx, q, hostEmail)
}

func (r *RoomRepoImpl) listRooms(ctx context.Context, q string, args ...any) ([]domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(
			&rm.ID, &rm.Title, &rm.Location, &rm.Category, &rm.Description, &rm.ImageURL,
			&rm.Price, &rm.Guests, &rm.Bedrooms, &rm.Bathrooms, &rm.Booked,
			&rm.HostEmail, &rm.HostName, &rm.CreatedAt, &rm.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rms = append(rms, rm)
	}
	return rms, rows.Err()
}

// UpdateOwned only touches rows owned by hostEmail; a false return means the
// room does not exist or belongs to someone else.
func (r *RoomRepoImpl) UpdateOwned(ctx context.Context, id int64, hostEmail string, in *domain.RoomReq) (bool, error) {
	const q = `UPDATE rooms SET
    title=$3, location=$4, category=$5, description=$6, image_url=$7,
    price=$8, guests=$9, bedrooms=$10, bathrooms=$11, updated_at=now()
  WHERE id=$1 AND host_email=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	ct, err := r.pool.Exec(ctx, q, id, hostEmail,
		in.Title, in.Location, in.Category, in.Description, in.ImageURL,
		in.Price, in.Guests, in.Bedrooms, in.Bathrooms,
	)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *RoomRepoImpl) SetBooked(ctx context.Context, id int64, booked bool) (bool, error) {
	const q = `UPDATE rooms SET booked=$2, updated_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	ct, err := r.pool.Exec(ctx, q, id, booked)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *RoomRepoImpl) DeleteOwned(ctx context.Context, id int64, hostEmail string) (bool, error) {
	const q = `DELETE FROM rooms WHERE id=$1 AND host_email=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	ct, err := r.pool.Exec(ctx, q, id, hostEmail)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *RoomRepoImpl) Count(ctx context.Context) (int64, error) {
	const q = `SELECT count(*) FROM rooms`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var n int64
	err := r.pool.QueryRow(ctx, q).Scan(&n)
	return n, err
}

func (r *RoomRepoImpl) CountByHost(ctx context.Context, hostEmail string) (int64, error) {
	const q = `SELECT count(*) FROM rooms WHERE host_email=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var n int64
	err := r.pool.QueryRow(ctx, q, hostEmail).Scan(&n)
	return n, err
}
