package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staywell/staywell-server/internal/domain"
)

type BookingRepo interface {
	Create(ctx context.Context, guestEmail string, in *domain.BookingReq) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestEmail string) ([]domain.Booking, error)
	ListByHost(ctx context.Context, hostEmail string) ([]domain.Booking, error)
	DeleteOwned(ctx context.Context, id int64, guestEmail string) (*domain.Booking, error)

	SalesAll(ctx context.Context) ([]domain.Sale, error)
	SalesByGuest(ctx context.Context, guestEmail string) ([]domain.Sale, error)
	SalesByHost(ctx context.Context, hostEmail string) ([]domain.Sale, error)
}

type BookingRepoImpl struct{ pool *pgxpool.Pool }

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepoImpl { return &BookingRepoImpl{pool: pool} }

const bookingCols = `id, room_id, room_title,
guest_email, guest_name, host_email,
booking_date, price, transaction_id, created_at`

func (r *BookingRepoImpl) Create(ctx context.Context, guestEmail string, in *domain.BookingReq) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (
    room_id, room_title, guest_email, guest_name, host_email,
    booking_date, price, transaction_id
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := r.pool.QueryRow(ctx, q,
		in.RoomID, in.RoomTitle, guestEmail, in.GuestName, in.HostEmail,
		in.Date, in.Price, in.TransactionID,
	).Scan(
		&b.ID, &b.RoomID, &b.RoomTitle,
		&b.GuestEmail, &b.GuestName, &b.HostEmail,
		&b.Date, &b.Price, &b.TransactionID, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepoImpl) ListByGuest(ctx context.Context, guestEmail string) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE guest_email=$1 ORDER BY created_at`
	return r.listBookings(ctx, q, guestEmail)
}

func (r *BookingRepoImpl) ListByHost(ctx context.Context, hostEmail string) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE host_email=$1 ORDER BY created_at`
	return r.listBookings(ctx, q, hostEmail)
}

func (r *BookingRepoImpl) listBookings(ctx context.Context, q string, args ...any) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bs []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.RoomID, &b.RoomTitle,
			&b.GuestEmail, &b.GuestName, &b.HostEmail,
			&b.Date, &b.Price, &b.TransactionID, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		bs = append(bs, b)
	}
	return bs, rows.Err()
}

// DeleteOwned removes a booking only when guestEmail owns it, returning the
// deleted record for event publication. (nil, nil) when nothing matched.
func (r *BookingRepoImpl) DeleteOwned(ctx context.Context, id int64, guestEmail string) (*domain.Booking, error) {
	const q = `DELETE FROM bookings WHERE id=$1 AND guest_email=$2 RETURNING ` + bookingCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := r.pool.QueryRow(ctx, q, id, guestEmail).Scan(
		&b.ID, &b.RoomID, &b.RoomTitle,
		&b.GuestEmail, &b.GuestName, &b.HostEmail,
		&b.Date, &b.Price, &b.TransactionID, &b.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepoImpl) SalesAll(ctx context.Context) ([]domain.Sale, error) {
	const q = `SELECT booking_date, price FROM bookings ORDER BY created_at`
	return r.listSales(ctx, q)
}

func (r *BookingRepoImpl) SalesByGuest(ctx context.Context, guestEmail string) ([]domain.Sale, error) {
	const q = `SELECT booking_date, price FROM bookings WHERE guest_email=$1 ORDER BY created_at`
	return r.listSales(ctx, q, guestEmail)
}

func (r *BookingRepoImpl) SalesByHost(ctx context.Context, hostEmail string) ([]domain.Sale, error) {
	const q = `SELECT booking_date, price FROM bookings WHERE host_email=$1 ORDER BY created_at`
	return r.listSales(ctx, q, hostEmail)
}

// listSales projects date and price only; everything the aggregator needs.
func (r *BookingRepoImpl) listSales(ctx context.Context, q string, args ...any) ([]domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var s domain.Sale
		var price *float64
		if err := rows.Scan(&s.Date, &price); err != nil {
			return nil, err
		}
		if price != nil {
			s.Price = *price
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
