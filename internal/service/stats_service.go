package service

import (
	"context"
	"fmt"
	"time"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/repo/postgres"
	"github.com/staywell/staywell-server/pkg/logger"
)

// StatsService folds scoped booking sets into dashboard summaries. All three
// scopes share the same fold and differ only in the record set and the extra
// counts attached.
type StatsService interface {
	AdminStats(ctx context.Context) (*domain.AdminStats, error)
	HostStats(ctx context.Context, hostEmail string) (*domain.HostStats, error)
	GuestStats(ctx context.Context, guestEmail string) (*domain.GuestStats, error)
}

type statsService struct {
	bookings postgres.BookingRepo
	rooms    postgres.RoomRepo
	users    postgres.UserRepo
}

func NewStatsService(bookings postgres.BookingRepo, rooms postgres.RoomRepo, users postgres.UserRepo) StatsService {
	return &statsService{bookings: bookings, rooms: rooms, users: users}
}

func (s *statsService) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	sales, err := s.bookings.SalesAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking sales: %w", err)
	}

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	totalRooms, err := s.rooms.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}

	count, total, chart := foldSales(sales)
	return &domain.AdminStats{
		TotalUsers:    totalUsers,
		TotalRooms:    totalRooms,
		TotalBookings: count,
		TotalPrice:    total,
		ChartData:     chart,
	}, nil
}

func (s *statsService) HostStats(ctx context.Context, hostEmail string) (*domain.HostStats, error) {
	sales, err := s.bookings.SalesByHost(ctx, hostEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking sales: %w", err)
	}

	totalRooms, err := s.rooms.CountByHost(ctx, hostEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}

	count, total, chart := foldSales(sales)
	return &domain.HostStats{
		TotalRooms:    totalRooms,
		TotalBookings: count,
		TotalPrice:    total,
		ChartData:     chart,
		HostSince:     s.memberSince(ctx, hostEmail),
	}, nil
}

func (s *statsService) GuestStats(ctx context.Context, guestEmail string) (*domain.GuestStats, error) {
	sales, err := s.bookings.SalesByGuest(ctx, guestEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking sales: %w", err)
	}

	count, total, chart := foldSales(sales)
	return &domain.GuestStats{
		TotalBookings: count,
		TotalPrice:    total,
		ChartData:     chart,
		GuestSince:    s.memberSince(ctx, guestEmail),
	}, nil
}

// memberSince degrades to nil when the identity record is missing or the
// lookup fails; the dashboard prefers a partial summary over no summary.
func (s *statsService) memberSince(ctx context.Context, email string) *time.Time {
	since, err := s.users.RegisteredAt(ctx, email)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load member-since timestamp", "error", err, "email", email)
		return nil
	}
	return since
}

// foldSales turns a scoped booking set into totals plus a calendar series.
// Chart rows are bucketed on the UTC calendar date as "<day>/<month>" with
// the month 1-indexed, headed by a literal ["Day","Sales"] pair so the
// series is self-describing. Fetch order is preserved.
func foldSales(sales []domain.Sale) (int, float64, []domain.ChartRow) {
	chart := make([]domain.ChartRow, 0, len(sales)+1)
	chart = append(chart, domain.ChartRow{"Day", "Sales"})

	var total float64
	for _, sale := range sales {
		d := sale.Date.In(time.UTC)
		label := fmt.Sprintf("%d/%d", d.Day(), int(d.Month()))
		chart = append(chart, domain.ChartRow{label, sale.Price})
		total += sale.Price
	}

	return len(sales), total, chart
}
