package service

import (
	"context"
	"fmt"
	"time"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/metrics"
	"github.com/staywell/staywell-server/internal/platform/mailer"
	"github.com/staywell/staywell-server/internal/repo/postgres"
	"github.com/staywell/staywell-server/pkg/events"
	"github.com/staywell/staywell-server/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, guestEmail string, req *domain.BookingReq) (*domain.Booking, error)
	ListForGuest(ctx context.Context, guestEmail string) ([]domain.Booking, error)
	ListForHost(ctx context.Context, hostEmail string) ([]domain.Booking, error)
	Delete(ctx context.Context, id int64, guestEmail string) error
}

type bookingService struct {
	bookings  postgres.BookingRepo
	rooms     postgres.RoomRepo
	eventBus  events.Publisher
	mail      mailer.Service
	collector metrics.Collector
}

func NewBookingService(
	bookings postgres.BookingRepo,
	rooms postgres.RoomRepo,
	eventBus events.Publisher,
	mail mailer.Service,
	collector metrics.Collector,
) BookingService {
	return &bookingService{
		bookings:  bookings,
		rooms:     rooms,
		eventBus:  eventBus,
		mail:      mail,
		collector: collector,
	}
}

// Create records a booking after payment confirmation. The guest identity
// comes from the verified session, never from the request body. The room's
// stored host and title are authoritative; client-supplied copies are
// ignored.
func (s *bookingService) Create(ctx context.Context, guestEmail string, req *domain.BookingReq) (*domain.Booking, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	if room == nil {
		return nil, fmt.Errorf("%w: room %d", domain.ErrNotFound, req.RoomID)
	}

	req.HostEmail = room.HostEmail
	req.RoomTitle = room.Title

	booking, err := s.bookings.Create(ctx, guestEmail, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// Single-document writes only; a crash here leaves the room flag stale,
	// which the next booking attempt surfaces.
	if _, err := s.rooms.SetBooked(ctx, booking.RoomID, true); err != nil {
		logger.ErrorContext(ctx, "Failed to mark room booked", "error", err, "room_id", booking.RoomID)
	}

	s.collector.RecordBookingCreated()

	event := events.BookingCreatedEvent{
		BookingID:     booking.ID,
		RoomID:        booking.RoomID,
		GuestEmail:    booking.GuestEmail,
		GuestName:     booking.GuestName,
		HostEmail:     booking.HostEmail,
		BookingDate:   booking.Date,
		Price:         booking.Price,
		TransactionID: booking.TransactionID,
		CreatedAt:     booking.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	if err := s.mail.SendBookingConfirmed(booking.GuestEmail, booking.GuestName, booking.RoomTitle, booking.TransactionID); err != nil {
		logger.ErrorContext(ctx, "Failed to send guest confirmation email", "error", err, "booking_id", booking.ID)
	}
	if err := s.mail.SendRoomBooked(booking.HostEmail, booking.GuestName, booking.RoomTitle); err != nil {
		logger.ErrorContext(ctx, "Failed to send host notification email", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *bookingService) ListForGuest(ctx context.Context, guestEmail string) ([]domain.Booking, error) {
	return s.bookings.ListByGuest(ctx, guestEmail)
}

func (s *bookingService) ListForHost(ctx context.Context, hostEmail string) ([]domain.Booking, error) {
	return s.bookings.ListByHost(ctx, hostEmail)
}

// Delete removes a booking owned by guestEmail. A booking belonging to
// someone else reports ErrNotFound rather than revealing its existence.
func (s *bookingService) Delete(ctx context.Context, id int64, guestEmail string) error {
	booking, err := s.bookings.DeleteOwned(ctx, id, guestEmail)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if booking == nil {
		return domain.ErrNotFound
	}

	if _, err := s.rooms.SetBooked(ctx, booking.RoomID, false); err != nil {
		logger.ErrorContext(ctx, "Failed to release room", "error", err, "room_id", booking.RoomID)
	}

	s.collector.RecordBookingCanceled()

	event := events.BookingCanceledEvent{
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		GuestEmail: booking.GuestEmail,
		HostEmail:  booking.HostEmail,
		CanceledAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.BookingCanceled, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking canceled event", "error", err, "booking_id", booking.ID)
	}

	return nil
}

func (s *bookingService) validate(req *domain.BookingReq) error {
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomId is required", domain.ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if req.TransactionID == "" {
		return fmt.Errorf("%w: transactionId is required", domain.ErrInvalidInput)
	}
	return nil
}
