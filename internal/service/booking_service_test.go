package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/metrics"
	"github.com/staywell/staywell-server/internal/service"
	"github.com/staywell/staywell-server/pkg/events"
)

func newBookingService(bookings *mockBookingRepo, rooms *mockRoomRepo) (service.BookingService, *mockPublisher, *mockMailer) {
	bus := &mockPublisher{}
	mail := &mockMailer{}
	svc := service.NewBookingService(bookings, rooms, bus, mail, metrics.NopCollector{})
	return svc, bus, mail
}

func TestCreateBookingUsesStoredRoomOwnership(t *testing.T) {
	rooms := newMockRoomRepo()
	bookings := newMockBookingRepo()
	svc, bus, mail := newBookingService(bookings, rooms)

	room := rooms.add(domain.Room{Title: "Seaside Loft", HostEmail: "host@example.com"})

	booking, err := svc.Create(context.Background(), "guest@example.com", &domain.BookingReq{
		RoomID:        room.ID,
		GuestName:     "Guest",
		HostEmail:     "attacker@example.com", // must be ignored
		RoomTitle:     "Spoofed",
		Date:          time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
		Price:         150,
		TransactionID: "tx-123",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if booking.HostEmail != "host@example.com" {
		t.Errorf("HostEmail = %q, want the room's stored host", booking.HostEmail)
	}
	if booking.RoomTitle != "Seaside Loft" {
		t.Errorf("RoomTitle = %q, want the room's stored title", booking.RoomTitle)
	}
	if booking.GuestEmail != "guest@example.com" {
		t.Errorf("GuestEmail = %q, want the session identity", booking.GuestEmail)
	}

	if got, _ := rooms.GetByID(context.Background(), room.ID); !got.Booked {
		t.Error("room not marked booked")
	}

	if len(bus.published) != 1 || bus.published[0].subject != events.BookingCreated {
		t.Errorf("published = %v, want one %s event", bus.published, events.BookingCreated)
	}

	// Confirmation to guest, notification to host
	if len(mail.sent) != 2 {
		t.Fatalf("sent %d mails, want 2", len(mail.sent))
	}
	if mail.sent[0].to != "guest@example.com" || mail.sent[1].to != "host@example.com" {
		t.Errorf("mail recipients = %v", mail.sent)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	rooms := newMockRoomRepo()
	bookings := newMockBookingRepo()
	svc, _, _ := newBookingService(bookings, rooms)

	cases := []struct {
		name string
		req  domain.BookingReq
	}{
		{"missing room", domain.BookingReq{Date: time.Now(), Price: 10, TransactionID: "tx"}},
		{"missing date", domain.BookingReq{RoomID: 1, Price: 10, TransactionID: "tx"}},
		{"negative price", domain.BookingReq{RoomID: 1, Date: time.Now(), Price: -1, TransactionID: "tx"}},
		{"missing transaction", domain.BookingReq{RoomID: 1, Date: time.Now(), Price: 10}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "guest@example.com", &tc.req)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreateBookingUnknownRoom(t *testing.T) {
	svc, _, _ := newBookingService(newMockBookingRepo(), newMockRoomRepo())

	_, err := svc.Create(context.Background(), "guest@example.com", &domain.BookingReq{
		RoomID: 42, Date: time.Now(), Price: 10, TransactionID: "tx",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteBookingOwnedOnly(t *testing.T) {
	rooms := newMockRoomRepo()
	bookings := newMockBookingRepo()
	svc, bus, _ := newBookingService(bookings, rooms)

	room := rooms.add(domain.Room{Title: "Loft", HostEmail: "host@example.com"})
	booking, err := svc.Create(context.Background(), "owner@example.com", &domain.BookingReq{
		RoomID: room.ID, Date: time.Now(), Price: 80, TransactionID: "tx-1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Someone else cannot delete it
	if err := svc.Delete(context.Background(), booking.ID, "stranger@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete by non-owner: err = %v, want ErrNotFound", err)
	}

	// The owner can
	if err := svc.Delete(context.Background(), booking.ID, "owner@example.com"); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}

	if got, _ := rooms.GetByID(context.Background(), room.ID); got.Booked {
		t.Error("room not released after cancelation")
	}

	var canceled int
	for _, e := range bus.published {
		if e.subject == events.BookingCanceled {
			canceled++
		}
	}
	if canceled != 1 {
		t.Errorf("published %d canceled events, want 1", canceled)
	}
}
