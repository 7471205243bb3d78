package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/staywell/staywell-server/internal/domain"
)

// ---------- Mocks ----------

type mockUserRepo struct {
	users     map[string]*domain.User
	findCalls int
	findErr   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) add(u *domain.User) {
	cp := *u
	m.users[u.Email] = &cp
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Insert(_ context.Context, in *domain.UserUpsertReq) (*domain.User, error) {
	u := &domain.User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PhotoURL:     in.PhotoURL,
		Role:         domain.RoleGuest,
		Status:       in.Status,
		RegisteredAt: time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.users[in.Email] = u
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, email string, in *domain.UserUpdateReq) (*domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	if in.DisplayName != nil {
		u.DisplayName = *in.DisplayName
	}
	if in.PhotoURL != nil {
		u.PhotoURL = *in.PhotoURL
	}
	if in.Role != nil {
		u.Role = domain.Role(*in.Role)
	}
	if in.Status != nil {
		u.Status = *in.Status
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) UpdateStatus(_ context.Context, email, status string) (*domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	var emails []string
	for email := range m.users {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	var out []domain.User
	for _, email := range emails {
		out = append(out, *m.users[email])
	}
	return out, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) RegisteredAt(_ context.Context, email string) (*time.Time, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	t := u.RegisteredAt
	return &t, nil
}

type mockRoomRepo struct {
	nextID int64
	rooms  map[int64]*domain.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{nextID: 1, rooms: make(map[int64]*domain.Room)}
}

func (m *mockRoomRepo) add(room domain.Room) *domain.Room {
	room.ID = m.nextID
	m.nextID++
	m.rooms[room.ID] = &room
	return &room
}

func (m *mockRoomRepo) Create(_ context.Context, hostEmail, hostName string, in *domain.RoomReq) (*domain.Room, error) {
	room := m.add(domain.Room{
		Title:     in.Title,
		Category:  in.Category,
		Price:     in.Price,
		HostEmail: hostEmail,
		HostName:  hostName,
		CreatedAt: time.Now(),
	})
	cp := *room
	return &cp, nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id int64) (*domain.Room, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (m *mockRoomRepo) List(_ context.Context, category string) ([]domain.Room, error) {
	var out []domain.Room
	for _, room := range m.rooms {
		if category == "" || room.Category == category {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (m *mockRoomRepo) ListByHost(_ context.Context, hostEmail string) ([]domain.Room, error) {
	var out []domain.Room
	for _, room := range m.rooms {
		if room.HostEmail == hostEmail {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (m *mockRoomRepo) UpdateOwned(_ context.Context, id int64, hostEmail string, in *domain.RoomReq) (bool, error) {
	room, ok := m.rooms[id]
	if !ok || room.HostEmail != hostEmail {
		return false, nil
	}
	room.Title = in.Title
	room.Price = in.Price
	return true, nil
}

func (m *mockRoomRepo) SetBooked(_ context.Context, id int64, booked bool) (bool, error) {
	room, ok := m.rooms[id]
	if !ok {
		return false, nil
	}
	room.Booked = booked
	return true, nil
}

func (m *mockRoomRepo) DeleteOwned(_ context.Context, id int64, hostEmail string) (bool, error) {
	room, ok := m.rooms[id]
	if !ok || room.HostEmail != hostEmail {
		return false, nil
	}
	delete(m.rooms, id)
	return true, nil
}

func (m *mockRoomRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.rooms)), nil
}

func (m *mockRoomRepo) CountByHost(_ context.Context, hostEmail string) (int64, error) {
	var n int64
	for _, room := range m.rooms {
		if room.HostEmail == hostEmail {
			n++
		}
	}
	return n, nil
}

type mockBookingRepo struct {
	nextID   int64
	bookings []*domain.Booking
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{nextID: 1}
}

func (m *mockBookingRepo) Create(_ context.Context, guestEmail string, in *domain.BookingReq) (*domain.Booking, error) {
	b := &domain.Booking{
		ID:            m.nextID,
		RoomID:        in.RoomID,
		RoomTitle:     in.RoomTitle,
		GuestEmail:    guestEmail,
		GuestName:     in.GuestName,
		HostEmail:     in.HostEmail,
		Date:          in.Date,
		Price:         in.Price,
		TransactionID: in.TransactionID,
		CreatedAt:     time.Now(),
	}
	m.nextID++
	m.bookings = append(m.bookings, b)
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepo) ListByGuest(_ context.Context, guestEmail string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.GuestEmail == guestEmail {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) ListByHost(_ context.Context, hostEmail string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.HostEmail == hostEmail {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) DeleteOwned(_ context.Context, id int64, guestEmail string) (*domain.Booking, error) {
	for i, b := range m.bookings {
		if b.ID == id && b.GuestEmail == guestEmail {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockBookingRepo) SalesAll(_ context.Context) ([]domain.Sale, error) {
	var out []domain.Sale
	for _, b := range m.bookings {
		out = append(out, domain.Sale{Date: b.Date, Price: b.Price})
	}
	return out, nil
}

func (m *mockBookingRepo) SalesByGuest(_ context.Context, guestEmail string) ([]domain.Sale, error) {
	var out []domain.Sale
	for _, b := range m.bookings {
		if b.GuestEmail == guestEmail {
			out = append(out, domain.Sale{Date: b.Date, Price: b.Price})
		}
	}
	return out, nil
}

func (m *mockBookingRepo) SalesByHost(_ context.Context, hostEmail string) ([]domain.Sale, error) {
	var out []domain.Sale
	for _, b := range m.bookings {
		if b.HostEmail == hostEmail {
			out = append(out, domain.Sale{Date: b.Date, Price: b.Price})
		}
	}
	return out, nil
}

type publishedEvent struct {
	subject string
	data    interface{}
}

type mockPublisher struct {
	published []publishedEvent
}

func (m *mockPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	m.published = append(m.published, publishedEvent{subject: subject, data: data})
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type sentMail struct {
	to      string
	subject string
}

type mockMailer struct {
	sent []sentMail
}

func (m *mockMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	m.sent = append(m.sent, sentMail{to: toEmail, subject: subject})
	return "mock-id", nil
}

func (m *mockMailer) SendBookingConfirmed(toEmail, guestName, roomTitle, transactionID string) error {
	m.sent = append(m.sent, sentMail{to: toEmail, subject: "Booking Successful!"})
	return nil
}

func (m *mockMailer) SendRoomBooked(toEmail, guestName, roomTitle string) error {
	m.sent = append(m.sent, sentMail{to: toEmail, subject: "Your room got booked!"})
	return nil
}
