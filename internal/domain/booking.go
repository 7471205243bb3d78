package domain

import "time"

// Booking denormalizes both guest and host emails onto the record so scoped
// queries never need a join.
type Booking struct {
	ID            int64     `json:"id"`
	RoomID        int64     `json:"roomId"`
	RoomTitle     string    `json:"roomTitle"`
	GuestEmail    string    `json:"guestEmail"`
	GuestName     string    `json:"guestName"`
	HostEmail     string    `json:"hostEmail"`
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type BookingReq struct {
	RoomID        int64     `json:"roomId"`
	RoomTitle     string    `json:"roomTitle"`
	GuestName     string    `json:"guestName"`
	HostEmail     string    `json:"hostEmail"`
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	TransactionID string    `json:"transactionId"`
}

// Sale is the aggregation projection of a booking: date and price only.
type Sale struct {
	Date  time.Time
	Price float64
}
