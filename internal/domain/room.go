package domain

import "time"

type Room struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageURL"`
	Price       float64   `json:"price"`
	Guests      int       `json:"guests"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Booked      bool      `json:"booked"`
	HostEmail   string    `json:"hostEmail"`
	HostName    string    `json:"hostName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type RoomReq struct {
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageURL"`
	Price       float64 `json:"price"`
	Guests      int     `json:"guests"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
}
