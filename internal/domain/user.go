package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleGuest, RoleHost, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// StatusRequested marks an identity that has asked an admin for the host
// role. The role itself only changes when an admin approves.
const StatusRequested = "Requested"

// User is an identity keyed by email. Email is the only stable identifier;
// RegisteredAt is set once on first upsert and never overwritten.
type User struct {
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PhotoURL     string    `json:"photoURL"`
	Role         Role      `json:"role"`
	Status       string    `json:"status,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserUpsertReq struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	Status      string `json:"status"`
}

type UserUpdateReq struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	Role        *string `json:"role"`
	Status      *string `json:"status"`
}
