package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/staywell/staywell-server/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Subjects
const (
	BookingCreated  = "booking.created"
	BookingCanceled = "booking.canceled"

	UserRoleRequested = "user.role_requested"
	UserRoleChanged   = "user.role_changed"

	PaymentIntentCreated = "payment.intent.created"
)

// Event payloads
type BookingCreatedEvent struct {
	BookingID     int64     `json:"booking_id"`
	RoomID        int64     `json:"room_id"`
	GuestEmail    string    `json:"guest_email"`
	GuestName     string    `json:"guest_name"`
	HostEmail     string    `json:"host_email"`
	BookingDate   time.Time `json:"booking_date"`
	Price         float64   `json:"price"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingCanceledEvent struct {
	BookingID  int64     `json:"booking_id"`
	RoomID     int64     `json:"room_id"`
	GuestEmail string    `json:"guest_email"`
	HostEmail  string    `json:"host_email"`
	CanceledAt time.Time `json:"canceled_at"`
}

type UserRoleRequestedEvent struct {
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}

type UserRoleChangedEvent struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ChangedAt time.Time `json:"changed_at"`
}

type PaymentIntentCreatedEvent struct {
	IntentID string  `json:"intent_id"`
	Email    string  `json:"email"`
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
}
